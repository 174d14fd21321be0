package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rcarvalho-pb/debt_payment-go/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if cfg.Store.Backend != config.BackendMemory {
		t.Errorf("expected memory backend, got %s", cfg.Store.Backend)
	}
	if cfg.Auth.AdminRole != "payment_admin" {
		t.Errorf("expected admin role payment_admin, got %s", cfg.Auth.AdminRole)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("expected token cache disabled by default, got addr %q", cfg.Redis.Addr)
	}
}

func TestLoad_DefaultsNeedSecret(t *testing.T) {
	t.Setenv("PAYMENTS_AUTH_LOCAL_SECRET", "")

	_, err := config.Load("")
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
http:
  addr: ":9090"
store:
  backend: sqlite
  sqlite_path: /tmp/payments.db
outbox:
  poll_interval: 250ms
auth:
  admin_role: finance
  local:
    secret: s3cret
    token_ttl: 30m
    users:
      alice:
        password_hash: "$2a$10$abc"
        roles: [finance]
log:
  format: text
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.HTTP.Addr)
	require.Equal(t, config.BackendSQLite, cfg.Store.Backend)
	require.Equal(t, "/tmp/payments.db", cfg.Store.SQLitePath)
	require.Equal(t, 250*time.Millisecond, cfg.Outbox.PollInterval)
	require.Equal(t, 100, cfg.Outbox.BatchSize, "unset keys keep defaults")
	require.Equal(t, "finance", cfg.Auth.AdminRole)
	require.Equal(t, 30*time.Minute, cfg.Auth.Local.TokenTTL)
	require.Equal(t, []string{"finance"}, cfg.Auth.Local.Users["alice"].Roles)
	require.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
auth:
  local:
    secret: from-file
`)
	t.Setenv("PAYMENTS_AUTH_LOCAL_SECRET", "from-env")
	t.Setenv("PAYMENTS_REDIS_ADDR", "localhost:6379")
	t.Setenv("PAYMENTS_REDIS_TOKEN_TTL", "2m")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "from-env", cfg.Auth.Local.Secret)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
	require.Equal(t, 2*time.Minute, cfg.Redis.TokenTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *config.Config {
		cfg := config.DefaultConfig()
		cfg.Auth.Local.Secret = "s3cret"
		return cfg
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(*config.Config){
		"unknown backend":    func(c *config.Config) { c.Store.Backend = "mongo" },
		"postgres needs dsn": func(c *config.Config) { c.Store.Backend = config.BackendPostgres },
		"unknown provider":   func(c *config.Config) { c.Auth.Provider = "ldap" },
		"keycloak needs url": func(c *config.Config) { c.Auth.Provider = config.ProviderKeycloak },
		"empty admin role":   func(c *config.Config) { c.Auth.AdminRole = "" },
		"zero outbox batch":  func(c *config.Config) { c.Outbox.BatchSize = 0 },
	}

	for name, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
