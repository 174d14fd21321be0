package config

import (
	"time"

	"github.com/spf13/viper"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Backend:    BackendMemory,
			SQLitePath: "payments.db",
		},
		Outbox: OutboxConfig{
			Enabled:      true,
			PollInterval: time.Second,
			BatchSize:    100,
		},
		Auth: AuthConfig{
			Provider:  ProviderLocal,
			AdminRole: "payment_admin",
			Local: LocalConfig{
				Issuer:   "debt-payments",
				TokenTTL: time.Hour,
			},
			Keycloak: KeycloakConfig{
				Realm:   "payments",
				Timeout: 5 * time.Second,
			},
		},
		Redis: RedisConfig{
			TokenTTL: time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// registerDefaults makes every key known to viper so env overrides apply
// even when the key is missing from the file.
func registerDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("http.addr", cfg.HTTP.Addr)
	v.SetDefault("http.read_timeout", cfg.HTTP.ReadTimeout)
	v.SetDefault("http.write_timeout", cfg.HTTP.WriteTimeout)
	v.SetDefault("http.shutdown_timeout", cfg.HTTP.ShutdownTimeout)

	v.SetDefault("store.backend", cfg.Store.Backend)
	v.SetDefault("store.sqlite_path", cfg.Store.SQLitePath)
	v.SetDefault("store.postgres_dsn", cfg.Store.PostgresDSN)

	v.SetDefault("outbox.enabled", cfg.Outbox.Enabled)
	v.SetDefault("outbox.poll_interval", cfg.Outbox.PollInterval)
	v.SetDefault("outbox.batch_size", cfg.Outbox.BatchSize)

	v.SetDefault("auth.provider", cfg.Auth.Provider)
	v.SetDefault("auth.admin_role", cfg.Auth.AdminRole)
	v.SetDefault("auth.local.secret", cfg.Auth.Local.Secret)
	v.SetDefault("auth.local.issuer", cfg.Auth.Local.Issuer)
	v.SetDefault("auth.local.token_ttl", cfg.Auth.Local.TokenTTL)
	v.SetDefault("auth.keycloak.base_url", cfg.Auth.Keycloak.BaseURL)
	v.SetDefault("auth.keycloak.realm", cfg.Auth.Keycloak.Realm)
	v.SetDefault("auth.keycloak.client_id", cfg.Auth.Keycloak.ClientID)
	v.SetDefault("auth.keycloak.client_secret", cfg.Auth.Keycloak.ClientSecret)
	v.SetDefault("auth.keycloak.dev_mode", cfg.Auth.Keycloak.DevMode)
	v.SetDefault("auth.keycloak.timeout", cfg.Auth.Keycloak.Timeout)

	v.SetDefault("redis.addr", cfg.Redis.Addr)
	v.SetDefault("redis.password", cfg.Redis.Password)
	v.SetDefault("redis.db", cfg.Redis.DB)
	v.SetDefault("redis.token_ttl", cfg.Redis.TokenTTL)

	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
}
