package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const EnvPrefix = "PAYMENTS"

var ErrInvalidConfig = errors.New("invalid config")

// Load reads the optional YAML file at path, applies PAYMENTS_* environment
// overrides and validates the result. An empty path uses defaults and the
// environment only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	registerDefaults(v, cfg)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("%w: store.sqlite_path is required for the sqlite backend", ErrInvalidConfig)
		}
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return fmt.Errorf("%w: store.postgres_dsn is required for the postgres backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store.backend %q", ErrInvalidConfig, c.Store.Backend)
	}

	if c.Outbox.PollInterval <= 0 || c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("%w: outbox.poll_interval and outbox.batch_size must be positive", ErrInvalidConfig)
	}

	if c.Auth.AdminRole == "" {
		return fmt.Errorf("%w: auth.admin_role is required", ErrInvalidConfig)
	}

	switch c.Auth.Provider {
	case ProviderLocal:
		if c.Auth.Local.Secret == "" {
			return fmt.Errorf("%w: auth.local.secret is required for the local provider", ErrInvalidConfig)
		}
	case ProviderKeycloak:
		k := c.Auth.Keycloak
		if k.BaseURL == "" || k.Realm == "" || k.ClientID == "" {
			return fmt.Errorf("%w: auth.keycloak.base_url, realm and client_id are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown auth.provider %q", ErrInvalidConfig, c.Auth.Provider)
	}

	return nil
}
