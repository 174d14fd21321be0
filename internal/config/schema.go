package config

import "time"

// Config is the root configuration for paymentsd.
type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	Store  StoreConfig  `mapstructure:"store"`
	Outbox OutboxConfig `mapstructure:"outbox"`
	Auth   AuthConfig   `mapstructure:"auth"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Log    LogConfig    `mapstructure:"log"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

type StoreConfig struct {
	Backend     string `mapstructure:"backend"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	PostgresDSN string `mapstructure:"postgres_dsn"`
}

// OutboxConfig only applies to the SQL backends. The memory backend
// publishes events directly.
type OutboxConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	PollInterval time.Duration `mapstructure:"poll_interval"`
	BatchSize    int           `mapstructure:"batch_size"`
}

const (
	ProviderLocal    = "local"
	ProviderKeycloak = "keycloak"
)

type AuthConfig struct {
	Provider  string         `mapstructure:"provider"`
	AdminRole string         `mapstructure:"admin_role"`
	Local     LocalConfig    `mapstructure:"local"`
	Keycloak  KeycloakConfig `mapstructure:"keycloak"`
}

type LocalConfig struct {
	Secret   string        `mapstructure:"secret"`
	Issuer   string        `mapstructure:"issuer"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
	// Users is keyed by username. Keys are lower-cased when read from YAML.
	Users map[string]LocalUserConfig `mapstructure:"users"`
}

type LocalUserConfig struct {
	PasswordHash string   `mapstructure:"password_hash"`
	Roles        []string `mapstructure:"roles"`
}

type KeycloakConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Realm        string        `mapstructure:"realm"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	DevMode      bool          `mapstructure:"dev_mode"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// RedisConfig enables the token validation cache when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
