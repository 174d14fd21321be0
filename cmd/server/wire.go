package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/rcarvalho-pb/debt_payment-go/internal/application/audit"
	appAuth "github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	"github.com/rcarvalho-pb/debt_payment-go/internal/application/contracts"
	"github.com/rcarvalho-pb/debt_payment-go/internal/config"
	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/metrics"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/auth"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/eventbus"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/outbox"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/persistence/inmemory"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/persistence/postgres"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/persistence/sqlite"
)

// store bundles the payment repository with the outbox living in the same
// database. Outbox is nil for the memory backend.
type store struct {
	Payments payment.Repository
	Outbox   outbox.Repository
	close    func() error
}

func (s *store) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

func openStore(cfg config.StoreConfig) (*store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return &store{Payments: inmemory.NewPaymentRepository()}, nil

	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		if err := sqlite.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite: %w", err)
		}
		return &store{
			Payments: sqlite.NewPaymentRepository(db),
			Outbox:   outbox.NewSQLiteRepository(db),
			close:    db.Close,
		}, nil

	case config.BackendPostgres:
		db, err := postgres.Open(cfg.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		outboxRepo := outbox.NewGormRepository(db)
		if err := migrateGorm(db, outboxRepo); err != nil {
			sqlDB.Close()
			return nil, err
		}
		return &store{
			Payments: postgres.NewPaymentRepository(db),
			Outbox:   outboxRepo,
			close:    sqlDB.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
}

func migrateGorm(db *gorm.DB, outboxRepo *outbox.GormRepository) error {
	if err := postgres.RunMigrations(db); err != nil {
		return fmt.Errorf("migrate payments: %w", err)
	}
	if err := outboxRepo.Migrate(); err != nil {
		return fmt.Errorf("migrate outbox: %w", err)
	}
	return nil
}

// newEventBus subscribes the audit handler to every payment event.
func newEventBus(logger logging.Logger, counters *metrics.Counters) *eventbus.InMemoryBus {
	bus := eventbus.NewInMemoryBus()

	handler := &audit.PaymentEventHandler{
		Logger:  logger,
		Metrics: counters,
	}

	bus.SubscribeAll(handler.Handle,
		event.PaymentCreated,
		event.PaymentStatusChanged,
		event.PaymentDeactivated,
	)

	return bus
}

func newRecorder(cfg config.OutboxConfig, s *store, bus *eventbus.InMemoryBus) contracts.EventRecorder {
	if s.Outbox == nil || !cfg.Enabled {
		return &outbox.DirectRecorder{EventBus: bus}
	}
	return &outbox.Recorder{Repo: s.Outbox}
}

func newAuthService(cfg config.Config, logger logging.Logger) (*appAuth.Service, func() error, error) {
	var (
		issuer    appAuth.TokenIssuer
		validator appAuth.TokenValidator
	)

	switch cfg.Auth.Provider {
	case config.ProviderLocal:
		users := make(map[string]auth.LocalUser, len(cfg.Auth.Local.Users))
		for name, u := range cfg.Auth.Local.Users {
			users[name] = auth.LocalUser{PasswordHash: u.PasswordHash, Roles: u.Roles}
		}
		provider := &auth.LocalProvider{
			Users:  users,
			Secret: []byte(cfg.Auth.Local.Secret),
			Issuer: cfg.Auth.Local.Issuer,
			TTL:    cfg.Auth.Local.TokenTTL,
		}
		issuer, validator = provider, provider

	case config.ProviderKeycloak:
		k := cfg.Auth.Keycloak
		client := &auth.KeycloakClient{
			BaseURL:      k.BaseURL,
			Realm:        k.Realm,
			ClientID:     k.ClientID,
			ClientSecret: k.ClientSecret,
			DevMode:      k.DevMode,
			HTTP:         &http.Client{Timeout: k.Timeout},
			Logger:       logger,
		}
		if k.DevMode {
			logger.Warn("keycloak dev mode: tokens are not introspected", nil)
		}
		issuer, validator = client, client

	default:
		return nil, nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}

	closeFn := func() error { return nil }

	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(context.Background()).Err(); err != nil {
			logger.Warn("redis unreachable, token cache will miss until it recovers", map[string]any{
				"addr":  cfg.Redis.Addr,
				"error": err.Error(),
			})
		}

		validator = &auth.CachingValidator{
			Next:   validator,
			Cache:  &auth.RedisCache{Client: rdb},
			TTL:    cfg.Redis.TokenTTL,
			Logger: logger,
		}
		closeFn = rdb.Close
	}

	return &appAuth.Service{
		Issuer:    issuer,
		Validator: validator,
		AdminRole: cfg.Auth.AdminRole,
	}, closeFn, nil
}

func closeAll(logger logging.Logger, closers ...func() error) {
	var errs []error
	for _, c := range closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		logger.Error("shutdown", map[string]any{"error": err.Error()})
	}
}
