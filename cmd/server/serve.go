package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	paymentApplication "github.com/rcarvalho-pb/debt_payment-go/internal/application/payment"
	"github.com/rcarvalho-pb/debt_payment-go/internal/config"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/metrics"
	httpapi "github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/http"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infrastructure/outbox"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the payment API and the outbox dispatcher",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runServe(ctx, cfg)
		},
	}
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logger := logging.NewSlogLogger(os.Stdout, cfg.Log.Level, cfg.Log.Format)

	st, err := openStore(cfg.Store)
	if err != nil {
		return err
	}

	counters := &metrics.Counters{}
	bus := newEventBus(logger, counters)

	authService, closeAuth, err := newAuthService(*cfg, logger)
	if err != nil {
		st.Close()
		return err
	}
	defer closeAll(logger, st.Close, closeAuth)

	payments := &paymentApplication.Service{
		Repo:     st.Payments,
		Recorder: newRecorder(cfg.Outbox, st, bus),
		Logger:   logger,
		Metrics:  counters,
	}

	gin.SetMode(gin.ReleaseMode)
	server := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: httpapi.NewRouter(httpapi.Dependencies{
			Payments: payments,
			Auth:     authService,
			Metrics:  counters,
			Logger:   logger,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	var dispatcher *outbox.Dispatcher
	dispatcherDone := make(chan struct{})
	if st.Outbox != nil && cfg.Outbox.Enabled {
		dispatcher = &outbox.Dispatcher{
			Repo:         st.Outbox,
			EventBus:     bus,
			Logger:       logger,
			PollInterval: cfg.Outbox.PollInterval,
			BatchSize:    cfg.Outbox.BatchSize,
		}
		go func() {
			defer close(dispatcherDone)
			dispatcher.Run(ctx)
		}()
	} else {
		close(dispatcherDone)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server listening", map[string]any{
			"addr":          cfg.HTTP.Addr,
			"store":         cfg.Store.Backend,
			"auth-provider": cfg.Auth.Provider,
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down", nil)
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", map[string]any{"error": err.Error()})
	}

	<-dispatcherDone
	if dispatcher != nil {
		// deliver what the last requests recorded
		dispatcher.DispatchOnce()
	}

	return nil
}
