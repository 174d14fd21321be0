package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	paymentApplication "github.com/rcarvalho-pb/debt_payment-go/internal/application/payment"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/metrics"
)

type Dependencies struct {
	Payments *paymentApplication.Service
	Auth     *auth.Service
	Metrics  *metrics.Counters
	Logger   logging.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop{}
	}

	router := gin.New()
	router.Use(gin.Recovery(), RequestLogger(logger))

	payments := &PaymentHandler{Service: deps.Payments}
	authHandler := &AuthHandler{Service: deps.Auth}
	metricsHandler := &MetricsHandler{Counters: deps.Metrics}

	router.GET("/health", health)
	router.POST("/auth/login", authHandler.Login)

	protected := router.Group("/", RequireAdmin(deps.Auth))
	{
		protected.POST("/payments", payments.Create)
		protected.GET("/payments", payments.List)
		protected.GET("/payments/filter", payments.Filter)
		protected.GET("/payments/:id", payments.Get)
		protected.PUT("/payments/:id/status", payments.UpdateStatus)
		protected.DELETE("/payments/:id", payments.Deactivate)

		protected.GET("/metrics", metricsHandler.Snapshot)
	}

	return router
}
