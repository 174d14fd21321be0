package httpapi

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
)

const principalKey = "principal"

// RequireAdmin rejects requests without a bearer token carrying the
// configured admin role.
func RequireAdmin(service *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			writeError(c, auth.ErrInvalidToken)
			return
		}

		principal, err := service.Authorize(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			writeError(c, err)
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequestLogger writes one line per request.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency-ms": time.Since(start).Milliseconds(),
		}
		if p, ok := c.Get(principalKey); ok {
			fields["subject"] = p.(*auth.Principal).Subject
		}

		if len(c.Errors) > 0 {
			fields["error"] = c.Errors.String()
			logger.Error("request failed", fields)
			return
		}
		logger.Info("request", fields)
	}
}
