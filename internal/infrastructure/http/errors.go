package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rcarvalho-pb/debt_payment-go/internal/application/auth"
	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, payment.ErrInvalidInput), errors.Is(err, payment.ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, payment.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// writeError maps err to a status code and aborts the request. Internal
// errors are attached to the context for the request logger and never
// shown to the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": msg})
}
