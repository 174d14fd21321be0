package audit

import (
	"fmt"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
)

type Counters interface {
	IncCreated()
	IncStatusChanged()
	IncDeactivated()
}

// PaymentEventHandler writes an audit line and bumps the lifecycle counters
// for every payment event delivered by the bus.
type PaymentEventHandler struct {
	Logger  logging.Logger
	Metrics Counters
}

func (h *PaymentEventHandler) Handle(evt event.Event) error {
	switch evt.Type {
	case event.PaymentCreated:
		payload, ok := evt.Payload.(event.PaymentCreatedPayload)
		if !ok {
			return invalidPayload(evt)
		}
		h.Metrics.IncCreated()
		h.Logger.Info("audit: payment created", map[string]any{
			"payment-id": payload.PaymentID,
			"debt-code":  payload.DebtCode,
			"method":     payload.Method,
			"amount":     payload.Amount,
		})

	case event.PaymentStatusChanged:
		payload, ok := evt.Payload.(event.PaymentStatusChangedPayload)
		if !ok {
			return invalidPayload(evt)
		}
		h.Metrics.IncStatusChanged()
		h.Logger.Info("audit: payment status changed", map[string]any{
			"payment-id": payload.PaymentID,
			"from":       payload.From,
			"to":         payload.To,
		})

	case event.PaymentDeactivated:
		payload, ok := evt.Payload.(event.PaymentDeactivatedPayload)
		if !ok {
			return invalidPayload(evt)
		}
		h.Metrics.IncDeactivated()
		h.Logger.Info("audit: payment deactivated", map[string]any{
			"payment-id": payload.PaymentID,
		})
	}
	return nil
}

func invalidPayload(evt event.Event) error {
	return fmt.Errorf("invalid payload %T for %s", evt.Payload, evt.Type)
}
