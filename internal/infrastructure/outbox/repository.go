package outbox

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
)

// OutboxEvent is a payment event waiting in the outbox table, with its
// payload stored as JSON.
type OutboxEvent struct {
	ID        string
	Type      event.Type
	Payload   []byte
	Published bool
	CreatedAt time.Time
}

func newOutboxEvent(evt event.Event, now time.Time) (OutboxEvent, error) {
	payload, err := json.Marshal(evt.Payload)
	if err != nil {
		return OutboxEvent{}, fmt.Errorf("encode %s payload: %w", evt.Type, err)
	}

	return OutboxEvent{
		ID:        uuid.NewString(),
		Type:      evt.Type,
		Payload:   payload,
		CreatedAt: now.UTC(),
	}, nil
}

// Event rebuilds the bus event with its typed payload.
func (o OutboxEvent) Event() (event.Event, error) {
	payload, err := event.DecodePayload(o.Type, o.Payload)
	if err != nil {
		return event.Event{}, err
	}
	return event.Event{Type: o.Type, Payload: payload}, nil
}

type Repository interface {
	Save(OutboxEvent) error
	FindUnpublished(limit int) ([]OutboxEvent, error)
	MarkPublished(id string) error
}
