package outbox

import (
	"context"
	"time"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
	"github.com/rcarvalho-pb/debt_payment-go/internal/infra/logging"
)

type Publisher interface {
	Publish(event.Event) error
}

type Dispatcher struct {
	Repo         Repository
	EventBus     Publisher
	Logger       logging.Logger
	PollInterval time.Duration
	BatchSize    int
}

func (d *Dispatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(d.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.DispatchOnce()
		}
	}
}

// DispatchOnce publishes one batch and returns how many events were marked
// published. Events whose handlers fail stay in the outbox for the next poll.
func (d *Dispatcher) DispatchOnce() int {
	events, err := d.Repo.FindUnpublished(d.BatchSize)
	if err != nil {
		d.logger().Error("outbox poll failed", map[string]any{"error": err.Error()})
		return 0
	}

	published := 0
	for _, evt := range events {
		decoded, err := evt.Event()
		if err != nil {
			d.logger().Error("outbox payload undecodable", map[string]any{
				"outbox-id": evt.ID,
				"error":     err.Error(),
			})
			continue
		}

		if err := d.EventBus.Publish(decoded); err != nil {
			d.logger().Warn("outbox publish failed", map[string]any{
				"outbox-id":  evt.ID,
				"event-type": evt.Type,
				"error":      err.Error(),
			})
			continue
		}

		if err := d.Repo.MarkPublished(evt.ID); err != nil {
			d.logger().Error("outbox mark published failed", map[string]any{
				"outbox-id": evt.ID,
				"error":     err.Error(),
			})
			continue
		}
		published++
	}

	return published
}

func (d *Dispatcher) logger() logging.Logger {
	if d.Logger == nil {
		return logging.Nop{}
	}
	return d.Logger
}
