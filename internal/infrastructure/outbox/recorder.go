package outbox

import (
	"time"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"
)

// Recorder writes events to the outbox; the Dispatcher delivers them later.
type Recorder struct {
	Repo Repository
}

func (r *Recorder) Record(evt event.Event) error {
	entry, err := newOutboxEvent(evt, time.Now())
	if err != nil {
		return err
	}
	return r.Repo.Save(entry)
}

// DirectRecorder skips the outbox and publishes right away. Used when there
// is no durable store to hold the outbox table.
type DirectRecorder struct {
	EventBus Publisher
}

func (r *DirectRecorder) Record(evt event.Event) error {
	return r.EventBus.Publish(evt)
}
