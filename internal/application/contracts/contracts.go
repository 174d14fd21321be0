package contracts

import "github.com/rcarvalho-pb/debt_payment-go/internal/domain/event"

type EventRecorder interface {
	Record(event.Event) error
}

// RejectionCounter is notified when the state machine refuses a request.
type RejectionCounter interface {
	IncRejected()
}
