package payment

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("payment not found")
	ErrInvalidTransition = errors.New("invalid transition")
)

// Rejection tags why the state machine refused a request.
type Rejection string

const (
	RejectTerminal      Rejection = "TERMINAL_STATUS"
	RejectFailedRetry   Rejection = "FAILED_ONLY_TO_PENDING"
	RejectNotPending    Rejection = "NOT_PENDING"
	RejectUnknownStatus Rejection = "UNKNOWN_STATUS"
)

type TransitionError struct {
	From   Status
	To     Status
	Reason Rejection
}

func (e *TransitionError) Error() string {
	switch e.Reason {
	case RejectTerminal:
		return fmt.Sprintf("payment already %s, status cannot change to %s", e.From, e.To)
	case RejectFailedRetry:
		return fmt.Sprintf("a %s payment can only go back to %s, not %s", e.From, StatusPending, e.To)
	case RejectNotPending:
		return fmt.Sprintf("only %s payments can be deactivated, current status is %s", StatusPending, e.From)
	}
	return fmt.Sprintf("cannot move payment from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}
