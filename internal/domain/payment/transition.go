package payment

import "time"

// AttemptTransition is the status state machine. SUCCEEDED absorbs every
// request; FAILED only goes back to PENDING; PENDING accepts anything,
// including itself.
func AttemptTransition(current, requested Status) (Status, Rejection, bool) {
	if !requested.Valid() {
		return current, RejectUnknownStatus, false
	}
	switch current {
	case StatusPending:
		return requested, "", true
	case StatusFailed:
		if requested == StatusPending {
			return requested, "", true
		}
		return current, RejectFailedRetry, false
	case StatusSucceeded:
		return current, RejectTerminal, false
	}
	return current, RejectUnknownStatus, false
}

// UpdateStatus applies the state machine. On rejection the payment is left
// untouched and a *TransitionError is returned.
func (p *Payment) UpdateStatus(requested Status, now time.Time) error {
	next, reason, ok := AttemptTransition(p.Status, requested)
	if !ok {
		return &TransitionError{From: p.Status, To: requested, Reason: reason}
	}
	p.Status = next
	p.touch(now)
	return nil
}

// Deactivate is the logical delete, allowed only while the payment is pending.
func (p *Payment) Deactivate(now time.Time) error {
	if p.Status != StatusPending {
		return &TransitionError{From: p.Status, To: p.Status, Reason: RejectNotPending}
	}
	p.Active = false
	p.touch(now)
	return nil
}

func (p *Payment) touch(now time.Time) {
	// updatedAt never precedes createdAt, even with a skewed clock
	if now.Before(p.CreatedAt) {
		now = p.CreatedAt
	}
	p.UpdatedAt = &now
}
