package metrics

import "sync/atomic"

type Counters struct {
	PaymentsCreated     uint64
	StatusChanges       uint64
	Deactivations       uint64
	RejectedTransitions uint64
}

func (c *Counters) IncCreated() {
	atomic.AddUint64(&c.PaymentsCreated, 1)
}

func (c *Counters) IncStatusChanged() {
	atomic.AddUint64(&c.StatusChanges, 1)
}

func (c *Counters) IncDeactivated() {
	atomic.AddUint64(&c.Deactivations, 1)
}

func (c *Counters) IncRejected() {
	atomic.AddUint64(&c.RejectedTransitions, 1)
}

type Snapshot struct {
	PaymentsCreated     uint64 `json:"payments_created"`
	StatusChanges       uint64 `json:"status_changes"`
	Deactivations       uint64 `json:"deactivations"`
	RejectedTransitions uint64 `json:"rejected_transitions"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		PaymentsCreated:     atomic.LoadUint64(&c.PaymentsCreated),
		StatusChanges:       atomic.LoadUint64(&c.StatusChanges),
		Deactivations:       atomic.LoadUint64(&c.Deactivations),
		RejectedTransitions: atomic.LoadUint64(&c.RejectedTransitions),
	}
}
