package inmemory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

// PaymentRepository keeps copies of payments so callers can never mutate
// stored state without going through Save.
type PaymentRepository struct {
	mu       sync.RWMutex
	payments map[int64]*payment.Payment
	nextID   int64
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		mu:       sync.RWMutex{},
		payments: make(map[int64]*payment.Payment),
	}
}

func (r *PaymentRepository) Save(_ context.Context, p *payment.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		r.nextID++
		p.ID = r.nextID
	} else if _, ok := r.payments[p.ID]; !ok {
		return payment.ErrNotFound
	}

	r.payments[p.ID] = clone(p)
	return nil
}

func (r *PaymentRepository) FindByID(_ context.Context, id int64) (*payment.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.payments[id]
	if !ok || !p.Active {
		return nil, payment.ErrNotFound
	}

	return clone(p), nil
}

func (r *PaymentRepository) FindAll(_ context.Context) ([]*payment.Payment, error) {
	return r.find(func(*payment.Payment) bool { return true }), nil
}

func (r *PaymentRepository) FindByDebtCode(_ context.Context, debtCode int64) ([]*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.DebtCode == debtCode }), nil
}

func (r *PaymentRepository) FindByPayerID(_ context.Context, payerID string) ([]*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.PayerID == payerID }), nil
}

func (r *PaymentRepository) FindByStatus(_ context.Context, status payment.Status) ([]*payment.Payment, error) {
	return r.find(func(p *payment.Payment) bool { return p.Status == status }), nil
}

// Len counts every stored payment, inactive ones included.
func (r *PaymentRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.payments)
}

func (r *PaymentRepository) find(match func(*payment.Payment) bool) []*payment.Payment {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*payment.Payment, 0)
	for _, p := range r.payments {
		if p.Active && match(p) {
			out = append(out, clone(p))
		}
	}

	// map iteration is random; ids give a stable order
	slices.SortFunc(out, func(a, b *payment.Payment) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func clone(p *payment.Payment) *payment.Payment {
	c := *p
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
