package payment

import "context"

// Repository stores payments. Every Find method only sees active payments,
// FindByID included; it returns ErrNotFound for a missing or inactive id.
// Save inserts when ID is zero (assigning it) and updates otherwise.
type Repository interface {
	Save(ctx context.Context, p *Payment) error
	FindByID(ctx context.Context, id int64) (*Payment, error)
	FindAll(ctx context.Context) ([]*Payment, error)
	FindByDebtCode(ctx context.Context, debtCode int64) ([]*Payment, error)
	FindByPayerID(ctx context.Context, payerID string) ([]*Payment, error)
	FindByStatus(ctx context.Context, status Status) ([]*Payment, error)
}
