package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	if p.ID == 0 {
		row := toRow(p)
		if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
			return fmt.Errorf("insert payment: %w", classify(err))
		}
		p.ID = row.ID
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&paymentRow{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"status":     string(p.Status),
			"updated_at": p.UpdatedAt,
			"active":     p.Active,
		})
	if res.Error != nil {
		return fmt.Errorf("update payment %d: %w", p.ID, classify(res.Error))
	}
	if res.RowsAffected == 0 {
		return payment.ErrNotFound
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*payment.Payment, error) {
	var row paymentRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND active = ?", id, true).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrNotFound
		}
		return nil, err
	}

	return row.toDomain(), nil
}

func (r *PaymentRepository) FindAll(ctx context.Context) ([]*payment.Payment, error) {
	return r.find(ctx, r.db)
}

func (r *PaymentRepository) FindByDebtCode(ctx context.Context, debtCode int64) ([]*payment.Payment, error) {
	return r.find(ctx, r.db.Where("debt_code = ?", debtCode))
}

func (r *PaymentRepository) FindByPayerID(ctx context.Context, payerID string) ([]*payment.Payment, error) {
	return r.find(ctx, r.db.Where("payer_id = ?", payerID))
}

func (r *PaymentRepository) FindByStatus(ctx context.Context, status payment.Status) ([]*payment.Payment, error) {
	return r.find(ctx, r.db.Where("status = ?", string(status)))
}

func (r *PaymentRepository) find(ctx context.Context, q *gorm.DB) ([]*payment.Payment, error) {
	var rows []paymentRow
	if err := q.WithContext(ctx).
		Where("active = ?", true).
		Order("id").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	payments := make([]*payment.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.toDomain())
	}
	return payments, nil
}
