package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

const selectPayments = `SELECT id, debt_code, payer_id, method, card_number, amount,
	status, created_at, updated_at, active
	FROM payments`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	if p.ID == 0 {
		return r.insert(ctx, p)
	}
	return r.update(ctx, p)
}

func (r *PaymentRepository) insert(ctx context.Context, p *payment.Payment) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO payments
		 (debt_code, payer_id, method, card_number, amount, status, created_at, updated_at, active)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.DebtCode,
		p.PayerID,
		string(p.Method),
		nullString(p.CardNumber),
		p.Amount.String(),
		string(p.Status),
		formatTime(p.CreatedAt),
		nullTime(p.UpdatedAt),
		p.Active,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}

	p.ID = id
	return nil
}

// update rewrites the mutable columns only; created_at, debt_code, payer
// and method are fixed at creation.
func (r *PaymentRepository) update(ctx context.Context, p *payment.Payment) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE payments
		 SET status = ?, updated_at = ?, active = ?
		 WHERE id = ?`,
		string(p.Status),
		nullTime(p.UpdatedAt),
		p.Active,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment %d: %w", p.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payment.ErrNotFound
	}

	return nil
}

func (r *PaymentRepository) FindByID(ctx context.Context, id int64) (*payment.Payment, error) {
	row := r.db.QueryRowContext(ctx, selectPayments+` WHERE id = ? AND active = 1`, id)

	p, err := scanPayment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

func (r *PaymentRepository) FindAll(ctx context.Context) ([]*payment.Payment, error) {
	return r.query(ctx, selectPayments+` WHERE active = 1 ORDER BY id`)
}

func (r *PaymentRepository) FindByDebtCode(ctx context.Context, debtCode int64) ([]*payment.Payment, error) {
	return r.query(ctx, selectPayments+` WHERE debt_code = ? AND active = 1 ORDER BY id`, debtCode)
}

func (r *PaymentRepository) FindByPayerID(ctx context.Context, payerID string) ([]*payment.Payment, error) {
	return r.query(ctx, selectPayments+` WHERE payer_id = ? AND active = 1 ORDER BY id`, payerID)
}

func (r *PaymentRepository) FindByStatus(ctx context.Context, status payment.Status) ([]*payment.Payment, error) {
	return r.query(ctx, selectPayments+` WHERE status = ? AND active = 1 ORDER BY id`, string(status))
}

func (r *PaymentRepository) query(ctx context.Context, q string, args ...any) ([]*payment.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	payments := make([]*payment.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPayment(s scanner) (*payment.Payment, error) {
	var (
		p         payment.Payment
		method    string
		card      sql.NullString
		status    string
		createdAt string
		updatedAt sql.NullString
	)

	if err := s.Scan(
		&p.ID,
		&p.DebtCode,
		&p.PayerID,
		&method,
		&card,
		&p.Amount,
		&status,
		&createdAt,
		&updatedAt,
		&p.Active,
	); err != nil {
		return nil, err
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("payment %d: bad created_at: %w", p.ID, err)
	}

	p.Method = payment.Method(method)
	p.Status = payment.Status(status)
	p.CardNumber = card.String
	p.CreatedAt = created

	if updatedAt.Valid {
		updated, err := time.Parse(time.RFC3339Nano, updatedAt.String)
		if err != nil {
			return nil, fmt.Errorf("payment %d: bad updated_at: %w", p.ID, err)
		}
		p.UpdatedAt = &updated
	}

	return &p, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
