package postgres

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

type paymentRow struct {
	ID         int64           `gorm:"primaryKey;autoIncrement"`
	DebtCode   int64           `gorm:"not null;index:idx_payments_debt_code"`
	PayerID    string          `gorm:"type:varchar(32);not null;index:idx_payments_payer_id"`
	Method     string          `gorm:"type:varchar(20);not null"`
	CardNumber *string         `gorm:"type:varchar(32)"`
	Amount     decimal.Decimal `gorm:"type:numeric(15,2);not null;check:chk_payments_amount_positive,amount > 0"`
	Status     string          `gorm:"type:varchar(20);not null;index:idx_payments_status"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime:false"`
	UpdatedAt  *time.Time      `gorm:"autoUpdateTime:false"`
	Active     bool            `gorm:"not null;default:true;index"`
}

func (paymentRow) TableName() string {
	return "payments"
}

func toRow(p *payment.Payment) paymentRow {
	row := paymentRow{
		ID:        p.ID,
		DebtCode:  p.DebtCode,
		PayerID:   p.PayerID,
		Method:    string(p.Method),
		Amount:    p.Amount,
		Status:    string(p.Status),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
		Active:    p.Active,
	}
	if p.CardNumber != "" {
		card := p.CardNumber
		row.CardNumber = &card
	}
	return row
}

func (r paymentRow) toDomain() *payment.Payment {
	p := &payment.Payment{
		ID:        r.ID,
		DebtCode:  r.DebtCode,
		PayerID:   r.PayerID,
		Method:    payment.Method(r.Method),
		Amount:    r.Amount,
		Status:    payment.Status(r.Status),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Active:    r.Active,
	}
	if r.CardNumber != nil {
		p.CardNumber = *r.CardNumber
	}
	return p
}
