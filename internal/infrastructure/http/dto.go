package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

type CreatePaymentRequest struct {
	DebtCode   int64           `json:"debtCode"`
	PayerID    string          `json:"payerId"`
	Method     string          `json:"method" binding:"required"`
	CardNumber string          `json:"cardNumber"`
	Amount     decimal.Decimal `json:"amount"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PaymentResponse struct {
	ID         int64           `json:"id"`
	DebtCode   int64           `json:"debtCode"`
	PayerID    string          `json:"payerId"`
	Method     payment.Method  `json:"method"`
	CardNumber string          `json:"cardNumber,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Status     payment.Status  `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  *time.Time      `json:"updatedAt,omitempty"`
	Active     bool            `json:"active"`
}

func toResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:         p.ID,
		DebtCode:   p.DebtCode,
		PayerID:    p.PayerID,
		Method:     p.Method,
		CardNumber: p.CardNumber,
		Amount:     p.Amount,
		Status:     p.Status,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		Active:     p.Active,
	}
}

func toResponses(ps []*payment.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(ps))
	for _, p := range ps {
		out = append(out, toResponse(p))
	}
	return out
}
