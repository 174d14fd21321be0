package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusSucceeded Status = "SUCCEEDED"
	StatusFailed    Status = "FAILED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusSucceeded, StatusFailed:
		return true
	}
	return false
}

// ParseStatus accepts the status name in any letter case.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, raw)
	}
	return s, nil
}

type Method string

const (
	MethodBankSlip   Method = "BANK_SLIP"
	MethodPix        Method = "PIX"
	MethodCreditCard Method = "CREDIT_CARD"
	MethodDebitCard  Method = "DEBIT_CARD"
)

func (m Method) Valid() bool {
	switch m {
	case MethodBankSlip, MethodPix, MethodCreditCard, MethodDebitCard:
		return true
	}
	return false
}

// RequiresCard reports whether a card number must accompany the method.
func (m Method) RequiresCard() bool {
	return m == MethodCreditCard || m == MethodDebitCard
}

func ParseMethod(raw string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(raw)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, raw)
	}
	return m, nil
}

// Payment is a tracked payment for a debt. Records are never removed;
// Active is cleared by Deactivate instead.
type Payment struct {
	ID         int64
	DebtCode   int64
	PayerID    string
	Method     Method
	CardNumber string
	Amount     decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	Active     bool
}

// New builds a pending, active payment. The caller is expected to have
// validated the inputs; see Validate.
func New(debtCode int64, payerID string, method Method, cardNumber string, amount decimal.Decimal, now time.Time) *Payment {
	p := &Payment{
		DebtCode:  debtCode,
		PayerID:   payerID,
		Method:    method,
		Amount:    amount,
		Status:    StatusPending,
		CreatedAt: now,
		Active:    true,
	}
	if method.RequiresCard() {
		p.CardNumber = cardNumber
	}
	return p
}

// Validate checks creation inputs in a fixed order and reports the first
// failure as ErrInvalidInput.
func Validate(debtCode int64, payerID string, method Method, cardNumber string, amount decimal.Decimal) error {
	if !method.Valid() {
		return fmt.Errorf("%w: payment method is required", ErrInvalidInput)
	}
	if method.RequiresCard() && strings.TrimSpace(cardNumber) == "" {
		return fmt.Errorf("%w: card number is required for card payments", ErrInvalidInput)
	}
	if debtCode <= 0 {
		return fmt.Errorf("%w: debt code must be a positive number", ErrInvalidInput)
	}
	if strings.TrimSpace(payerID) == "" {
		return fmt.Errorf("%w: payer id is required", ErrInvalidInput)
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidInput)
	}
	return nil
}
