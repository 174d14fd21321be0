package payment

import (
	"strings"

	"github.com/rcarvalho-pb/debt_payment-go/internal/domain/payment"
)

// Filter carries the optional search criteria. Nil means "not supplied".
type Filter struct {
	DebtCode *int64
	PayerID  *string
	Status   *payment.Status
}

type CriterionKind int

const (
	AllActive CriterionKind = iota
	ByDebtCode
	ByPayerID
	ByStatus
)

func (k CriterionKind) String() string {
	switch k {
	case ByDebtCode:
		return "debt-code"
	case ByPayerID:
		return "payer-id"
	case ByStatus:
		return "status"
	}
	return "all"
}

type Criterion struct {
	Kind     CriterionKind
	DebtCode int64
	PayerID  string
	Status   payment.Status
}

// Resolve picks exactly one criterion: debt code, then payer id, then
// status. The first one present wins; the rest are ignored, not combined.
// A blank payer id counts as absent.
func (f Filter) Resolve() Criterion {
	if f.DebtCode != nil {
		return Criterion{Kind: ByDebtCode, DebtCode: *f.DebtCode}
	}
	if f.PayerID != nil && strings.TrimSpace(*f.PayerID) != "" {
		return Criterion{Kind: ByPayerID, PayerID: *f.PayerID}
	}
	if f.Status != nil {
		return Criterion{Kind: ByStatus, Status: *f.Status}
	}
	return Criterion{Kind: AllActive}
}
