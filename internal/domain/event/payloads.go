package event

import (
	"encoding/json"
	"fmt"
	"time"
)

type PaymentCreatedPayload struct {
	PaymentID int64     `json:"payment_id"`
	DebtCode  int64     `json:"debt_code"`
	Method    string    `json:"method"`
	Amount    string    `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentStatusChangedPayload struct {
	PaymentID int64     `json:"payment_id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

type PaymentDeactivatedPayload struct {
	PaymentID     int64     `json:"payment_id"`
	DeactivatedAt time.Time `json:"deactivated_at"`
}

// DecodePayload turns a stored payload back into the typed struct that
// subscribers expect for the given event type.
func DecodePayload(t Type, data []byte) (any, error) {
	switch t {
	case PaymentCreated:
		var p PaymentCreatedPayload
		err := json.Unmarshal(data, &p)
		return p, err
	case PaymentStatusChanged:
		var p PaymentStatusChangedPayload
		err := json.Unmarshal(data, &p)
		return p, err
	case PaymentDeactivated:
		var p PaymentDeactivatedPayload
		err := json.Unmarshal(data, &p)
		return p, err
	}
	return nil, fmt.Errorf("unknown event type %q", t)
}
