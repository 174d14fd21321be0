package event

type Type string

const (
	PaymentCreated       Type = "PAYMENT_CREATED"
	PaymentStatusChanged Type = "PAYMENT_STATUS_CHANGED"
	PaymentDeactivated   Type = "PAYMENT_DEACTIVATED"
)

type Event struct {
	Type    Type
	Payload any
}
