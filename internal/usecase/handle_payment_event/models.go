package handle_payment_event

// Action итог обработки события
type Action string

const (
	ActionConfirmed  Action = "confirmed"
	ActionRejected   Action = "rejected"
	ActionFailed     Action = "failed"
	ActionMembership Action = "membership"
	ActionIgnored    Action = "ignored"
)

// Request сырое тело webhook и заголовок Stripe-Signature
type Request struct {
	Payload   []byte
	Signature string
}

// Response результат обработки
type Response struct {
	EventID   string
	EventType string
	Action    Action
}
