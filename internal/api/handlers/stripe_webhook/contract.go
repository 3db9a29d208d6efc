package stripe_webhook

import (
	"context"

	handlePaymentEvent "github.com/m04kA/Sauna-BookingService/internal/usecase/handle_payment_event"
)

type PaymentEventUseCase interface {
	Execute(ctx context.Context, req *handlePaymentEvent.Request) (*handlePaymentEvent.Response, error)
}

type Metrics interface {
	IncPaymentEvent(eventType, result string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
