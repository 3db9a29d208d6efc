package handle_payment_event

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
)

// EventParser проверка подписи и разбор события webhook
type EventParser interface {
	ParseEvent(payload []byte, signature string) (*payments.Event, error)
}

// Confirmer подтверждение оплаченного бронирования
type Confirmer interface {
	Execute(ctx context.Context, req *confirm_booking.Request) (*confirm_booking.Response, error)
}

// Failer отмена бронирования с неуспешной оплатой
type Failer interface {
	Execute(ctx context.Context, req *fail_booking.Request) (*fail_booking.Response, error)
}

// MembershipSyncer обновление членства по событиям подписки
type MembershipSyncer interface {
	RecordPurchase(ctx context.Context, session *payments.CheckoutSession) error
	SyncSubscription(ctx context.Context, sub *payments.Subscription, deleted bool) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
