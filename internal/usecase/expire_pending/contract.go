package expire_pending

import (
	"context"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ListExpiredPending(ctx context.Context, before time.Time, limit uint64) ([]*domain.Booking, error)
	Touch(ctx context.Context, id int64) error
}

// PaymentGateway интерфейс платежного провайдера
type PaymentGateway interface {
	GetCheckoutSession(ctx context.Context, sessionID string) (*payments.CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

// Confirmer подтверждение бронирования, оплату которого пропустил webhook
type Confirmer interface {
	Execute(ctx context.Context, req *confirm_booking.Request) (*confirm_booking.Response, error)
}

// Failer отмена неоплаченного бронирования
type Failer interface {
	Execute(ctx context.Context, req *fail_booking.Request) (*fail_booking.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
