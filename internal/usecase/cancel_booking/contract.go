package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Transition(ctx context.Context, id int64, t domain.StatusTransition) error
	SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	DecrementBookings(ctx context.Context, id int64, n int) (*domain.TimeSlot, error)
	SetAvailabilityAt(ctx context.Context, date time.Time, start types.TimeString, kind domain.SessionKind, available bool) (int64, error)
}

// PaymentGateway интерфейс платежного провайдера
type PaymentGateway interface {
	Refund(ctx context.Context, paymentIntentID string, amount int64, bookingID int64) (*payments.Refund, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

// Metrics интерфейс счётчиков бизнес-событий
type Metrics interface {
	IncBookingEvent(event string)
	IncPaymentEvent(eventType, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
