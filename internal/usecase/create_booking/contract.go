package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/service/pricing"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error)
	AttachCheckout(ctx context.Context, id int64, sessionID string, expiresAt time.Time) error
}

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	GetByWindow(ctx context.Context, date time.Time, start types.TimeString, kind domain.SessionKind) (*domain.TimeSlot, error)
	GetOrCreate(ctx context.Context, s *domain.TimeSlot) (*domain.TimeSlot, error)
}

// WaiverRepository интерфейс репозитория отказов от ответственности
type WaiverRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Waiver, error)
}

// MembershipRepository интерфейс репозитория членства
type MembershipRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*domain.Membership, error)
}

// AvailabilityChecker интерфейс предварительной проверки доступности
type AvailabilityChecker interface {
	IsBookable(ctx context.Context, date time.Time, start types.TimeString, partySize int, kind domain.SessionKind) (bool, error)
	PrivateWindow(start types.TimeString) (domain.HourWindow, bool)
}

// PricingEngine интерфейс расчёта цены
type PricingEngine interface {
	Quote(kind domain.SessionKind, partySize int, m *domain.Membership, now time.Time) (pricing.Quote, error)
}

// PaymentGateway интерфейс платежного провайдера
type PaymentGateway interface {
	CreateBookingCheckout(ctx context.Context, in payments.BookingCheckout) (*payments.CheckoutSession, error)
	ExpireCheckoutSession(ctx context.Context, sessionID string) error
}

// Confirmer подтверждение бесплатного бронирования
type Confirmer interface {
	Execute(ctx context.Context, req *confirm_booking.Request) (*confirm_booking.Response, error)
}

// Failer отмена бронирования, для которого не удалось создать оплату
type Failer interface {
	Execute(ctx context.Context, req *fail_booking.Request) (*fail_booking.Response, error)
}

// Metrics интерфейс счётчиков бизнес-событий
type Metrics interface {
	IncBookingEvent(event string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
