package availability

import (
	"context"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// SlotRepository интерфейс репозитория слотов
type SlotRepository interface {
	ListByDate(ctx context.Context, date time.Time, kind domain.SessionKind) ([]*domain.TimeSlot, error)
	GetByWindow(ctx context.Context, date time.Time, start types.TimeString, kind domain.SessionKind) (*domain.TimeSlot, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	ConfirmedStartTimes(ctx context.Context, date time.Time) (map[types.TimeString]struct{}, error)
	CountConfirmedAt(ctx context.Context, date time.Time, start types.TimeString) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
