package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	slotRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// Checker отвечает на вопрос "можно ли принять бронирование"
// Ответ носит рекомендательный характер: окончательная проверка идёт при подтверждении
// внутри транзакции, поэтому методы читают через executor из контекста
type Checker struct {
	slots          SlotRepository
	bookings       BookingRepository
	privateWindows []domain.HourWindow
	maxCapacity    int
	location       *time.Location
	timeProvider   TimeProvider
}

// NewChecker создает проверку доступности
func NewChecker(
	slots SlotRepository,
	bookings BookingRepository,
	privateWindows []domain.HourWindow,
	maxCapacity int,
	location *time.Location,
) *Checker {
	if location == nil {
		location = time.UTC
	}
	return &Checker{
		slots:          slots,
		bookings:       bookings,
		privateWindows: privateWindows,
		maxCapacity:    maxCapacity,
		location:       location,
		timeProvider:   &RealTimeProvider{},
	}
}

// WithTimeProvider подменяет часы, используется в тестах
func (c *Checker) WithTimeProvider(tp TimeProvider) *Checker {
	c.timeProvider = tp
	return c
}

// PrivateWindow окно приватной сессии, начинающееся в start
func (c *Checker) PrivateWindow(start types.TimeString) (domain.HourWindow, bool) {
	for _, w := range c.privateWindows {
		if w.Start == start {
			return w, true
		}
	}
	return domain.HourWindow{}, false
}

// ListAvailable окна на дату, в которые ещё можно записаться
func (c *Checker) ListAvailable(ctx context.Context, date time.Time, kind domain.SessionKind) ([]domain.AvailableSlot, error) {
	now := c.timeProvider.Now().In(c.location)
	day := dayIn(date, c.location)

	if day.Before(dayIn(now, c.location)) {
		return []domain.AvailableSlot{}, nil
	}

	switch kind {
	case domain.SessionCommunity:
		return c.listCommunity(ctx, day, now)
	case domain.SessionPrivate:
		return c.listPrivate(ctx, day, now)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSessionKind, kind)
	}
}

func (c *Checker) listCommunity(ctx context.Context, day, now time.Time) ([]domain.AvailableSlot, error) {
	rows, err := c.slots.ListByDate(ctx, day, domain.SessionCommunity)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - list slots: %w", ErrInternal, err)
	}

	result := make([]domain.AvailableSlot, 0, len(rows))
	for _, s := range rows {
		if !s.IsAvailable || s.CurrentBookings >= s.MaxCapacity {
			continue
		}
		if started(day, s.StartTime, now) {
			continue
		}
		result = append(result, domain.AvailableSlot{
			SlotID:         ptr.Ptr(s.ID),
			Date:           day,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
			Kind:           domain.SessionCommunity,
			MaxCapacity:    s.MaxCapacity,
			SpotsRemaining: s.SpotsRemaining(),
		})
	}
	return result, nil
}

func (c *Checker) listPrivate(ctx context.Context, day, now time.Time) ([]domain.AvailableSlot, error) {
	taken, err := c.bookings.ConfirmedStartTimes(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - confirmed start times: %w", ErrInternal, err)
	}

	// Строки private создаются при первом бронировании, админ может их закрыть
	rows, err := c.slots.ListByDate(ctx, day, domain.SessionPrivate)
	if err != nil {
		return nil, fmt.Errorf("%w: ListAvailable - list private slots: %w", ErrInternal, err)
	}
	closed := make(map[types.TimeString]struct{}, len(rows))
	for _, s := range rows {
		if !s.IsAvailable {
			closed[s.StartTime] = struct{}{}
		}
	}

	result := make([]domain.AvailableSlot, 0, len(c.privateWindows))
	for _, w := range c.privateWindows {
		if _, busy := taken[w.Start]; busy {
			continue
		}
		if _, off := closed[w.Start]; off {
			continue
		}
		if started(day, w.Start, now) {
			continue
		}
		result = append(result, domain.AvailableSlot{
			Date:           day,
			StartTime:      w.Start,
			EndTime:        w.End,
			Kind:           domain.SessionPrivate,
			MaxCapacity:    c.maxCapacity,
			SpotsRemaining: c.maxCapacity,
		})
	}
	return result, nil
}

// IsBookable community: слот существует, доступен и current + p <= max
// private: окно есть в расписании, не закрыто админом и на (date, start) нет подтверждённых бронирований любого типа
func (c *Checker) IsBookable(ctx context.Context, date time.Time, start types.TimeString, partySize int, kind domain.SessionKind) (bool, error) {
	if partySize < domain.MinPartySize || partySize > domain.MaxPartySize {
		return false, fmt.Errorf("%w: %d", ErrInvalidPartySize, partySize)
	}

	now := c.timeProvider.Now().In(c.location)
	day := dayIn(date, c.location)
	if started(day, start, now) {
		return false, nil
	}

	switch kind {
	case domain.SessionCommunity:
		s, err := c.slots.GetByWindow(ctx, day, start, domain.SessionCommunity)
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return false, nil
		}
		if err != nil {
			return false, fmt.Errorf("%w: IsBookable - get slot: %w", ErrInternal, err)
		}
		return s.Fits(partySize), nil

	case domain.SessionPrivate:
		if _, ok := c.PrivateWindow(start); !ok {
			return false, nil
		}
		s, err := c.slots.GetByWindow(ctx, day, start, domain.SessionPrivate)
		switch {
		case errors.Is(err, slotRepo.ErrSlotNotFound):
		case err != nil:
			return false, fmt.Errorf("%w: IsBookable - get private slot: %w", ErrInternal, err)
		case !s.IsAvailable:
			return false, nil
		}
		n, err := c.bookings.CountConfirmedAt(ctx, day, start)
		if err != nil {
			return false, fmt.Errorf("%w: IsBookable - count confirmed: %w", ErrInternal, err)
		}
		return n == 0, nil

	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownSessionKind, kind)
	}
}

// dayIn календарный день date в локации расписания
func dayIn(date time.Time, loc *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// started true, если окно на этот день уже началось
func started(day time.Time, start types.TimeString, now time.Time) bool {
	at, err := start.On(day)
	if err != nil {
		return true
	}
	return !at.After(now)
}
