package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// UseCase use case для получения доступных окон для бронирования
type UseCase struct {
	checker      AvailabilityChecker
	horizonDays  int
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(checker AvailabilityChecker, horizonDays int, location *time.Location, logger Logger) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		checker:      checker,
		horizonDays:  horizonDays,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет часы, используется в тестах
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения доступных окон
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("GetAvailableSlots: date=%s, kind=%s, party=%d",
		req.Date.Format(domain.DateFormat), req.Kind, req.PartySize)

	// 2. Дата не дальше горизонта расписания
	now := uc.timeProvider.Now().In(uc.location)
	if err := validateDate(req.Date, now, uc.horizonDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Прошедшие даты и начавшиеся окна отфильтровывает checker
	available, err := uc.checker.ListAvailable(ctx, req.Date, req.Kind)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to list available slots: %v", err)
		return nil, fmt.Errorf("%w: failed to list available slots: %v", ErrInternal, err)
	}

	// 4. Фильтр по размеру группы
	slots := toSlots(available, req.PartySize)

	uc.logger.Info("GetAvailableSlots: found %d slots for date=%s, kind=%s",
		len(slots), req.Date.Format(domain.DateFormat), req.Kind)

	return &Response{
		Date:  req.Date,
		Kind:  req.Kind,
		Slots: slots,
	}, nil
}
