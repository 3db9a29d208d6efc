package generate_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// UseCase материализация community расписания в каталог слотов
type UseCase struct {
	slotRepo     SlotRepository
	windows      []domain.HourWindow
	maxCapacity  int
	horizonDays  int
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	slotRepo SlotRepository,
	windows []domain.HourWindow,
	maxCapacity int,
	horizonDays int,
	location *time.Location,
	logger Logger,
) *UseCase {
	if location == nil {
		location = time.UTC
	}
	return &UseCase{
		slotRepo:     slotRepo,
		windows:      windows,
		maxCapacity:  maxCapacity,
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

// Execute вставляет недостающие слоты, существующие строки и их счётчики не меняются
// Каждый день пишется отдельным запросом: при ошибке ранее созданные дни остаются
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil {
		req = &Request{}
	}
	days := req.DaysAhead
	if days == 0 {
		days = uc.horizonDays
	}
	if days < 0 || days > domain.MaxHorizonDays {
		return nil, fmt.Errorf("%w: days ahead must be within 0..%d", ErrInvalidInput, domain.MaxHorizonDays)
	}
	if len(uc.windows) == 0 {
		return nil, fmt.Errorf("%w: community schedule is empty", ErrInvalidInput)
	}

	from := req.From
	if from.IsZero() {
		from = uc.timeProvider.Now().In(uc.location)
	}
	from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, uc.location)
	to := from.AddDate(0, 0, days)

	uc.logger.Info("GenerateSlots: from=%s, to=%s, windows=%d",
		from.Format(domain.DateFormat), to.Format(domain.DateFormat), len(uc.windows))

	resp := &Response{From: from, To: to}

	// 2. По одному запросу на день
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		batch := make([]*domain.TimeSlot, 0, len(uc.windows))
		for _, w := range uc.windows {
			batch = append(batch, &domain.TimeSlot{
				Date:        day,
				StartTime:   w.Start,
				EndTime:     w.End,
				Kind:        domain.SessionCommunity,
				MaxCapacity: uc.maxCapacity,
				IsAvailable: true,
			})
		}

		created, err := uc.slotRepo.InsertIgnore(ctx, batch)
		if err != nil {
			uc.logger.Error("GenerateSlots: failed on %s: %v", day.Format(domain.DateFormat), err)
			return resp, fmt.Errorf("%w: Execute - InsertIgnore %s: %v", ErrInternal, day.Format(domain.DateFormat), err)
		}
		resp.Created += created
		resp.Existing += int64(len(batch)) - created
	}

	uc.logger.Info("GenerateSlots: created=%d, existing=%d", resp.Created, resp.Existing)
	return resp, nil
}
