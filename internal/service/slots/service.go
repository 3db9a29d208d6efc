package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	slotRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/slot"
	"github.com/m04kA/Sauna-BookingService/internal/service/slots/models"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// maxListRange ограничение на диапазон выборки
const maxListRange = 93 * 24 * time.Hour

// Service административные операции над каталогом слотов
type Service struct {
	repo     SlotRepository
	location *time.Location
	logger   Logger
}

// NewService создает новый экземпляр сервиса
func NewService(repo SlotRepository, location *time.Location, logger Logger) *Service {
	if location == nil {
		location = time.UTC
	}
	return &Service{repo: repo, location: location, logger: logger}
}

// List слоты в диапазоне дат
func (s *Service) List(ctx context.Context, req *models.ListSlotsRequest) (*models.SlotListResponse, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: from and to are required", ErrInvalidInput)
	}
	if req.To.Before(req.From) || req.To.Sub(req.From) > maxListRange {
		return nil, fmt.Errorf("%w: invalid date range", ErrInvalidInput)
	}

	filter := domain.SlotFilter{From: req.From, To: req.To}
	if req.Kind != nil {
		kind := domain.SessionKind(*req.Kind)
		if !kind.IsValid() {
			return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, *req.Kind)
		}
		filter.Kind = &kind
	}

	list, err := s.repo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainSlotList(list), nil
}

// Create создает один слот вручную
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	slot, err := s.toDomain(req)
	if err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}

	created, err := s.repo.Create(ctx, slot)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotExists) {
			s.logger.Warn("Create: slot %s %s %s already exists", req.Date, req.StartTime, req.Kind)
			return nil, ErrSlotExists
		}
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: slot id=%d created for %s %s", created.ID, req.Date, req.StartTime)
	return models.FromDomainSlot(created), nil
}

// SetAvailability включает или выключает слот, счётчик не меняется
func (s *Service) SetAvailability(ctx context.Context, id int64, available bool) (*models.SlotResponse, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: slot id must be positive", ErrInvalidInput)
	}

	if err := s.repo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("SetAvailability: repository error for slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetAvailability - repository error: %v", ErrInternal, err)
	}

	slot, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("SetAvailability: failed to reload slot id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: SetAvailability - reload: %v", ErrInternal, err)
	}

	s.logger.Info("SetAvailability: slot id=%d available=%t", id, available)
	return models.FromDomainSlot(slot), nil
}

func (s *Service) toDomain(req *models.CreateSlotRequest) (*domain.TimeSlot, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidInput)
	}

	date, err := time.ParseInLocation(domain.DateFormat, req.Date, s.location)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format, expected YYYY-MM-DD", ErrInvalidInput)
	}
	start, err := types.NewTimeStringFromString(req.StartTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	end, err := types.NewTimeStringFromString(req.EndTime)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}
	if !start.IsBefore(end) {
		return nil, fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}

	kind := domain.SessionKind(req.Kind)
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, req.Kind)
	}

	if req.MaxCapacity < 1 {
		return nil, fmt.Errorf("%w: max capacity must be positive", ErrInvalidInput)
	}

	return &domain.TimeSlot{
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		Kind:        kind,
		MaxCapacity: req.MaxCapacity,
		IsAvailable: true,
	}, nil
}
