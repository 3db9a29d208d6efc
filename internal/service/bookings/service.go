package bookings

import (
	"context"
	"errors"
	"fmt"

	bookingRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/Sauna-BookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
// Изменения статуса идут через use case'ы ledger
type Service struct {
	bookingRepo BookingRepository
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(bookingRepo BookingRepository, logger Logger) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID (администратор)
func (s *Service) GetByID(ctx context.Context, id int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d", id)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetByCheckoutSession бронирование по checkout-сессии для страницы успешной оплаты
// Идентификатор сессии известен только оплатившему клиенту
func (s *Service) GetByCheckoutSession(ctx context.Context, sessionID string) (*models.BookingResponse, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	booking, err := s.bookingRepo.GetByCheckoutSessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByCheckoutSession: no booking for session %s", sessionID)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByCheckoutSession: repository error for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("%w: GetByCheckoutSession - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBooking(booking), nil
}

// GetAccountBookings история бронирований аккаунта
func (s *Service) GetAccountBookings(ctx context.Context, accountID string) (*models.BookingListResponse, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.ListByAccount(ctx, accountID)
	if err != nil {
		s.logger.Error("GetAccountBookings: repository error for account %s: %v", accountID, err)
		return nil, fmt.Errorf("%w: GetAccountBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetAccountBookings: fetched %d bookings for account %s", len(bookings), accountID)
	return models.FromDomainBookingList(bookings), nil
}

// List бронирования с фильтрацией (администратор)
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if req == nil {
		req = &models.ListBookingsRequest{}
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, ErrInvalidTimeRange
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings", len(bookings))
	return models.FromDomainBookingList(bookings), nil
}
