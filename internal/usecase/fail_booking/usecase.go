package fail_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/booking"
)

// UseCase перевод pending-бронирования в cancelled/failed (markFailed)
// Счётчик слота не меняется: места ещё не были заняты
type UseCase struct {
	bookingRepo BookingRepository
	metrics     Metrics
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, metrics Metrics, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		metrics:     metrics,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute отменяет неоплаченное бронирование, повторный вызов безопасен
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || (req.BookingID <= 0) == (req.CheckoutSessionID == "") {
		return nil, fmt.Errorf("%w: exactly one of booking id or checkout session id is required", ErrInvalidInput)
	}

	uc.logger.Info("FailBooking: booking_id=%d, session_id=%s, reason=%s",
		req.BookingID, req.CheckoutSessionID, req.Reason)

	var (
		booking       *domain.Booking
		alreadyClosed bool
	)

	// 2. Условный переход pending -> cancelled
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		alreadyClosed = false

		var err error
		if req.BookingID > 0 {
			booking, err = uc.bookingRepo.GetByID(txCtx, req.BookingID)
		} else {
			booking, err = uc.bookingRepo.GetByCheckoutSessionID(txCtx, req.CheckoutSessionID)
		}
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}

		switch booking.Status {
		case domain.StatusCancelled:
			alreadyClosed = true
			return nil
		case domain.StatusConfirmed:
			return ErrAlreadyConfirmed
		}

		err = uc.bookingRepo.Transition(txCtx, booking.ID, domain.StatusTransition{
			From:          domain.StatusPending,
			To:            domain.StatusCancelled,
			PaymentStatus: domain.PaymentFailed,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}
		booking.Status = domain.StatusCancelled
		booking.PaymentStatus = domain.PaymentFailed
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAlreadyConfirmed) {
			uc.logger.Warn("FailBooking: %v", err)
			return nil, err
		}
		uc.logger.Error("FailBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: Execute - transaction: %v", ErrInternal, err)
	}

	if alreadyClosed {
		uc.logger.Info("FailBooking: booking id=%d already cancelled", booking.ID)
	} else {
		uc.metrics.IncBookingEvent("failed")
		uc.logger.Info("FailBooking: booking id=%d marked failed", booking.ID)
	}

	return &Response{Booking: booking, AlreadyClosed: alreadyClosed}, nil
}
