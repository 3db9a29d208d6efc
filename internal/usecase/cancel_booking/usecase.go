package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/slot"
)

// UseCase отмена бронирования (cancel)
// Для подтверждённого бронирования освобождает места в слоте
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	gateway     PaymentGateway
	metrics     Metrics
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	gateway PaymentGateway,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		gateway:     gateway,
		metrics:     metrics,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute отменяет бронирование
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking id is required", ErrInvalidInput)
	}

	uc.logger.Info("CancelBooking: booking_id=%d, refund=%t", req.BookingID, req.Refund)

	var (
		booking      *domain.Booking
		wasConfirmed bool
	)

	// 2. Переход статуса и освобождение мест в одной транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		wasConfirmed = false

		b, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
		}
		booking = b

		if !booking.CanBeCancelled() {
			return ErrAlreadyCancelled
		}

		payment := booking.PaymentStatus
		if payment == domain.PaymentPending {
			payment = domain.PaymentFailed
		}

		err = uc.bookingRepo.Transition(txCtx, booking.ID, domain.StatusTransition{
			From:          booking.Status,
			To:            domain.StatusCancelled,
			PaymentStatus: payment,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %w", ErrInternal, err)
		}

		// pending не держит мест
		if booking.IsConfirmed() {
			wasConfirmed = true
			if err := uc.release(txCtx, booking); err != nil {
				return err
			}
		}

		booking.Status = domain.StatusCancelled
		booking.PaymentStatus = payment
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAlreadyCancelled) {
			uc.logger.Warn("CancelBooking: %v", err)
			return nil, err
		}
		uc.logger.Error("CancelBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: Execute - transaction: %v", ErrInternal, err)
	}

	uc.metrics.IncBookingEvent("cancelled")
	resp := &Response{Booking: booking, WasConfirmed: wasConfirmed}
	if wasConfirmed {
		resp.ReleasedSpots = booking.PartySize
	}

	// 3. Закрываем открытую checkout-сессию, чтобы по ней нельзя было заплатить
	if !wasConfirmed && booking.CheckoutSessionID != nil {
		if err := uc.gateway.ExpireCheckoutSession(ctx, *booking.CheckoutSessionID); err != nil {
			uc.logger.Warn("CancelBooking: failed to expire checkout session %s: %v", *booking.CheckoutSessionID, err)
		}
	}

	// 4. Возврат оплаты по запросу администратора
	if req.Refund && booking.IsPaid() {
		if err := uc.refund(ctx, booking); err != nil {
			return resp, err
		}
		resp.Refunded = true
	}

	uc.logger.Info("CancelBooking: booking id=%d cancelled, released=%d, refunded=%t",
		booking.ID, resp.ReleasedSpots, resp.Refunded)
	return resp, nil
}

// release возвращает места и снимает блокировку community слота для приватной сессии
func (uc *UseCase) release(ctx context.Context, b *domain.Booking) error {
	_, err := uc.slotRepo.DecrementBookings(ctx, b.TimeSlotID, b.PartySize)
	if err != nil && !errors.Is(err, slotRepo.ErrSlotNotFound) {
		return fmt.Errorf("%w: failed to release slot: %w", ErrInternal, err)
	}

	if b.Kind == domain.SessionPrivate {
		if _, err := uc.slotRepo.SetAvailabilityAt(ctx, b.SlotDate, b.SlotStartTime, domain.SessionCommunity, true); err != nil {
			return fmt.Errorf("%w: failed to unblock community slot: %w", ErrInternal, err)
		}
	}
	return nil
}

func (uc *UseCase) refund(ctx context.Context, b *domain.Booking) error {
	if b.PaymentIntentID == nil {
		uc.logger.Warn("CancelBooking: booking id=%d is paid but has no payment intent", b.ID)
		return fmt.Errorf("%w: no payment intent", ErrRefundFailed)
	}

	r, err := uc.gateway.Refund(ctx, *b.PaymentIntentID, 0, b.ID)
	if err != nil {
		uc.metrics.IncPaymentEvent("refund", "error")
		uc.logger.Error("CancelBooking: refund failed for booking id=%d: %v", b.ID, err)
		return fmt.Errorf("%w: %v", ErrRefundFailed, err)
	}
	uc.metrics.IncPaymentEvent("refund", "ok")

	if err := uc.bookingRepo.SetPaymentStatus(ctx, b.ID, domain.PaymentRefunded); err != nil {
		uc.logger.Error("CancelBooking: refund id=%s issued but status update failed for booking id=%d: %v", r.ID, b.ID, err)
		return fmt.Errorf("%w: failed to mark refunded: %v", ErrInternal, err)
	}
	b.PaymentStatus = domain.PaymentRefunded
	return nil
}
