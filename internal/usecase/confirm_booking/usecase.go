package confirm_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/booking"
	slotRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/slot"
)

type outcome int

const (
	outcomeConfirmed outcome = iota
	outcomeAlreadyConfirmed
	outcomeRejected
)

// UseCase подтверждение оплаченного бронирования (confirmPaid)
// Единственное место, где счётчик слота увеличивается
type UseCase struct {
	bookingRepo BookingRepository
	slotRepo    SlotRepository
	gateway     PaymentGateway
	notifier    Notifier
	metrics     Metrics
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	gateway PaymentGateway,
	notifier Notifier,
	metrics Metrics,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		slotRepo:    slotRepo,
		gateway:     gateway,
		notifier:    notifier,
		metrics:     metrics,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute переводит бронирование pending -> confirmed и занимает места в слоте
// Повторный вызов для подтверждённого бронирования успешен и ничего не меняет
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ConfirmBooking: booking_id=%d, session_id=%s, paid=%t",
		req.BookingID, req.CheckoutSessionID, req.Paid)

	var (
		booking *domain.Booking
		result  outcome
		reason  string
	)

	// 2. Проверка вместимости и переход статуса в одной сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, result, reason = nil, outcomeConfirmed, ""

		// 2.1. Получаем бронирование с блокировкой строки
		b, err := uc.load(txCtx, req)
		if err != nil {
			return err
		}
		booking = b

		// 2.2. Идемпотентность повторных webhook
		switch booking.Status {
		case domain.StatusConfirmed:
			result = outcomeAlreadyConfirmed
			return nil
		case domain.StatusCancelled:
			if !req.Paid {
				return ErrBookingCancelled
			}
			// Оплата пришла после отмены (например, после истечения checkout)
			result, reason = outcomeRejected, "booking already cancelled"
			if err := uc.bookingRepo.SetPaymentStatus(txCtx, booking.ID, domain.PaymentPaid); err != nil {
				return fmt.Errorf("%w: failed to mark payment: %w", ErrInternal, err)
			}
			booking.PaymentStatus = domain.PaymentPaid
			return nil
		}

		// 2.3. Занимаем места
		ok, why, err := uc.reserve(txCtx, booking)
		if err != nil {
			return err
		}
		if !ok {
			result, reason = outcomeRejected, why
			return uc.reject(txCtx, booking, req.Paid)
		}

		// 2.4. Переводим бронирование в confirmed/paid
		err = uc.bookingRepo.Transition(txCtx, booking.ID, domain.StatusTransition{
			From:          domain.StatusPending,
			To:            domain.StatusConfirmed,
			PaymentStatus: domain.PaymentPaid,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to confirm booking: %w", ErrInternal, err)
		}
		booking.Status = domain.StatusConfirmed
		booking.PaymentStatus = domain.PaymentPaid

		// 2.5. Сохраняем ID платежа для возможного возврата
		if req.PaymentIntentID != "" {
			if err := uc.bookingRepo.SetPaymentIntent(txCtx, booking.ID, req.PaymentIntentID); err != nil {
				return fmt.Errorf("%w: failed to save payment intent: %w", ErrInternal, err)
			}
			booking.PaymentIntentID = &req.PaymentIntentID
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrBookingCancelled) {
			uc.logger.Warn("ConfirmBooking: %v", err)
			return nil, err
		}
		uc.logger.Error("ConfirmBooking: transaction failed: %v", err)
		return nil, fmt.Errorf("%w: Execute - transaction: %v", ErrInternal, err)
	}

	// 3. Действия после фиксации транзакции
	switch result {
	case outcomeAlreadyConfirmed:
		uc.logger.Info("ConfirmBooking: booking id=%d already confirmed", booking.ID)
		return &Response{Booking: booking, AlreadyConfirmed: true}, nil

	case outcomeRejected:
		uc.logger.Warn("ConfirmBooking: booking id=%d rejected: %s", booking.ID, reason)
		uc.metrics.IncBookingEvent("rejected")
		if req.Paid {
			uc.refund(ctx, booking, req.PaymentIntentID)
		}
		return nil, fmt.Errorf("%w: %s", ErrSlotNotAvailable, reason)
	}

	uc.metrics.IncBookingEvent("confirmed")
	uc.logger.Info("ConfirmBooking: booking id=%d confirmed, slot id=%d, party=%d",
		booking.ID, booking.TimeSlotID, booking.PartySize)

	// 4. Письмо не влияет на статус бронирования
	if err := uc.notifier.BookingConfirmed(ctx, booking); err != nil {
		uc.logger.Warn("ConfirmBooking: failed to send confirmation for booking id=%d: %v", booking.ID, err)
	}

	return &Response{Booking: booking}, nil
}

func (uc *UseCase) load(ctx context.Context, req *Request) (*domain.Booking, error) {
	var (
		b   *domain.Booking
		err error
	)
	if req.BookingID > 0 {
		b, err = uc.bookingRepo.GetByID(ctx, req.BookingID)
	} else {
		b, err = uc.bookingRepo.GetByCheckoutSessionID(ctx, req.CheckoutSessionID)
	}
	if errors.Is(err, bookingRepo.ErrBookingNotFound) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get booking: %w", ErrInternal, err)
	}
	return b, nil
}

// reserve условное увеличение счётчика; false означает отказ по вместимости
func (uc *UseCase) reserve(ctx context.Context, b *domain.Booking) (bool, string, error) {
	if b.Kind == domain.SessionPrivate {
		// Приватная сессия исключает любые другие подтверждённые бронирования в это время
		taken, err := uc.bookingRepo.CountConfirmedAt(ctx, b.SlotDate, b.SlotStartTime)
		if err != nil {
			return false, "", fmt.Errorf("%w: failed to count confirmed bookings: %w", ErrInternal, err)
		}
		if taken > 0 {
			return false, "private window already taken", nil
		}
	}

	_, err := uc.slotRepo.IncrementBookings(ctx, b.TimeSlotID, b.PartySize)
	if errors.Is(err, slotRepo.ErrCapacityExceeded) {
		return false, "capacity exceeded", nil
	}
	if err != nil {
		return false, "", fmt.Errorf("%w: failed to increment slot: %w", ErrInternal, err)
	}

	if b.Kind == domain.SessionPrivate {
		// Закрываем community слот того же окна
		if _, err := uc.slotRepo.SetAvailabilityAt(ctx, b.SlotDate, b.SlotStartTime, domain.SessionCommunity, false); err != nil {
			return false, "", fmt.Errorf("%w: failed to block community slot: %w", ErrInternal, err)
		}
	}
	return true, "", nil
}

func (uc *UseCase) reject(ctx context.Context, b *domain.Booking, paid bool) error {
	payment := domain.PaymentFailed
	if paid {
		payment = domain.PaymentPaid
	}

	err := uc.bookingRepo.Transition(ctx, b.ID, domain.StatusTransition{
		From:          domain.StatusPending,
		To:            domain.StatusCancelled,
		PaymentStatus: payment,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to cancel rejected booking: %w", ErrInternal, err)
	}
	b.Status = domain.StatusCancelled
	b.PaymentStatus = payment
	return nil
}

// refund компенсирующий возврат, ошибки только логируются
func (uc *UseCase) refund(ctx context.Context, b *domain.Booking, paymentIntentID string) {
	if paymentIntentID == "" && b.PaymentIntentID != nil {
		paymentIntentID = *b.PaymentIntentID
	}
	if paymentIntentID == "" || b.TotalAmount <= 0 {
		uc.logger.Warn("ConfirmBooking: nothing to refund for booking id=%d", b.ID)
		return
	}

	r, err := uc.gateway.Refund(ctx, paymentIntentID, 0, b.ID)
	if err != nil {
		uc.metrics.IncPaymentEvent("refund", "error")
		uc.logger.Error("ConfirmBooking: refund failed for booking id=%d, payment_intent=%s: %v", b.ID, paymentIntentID, err)
		return
	}
	uc.metrics.IncPaymentEvent("refund", "ok")

	if err := uc.bookingRepo.SetPaymentStatus(ctx, b.ID, domain.PaymentRefunded); err != nil {
		uc.logger.Error("ConfirmBooking: refund id=%s issued but status update failed for booking id=%d: %v", r.ID, b.ID, err)
		return
	}
	b.PaymentStatus = domain.PaymentRefunded
	uc.logger.Info("ConfirmBooking: booking id=%d refunded, refund id=%s", b.ID, r.ID)
}
