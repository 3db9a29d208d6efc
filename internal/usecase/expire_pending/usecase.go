package expire_pending

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
)

type verdict int

const (
	verdictExpired verdict = iota
	verdictReconciled
	verdictSkipped
)

// UseCase сверка зависших pending-бронирований с платежным провайдером
type UseCase struct {
	bookingRepo BookingRepository
	gateway     PaymentGateway
	confirmer   Confirmer
	failer      Failer
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(bookingRepo BookingRepository, gateway PaymentGateway, confirmer Confirmer, failer Failer, logger Logger) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		gateway:     gateway,
		confirmer:   confirmer,
		failer:      failer,
		logger:      logger,
	}
}

// Execute закрывает pending-бронирования с истекшей checkout-сессией
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if req == nil || req.Now.IsZero() || req.Grace < 0 {
		return nil, fmt.Errorf("%w: now is required and grace must not be negative", ErrInvalidInput)
	}
	limit := req.BatchSize
	if limit == 0 {
		limit = DefaultBatchSize
	}

	// 2. Получаем кандидатов
	before := req.Now.Add(-req.Grace)
	bookings, err := uc.bookingRepo.ListExpiredPending(ctx, before, limit)
	if err != nil {
		uc.logger.Error("ExpirePending: failed to list pending bookings: %v", err)
		return nil, fmt.Errorf("%w: Execute - ListExpiredPending: %v", ErrInternal, err)
	}

	resp := &Response{Scanned: len(bookings)}
	if len(bookings) == 0 {
		return resp, nil
	}

	// 3. Каждое бронирование сверяем независимо, ошибка одного не останавливает проход
	for _, b := range bookings {
		if ctx.Err() != nil {
			break
		}
		switch uc.reconcile(ctx, b) {
		case verdictExpired:
			resp.Expired++
		case verdictReconciled:
			resp.Reconciled++
		default:
			resp.Errors++
			uc.requeue(ctx, b)
		}
	}

	uc.logger.Info("ExpirePending: scanned=%d, expired=%d, reconciled=%d, errors=%d",
		resp.Scanned, resp.Expired, resp.Reconciled, resp.Errors)
	return resp, nil
}

func (uc *UseCase) reconcile(ctx context.Context, b *domain.Booking) verdict {
	if b.CheckoutSessionID == nil || *b.CheckoutSessionID == "" {
		return uc.fail(ctx, b, "no checkout session")
	}
	sessionID := *b.CheckoutSessionID

	session, err := uc.gateway.GetCheckoutSession(ctx, sessionID)
	switch {
	case errors.Is(err, payments.ErrNotFound):
		return uc.fail(ctx, b, "checkout session not found")
	case err != nil:
		uc.logger.Warn("ExpirePending: failed to get session %s for booking id=%d: %v", sessionID, b.ID, err)
		return verdictSkipped
	}

	// Webhook об оплате потерялся
	if session.Status == payments.SessionStatusComplete && session.IsPaid() {
		_, err := uc.confirmer.Execute(ctx, &confirm_booking.Request{
			BookingID:       b.ID,
			PaymentIntentID: session.PaymentIntentID,
			Paid:            true,
		})
		if err != nil && !errors.Is(err, confirm_booking.ErrSlotNotAvailable) {
			uc.logger.Error("ExpirePending: failed to confirm booking id=%d: %v", b.ID, err)
			return verdictSkipped
		}
		if err != nil {
			// Отказ по вместимости уже отменил бронирование и вернул деньги
			return verdictExpired
		}
		return verdictReconciled
	}

	if session.Status == payments.SessionStatusComplete {
		// Отложенный способ оплаты: ждём webhook о результате
		uc.logger.Info("ExpirePending: session %s complete, payment %s", sessionID, session.PaymentStatus)
		return verdictSkipped
	}

	if session.Status != payments.SessionStatusExpired {
		// Сессия ещё открыта: закрываем, чтобы оплата не прошла после отмены
		if err := uc.gateway.ExpireCheckoutSession(ctx, sessionID); err != nil {
			uc.logger.Warn("ExpirePending: failed to expire session %s: %v", sessionID, err)
			return verdictSkipped
		}
	}
	return uc.fail(ctx, b, "checkout expired")
}

// requeue отодвигает пропущенное бронирование, чтобы оно не занимало начало выборки
func (uc *UseCase) requeue(ctx context.Context, b *domain.Booking) {
	if err := uc.bookingRepo.Touch(ctx, b.ID); err != nil {
		uc.logger.Warn("ExpirePending: failed to requeue booking id=%d: %v", b.ID, err)
	}
}

func (uc *UseCase) fail(ctx context.Context, b *domain.Booking, reason string) verdict {
	_, err := uc.failer.Execute(ctx, &fail_booking.Request{BookingID: b.ID, Reason: reason})
	if errors.Is(err, fail_booking.ErrAlreadyConfirmed) {
		// Бронирование подтвердилось между выборкой и отменой
		return verdictReconciled
	}
	if err != nil {
		uc.logger.Error("ExpirePending: failed to cancel booking id=%d: %v", b.ID, err)
		return verdictSkipped
	}
	return verdictExpired
}
