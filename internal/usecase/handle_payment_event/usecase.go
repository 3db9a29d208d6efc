package handle_payment_event

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/service/memberships"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
)

// UseCase обработка событий платежного провайдера
type UseCase struct {
	parser      EventParser
	confirmer   Confirmer
	failer      Failer
	memberships MembershipSyncer
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(parser EventParser, confirmer Confirmer, failer Failer, memberships MembershipSyncer, logger Logger) *UseCase {
	return &UseCase{
		parser:      parser,
		confirmer:   confirmer,
		failer:      failer,
		memberships: memberships,
		logger:      logger,
	}
}

// Execute проверяет подпись и применяет событие
// Ошибка ErrInternal означает, что событие нужно доставить повторно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Проверка подписи и разбор события
	if req == nil || len(req.Payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	event, err := uc.parser.ParseEvent(req.Payload, req.Signature)
	if err != nil {
		if errors.Is(err, payments.ErrInvalidSignature) {
			uc.logger.Warn("HandlePaymentEvent: signature verification failed: %v", err)
			return nil, ErrInvalidSignature
		}
		uc.logger.Warn("HandlePaymentEvent: failed to parse event: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	uc.logger.Info("HandlePaymentEvent: event id=%s, type=%s", event.ID, event.Type)

	// 2. Диспетчеризация по типу события
	var action Action
	switch event.Type {
	case payments.EventCheckoutCompleted:
		action, err = uc.checkoutCompleted(ctx, event.Session)
	case payments.EventCheckoutExpired:
		action, err = uc.checkoutExpired(ctx, event.Session)
	case payments.EventPaymentFailed:
		action, err = uc.paymentFailed(ctx, event.PaymentIntent)
	case payments.EventSubscriptionCreated, payments.EventSubscriptionUpdated:
		action, err = uc.syncSubscription(ctx, event.Subscription, false)
	case payments.EventSubscriptionDeleted:
		action, err = uc.syncSubscription(ctx, event.Subscription, true)
	default:
		action = ActionIgnored
	}
	if err != nil {
		uc.logger.Error("HandlePaymentEvent: event id=%s, type=%s failed: %v", event.ID, event.Type, err)
		return nil, fmt.Errorf("%w: %s: %v", ErrInternal, event.Type, err)
	}

	return &Response{EventID: event.ID, EventType: event.Type, Action: action}, nil
}

func (uc *UseCase) checkoutCompleted(ctx context.Context, session *payments.CheckoutSession) (Action, error) {
	if session == nil {
		return ActionIgnored, nil
	}

	if session.Mode == payments.ModeSubscription {
		err := uc.memberships.RecordPurchase(ctx, session)
		if errors.Is(err, memberships.ErrInvalidInput) {
			uc.logger.Warn("HandlePaymentEvent: subscription session %s ignored: %v", session.ID, err)
			return ActionIgnored, nil
		}
		if err != nil {
			return "", err
		}
		return ActionMembership, nil
	}

	if !session.IsPaid() {
		// Отложенная оплата, результат придёт отдельным событием
		uc.logger.Info("HandlePaymentEvent: session %s completed with payment status %s", session.ID, session.PaymentStatus)
		return ActionIgnored, nil
	}

	req := &confirm_booking.Request{PaymentIntentID: session.PaymentIntentID, Paid: true}
	if id, ok := session.BookingID(); ok {
		req.BookingID = id
	} else {
		req.CheckoutSessionID = session.ID
	}

	_, err := uc.confirmer.Execute(ctx, req)
	switch {
	case err == nil:
		return ActionConfirmed, nil
	case errors.Is(err, confirm_booking.ErrSlotNotAvailable):
		// Бронирование отменено, деньги возвращены
		return ActionRejected, nil
	case errors.Is(err, confirm_booking.ErrBookingNotFound), errors.Is(err, confirm_booking.ErrInvalidInput):
		uc.logger.Warn("HandlePaymentEvent: no booking for session %s: %v", session.ID, err)
		return ActionIgnored, nil
	default:
		return "", err
	}
}

func (uc *UseCase) checkoutExpired(ctx context.Context, session *payments.CheckoutSession) (Action, error) {
	if session == nil || session.Mode == payments.ModeSubscription {
		return ActionIgnored, nil
	}

	req := &fail_booking.Request{Reason: "expired"}
	if id, ok := session.BookingID(); ok {
		req.BookingID = id
	} else {
		req.CheckoutSessionID = session.ID
	}
	return uc.fail(ctx, req)
}

func (uc *UseCase) paymentFailed(ctx context.Context, pi *payments.PaymentIntent) (Action, error) {
	if pi == nil {
		return ActionIgnored, nil
	}
	id, ok := pi.BookingID()
	if !ok {
		uc.logger.Info("HandlePaymentEvent: payment intent %s has no booking id", pi.ID)
		return ActionIgnored, nil
	}
	uc.logger.Info("HandlePaymentEvent: payment for booking id=%d failed: %s", id, pi.FailureMessage)
	return uc.fail(ctx, &fail_booking.Request{BookingID: id, Reason: "payment_failed"})
}

func (uc *UseCase) fail(ctx context.Context, req *fail_booking.Request) (Action, error) {
	_, err := uc.failer.Execute(ctx, req)
	switch {
	case err == nil:
		return ActionFailed, nil
	case errors.Is(err, fail_booking.ErrAlreadyConfirmed),
		errors.Is(err, fail_booking.ErrBookingNotFound),
		errors.Is(err, fail_booking.ErrInvalidInput):
		uc.logger.Warn("HandlePaymentEvent: booking not failed: %v", err)
		return ActionIgnored, nil
	default:
		return "", err
	}
}

func (uc *UseCase) syncSubscription(ctx context.Context, sub *payments.Subscription, deleted bool) (Action, error) {
	if sub == nil {
		return ActionIgnored, nil
	}
	err := uc.memberships.SyncSubscription(ctx, sub, deleted)
	if errors.Is(err, memberships.ErrUnknownAccount) || errors.Is(err, memberships.ErrInvalidInput) {
		uc.logger.Warn("HandlePaymentEvent: subscription %s ignored: %v", sub.ID, err)
		return ActionIgnored, nil
	}
	if err != nil {
		return "", err
	}
	return ActionMembership, nil
}
