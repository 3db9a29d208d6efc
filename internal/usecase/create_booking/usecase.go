package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	membershipRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/membership"
	slotRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/slot"
	waiverRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/waiver"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
)

// checkoutExpiryMargin запас сверх TTL: Stripe не принимает expires_at раньше чем через 30 минут
const checkoutExpiryMargin = time.Minute

// Config параметры бронирования
type Config struct {
	HorizonDays int
	MaxCapacity int
	CheckoutTTL time.Duration
	Location    *time.Location
}

// UseCase use case для создания бронирования
// Места в слоте здесь не занимаются: это делает подтверждение оплаты
type UseCase struct {
	bookingRepo    BookingRepository
	slotRepo       SlotRepository
	waiverRepo     WaiverRepository
	membershipRepo MembershipRepository
	checker        AvailabilityChecker
	pricing        PricingEngine
	gateway        PaymentGateway
	confirmer      Confirmer
	failer         Failer
	metrics        Metrics
	txManager      TransactionManager
	cfg            Config
	timeProvider   TimeProvider
	logger         Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	slotRepo SlotRepository,
	waiverRepo WaiverRepository,
	membershipRepo MembershipRepository,
	checker AvailabilityChecker,
	pricing PricingEngine,
	gateway PaymentGateway,
	confirmer Confirmer,
	failer Failer,
	metrics Metrics,
	txManager TransactionManager,
	cfg Config,
	logger Logger,
) *UseCase {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.MaxCapacity <= 0 {
		cfg.MaxCapacity = domain.DefaultMaxCapacity
	}
	if cfg.CheckoutTTL <= 0 {
		cfg.CheckoutTTL = domain.DefaultCheckoutTTLMinute * time.Minute
	}
	return &UseCase{
		bookingRepo:    bookingRepo,
		slotRepo:       slotRepo,
		waiverRepo:     waiverRepo,
		membershipRepo: membershipRepo,
		checker:        checker,
		pricing:        pricing,
		gateway:        gateway,
		confirmer:      confirmer,
		failer:         failer,
		metrics:        metrics,
		txManager:      txManager,
		cfg:            cfg,
		timeProvider:   &RealTimeProvider{},
		logger:         logger,
	}
}

// WithTimeProvider подменяет часы, используется в тестах
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute создает pending-бронирование и платежную сессию
// Бронирование с нулевой ценой подтверждается сразу
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("CreateBooking: email=%s, date=%s, time=%s, kind=%s, party=%d",
		req.Customer.Email, req.Date.Format(domain.DateFormat), req.StartTime, req.Kind, req.PartySize)

	// 2. Получаем текущее время
	now := uc.timeProvider.Now().In(uc.cfg.Location)
	day := time.Date(req.Date.Year(), req.Date.Month(), req.Date.Day(), 0, 0, 0, 0, uc.cfg.Location)

	if err := validateDate(day, now, uc.cfg.HorizonDays); err != nil {
		uc.logger.Warn("CreateBooking: date validation failed: %v", err)
		return nil, err
	}

	// 3. Проверяем подписанный отказ от ответственности
	waiver, err := uc.waiverRepo.GetByID(ctx, req.WaiverID)
	if err != nil {
		if errors.Is(err, waiverRepo.ErrWaiverNotFound) {
			uc.logger.Warn("CreateBooking: waiver id=%d not found", req.WaiverID)
			return nil, ErrWaiverNotFound
		}
		uc.logger.Error("CreateBooking: failed to get waiver id=%d: %v", req.WaiverID, err)
		return nil, fmt.Errorf("%w: failed to get waiver: %v", ErrInternal, err)
	}

	// 4. Членство авторизованного пользователя
	membership, err := uc.membership(ctx, req.Customer.AccountID)
	if err != nil {
		return nil, err
	}

	// 5. Цена
	quote, err := uc.pricing.Quote(req.Kind, req.PartySize, membership, now)
	if err != nil {
		uc.logger.Warn("CreateBooking: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	// 6. Находим окно и создаём pending-бронирование
	var booking *domain.Booking
	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		slot, err := uc.resolveSlot(txCtx, day, req)
		if err != nil {
			return err
		}

		// 6.1. Предварительная проверка, окончательная будет при подтверждении
		ok, err := uc.checker.IsBookable(txCtx, day, req.StartTime, req.PartySize, req.Kind)
		if err != nil {
			return fmt.Errorf("%w: failed to check availability: %v", ErrInternal, err)
		}
		if !ok {
			return ErrSlotNotAvailable
		}

		// 6.2. Сохраняем бронирование
		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			TimeSlotID:    slot.ID,
			Customer:      req.Customer,
			Kind:          req.Kind,
			PartySize:     req.PartySize,
			Status:        domain.StatusPending,
			PaymentStatus: domain.PaymentPending,
			TotalAmount:   quote.Amount,
			Currency:      quote.Currency,
			IsMember:      quote.IsMember,
			Notes:         req.Notes,
			WaiverID:      &waiver.ID,
		})
		if err != nil {
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}
		created.SlotDate = slot.Date
		created.SlotStartTime = slot.StartTime
		created.SlotEndTime = slot.EndTime
		booking = created
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: slot %s %s (%s) not available",
				day.Format(domain.DateFormat), req.StartTime, req.Kind)
			return nil, err
		}
		uc.logger.Error("CreateBooking: transaction failed: %v", err)
		return nil, err
	}

	uc.metrics.IncBookingEvent("created")
	uc.logger.Info("CreateBooking: booking id=%d created, amount=%d %s, member=%t",
		booking.ID, booking.TotalAmount, booking.Currency, booking.IsMember)

	// 7. Бесплатное бронирование подтверждается без оплаты
	if booking.TotalAmount == 0 {
		return uc.confirmFree(ctx, booking)
	}

	// 8. Платежная сессия
	return uc.startCheckout(ctx, booking)
}

func (uc *UseCase) membership(ctx context.Context, accountID *string) (*domain.Membership, error) {
	if accountID == nil || *accountID == "" {
		return nil, nil
	}
	m, err := uc.membershipRepo.GetByAccountID(ctx, *accountID)
	if errors.Is(err, membershipRepo.ErrMembershipNotFound) {
		return nil, nil
	}
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get membership for account %s: %v", *accountID, err)
		return nil, fmt.Errorf("%w: failed to get membership: %v", ErrInternal, err)
	}
	return m, nil
}

// resolveSlot community окно должно существовать, приватное создаётся при первом бронировании
func (uc *UseCase) resolveSlot(ctx context.Context, day time.Time, req *Request) (*domain.TimeSlot, error) {
	if req.Kind == domain.SessionCommunity {
		slot, err := uc.slotRepo.GetByWindow(ctx, day, req.StartTime, domain.SessionCommunity)
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotAvailable
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}
		return slot, nil
	}

	window, ok := uc.checker.PrivateWindow(req.StartTime)
	if !ok {
		return nil, ErrSlotNotAvailable
	}
	slot, err := uc.slotRepo.GetOrCreate(ctx, &domain.TimeSlot{
		Date:        day,
		StartTime:   window.Start,
		EndTime:     window.End,
		Kind:        domain.SessionPrivate,
		MaxCapacity: uc.cfg.MaxCapacity,
		IsAvailable: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to get private slot: %v", ErrInternal, err)
	}
	return slot, nil
}

func (uc *UseCase) confirmFree(ctx context.Context, booking *domain.Booking) (*Response, error) {
	resp, err := uc.confirmer.Execute(ctx, &confirm_booking.Request{BookingID: booking.ID})
	if err != nil {
		if errors.Is(err, confirm_booking.ErrSlotNotAvailable) {
			uc.logger.Warn("CreateBooking: free booking id=%d rejected: %v", booking.ID, err)
			return nil, fmt.Errorf("%w: %v", ErrSlotNotAvailable, err)
		}
		uc.logger.Error("CreateBooking: failed to confirm free booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: failed to confirm booking: %v", ErrInternal, err)
	}
	return &Response{Booking: resp.Booking}, nil
}

func (uc *UseCase) startCheckout(ctx context.Context, booking *domain.Booking) (*Response, error) {
	unit, quantity := lineItem(booking.Kind, booking.PartySize, booking.TotalAmount)
	// Срок считается от момента создания сессии, а не от начала запроса
	expiresAt := uc.timeProvider.Now().Add(uc.cfg.CheckoutTTL + checkoutExpiryMargin)

	session, err := uc.gateway.CreateBookingCheckout(ctx, payments.BookingCheckout{
		BookingID:     booking.ID,
		TimeSlotID:    booking.TimeSlotID,
		Kind:          booking.Kind,
		PartySize:     booking.PartySize,
		UnitAmount:    unit,
		Quantity:      quantity,
		Currency:      booking.Currency,
		CustomerName:  booking.Customer.Name,
		CustomerEmail: booking.Customer.Email,
		CustomerPhone: booking.Customer.Phone,
		SlotDate:      booking.SlotDate,
		StartTime:     booking.SlotStartTime,
		EndTime:       booking.SlotEndTime,
		IsMember:      booking.IsMember,
		WaiverID:      booking.WaiverID,
		ExpiresAt:     expiresAt,
	})
	if err != nil {
		uc.logger.Error("CreateBooking: failed to create checkout for booking id=%d: %v", booking.ID, err)
		uc.abandon(ctx, booking.ID, "")
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if err := uc.bookingRepo.AttachCheckout(ctx, booking.ID, session.ID, session.ExpiresAt); err != nil {
		uc.logger.Error("CreateBooking: failed to attach session %s to booking id=%d: %v", session.ID, booking.ID, err)
		uc.abandon(ctx, booking.ID, session.ID)
		return nil, fmt.Errorf("%w: failed to attach checkout: %v", ErrInternal, err)
	}

	booking.CheckoutSessionID = &session.ID
	booking.CheckoutExpiresAt = &session.ExpiresAt

	uc.logger.Info("CreateBooking: booking id=%d awaits payment, session=%s", booking.ID, session.ID)

	return &Response{
		Booking:           booking,
		CheckoutURL:       session.URL,
		CheckoutSessionID: session.ID,
		RequiresPayment:   true,
	}, nil
}

// abandon закрывает бронирование, которое не получилось отправить на оплату
func (uc *UseCase) abandon(ctx context.Context, bookingID int64, sessionID string) {
	if sessionID != "" {
		if err := uc.gateway.ExpireCheckoutSession(ctx, sessionID); err != nil {
			uc.logger.Warn("CreateBooking: failed to expire session %s: %v", sessionID, err)
		}
	}
	if _, err := uc.failer.Execute(ctx, &fail_booking.Request{BookingID: bookingID, Reason: "checkout_error"}); err != nil {
		uc.logger.Error("CreateBooking: failed to cancel booking id=%d: %v", bookingID, err)
	}
}
