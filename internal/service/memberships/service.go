package memberships

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	membershipRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/membership"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/service/memberships/models"
	"github.com/m04kA/Sauna-BookingService/internal/service/pricing"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
)

// Service сервис членств и подписок
type Service struct {
	repo      MembershipRepository
	gateway   PaymentGateway
	txManager TransactionManager
	now       func() time.Time
	logger    Logger
}

// NewService создает новый экземпляр сервиса членств
func NewService(repo MembershipRepository, gateway PaymentGateway, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		repo:      repo,
		gateway:   gateway,
		txManager: txManager,
		now:       time.Now,
		logger:    logger,
	}
}

// WithClock подменяет часы, используется в тестах
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// GetForAccount членство аккаунта, для аккаунта без членства возвращает kind=none
func (s *Service) GetForAccount(ctx context.Context, accountID string) (*models.MembershipResponse, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}

	m, err := s.repo.GetByAccountID(ctx, accountID)
	if errors.Is(err, membershipRepo.ErrMembershipNotFound) {
		resp := models.None(accountID)
		return &resp, nil
	}
	if err != nil {
		s.logger.Error("GetForAccount: repository error for account %s: %v", accountID, err)
		return nil, fmt.Errorf("%w: GetForAccount - repository error: %v", ErrInternal, err)
	}

	resp := models.FromDomainMembership(m, pricing.IsActiveMember(m, s.now()))
	return &resp, nil
}

// List все членства (администратор)
func (s *Service) List(ctx context.Context) (*models.MembershipListResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	now := s.now()
	resp := &models.MembershipListResponse{
		Memberships: make([]models.MembershipResponse, 0, len(list)),
		Total:       len(list),
	}
	for _, m := range list {
		resp.Memberships = append(resp.Memberships, models.FromDomainMembership(m, pricing.IsActiveMember(m, now)))
	}
	return resp, nil
}

// StartCheckout создает сессию оформления подписки
func (s *Service) StartCheckout(ctx context.Context, req *models.StartCheckoutRequest) (*models.CheckoutResponse, error) {
	if req == nil || req.AccountID == "" || req.Email == "" {
		return nil, fmt.Errorf("%w: account id and email are required", ErrInvalidInput)
	}
	if req.Kind != domain.MembershipMonthly && req.Kind != domain.MembershipAnnual {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPlan, req.Kind)
	}

	s.logger.Info("StartCheckout: account=%s, kind=%s", req.AccountID, req.Kind)

	// 1. Текущее членство: повторная покупка активной подписки запрещена
	existing, err := s.repo.GetByAccountID(ctx, req.AccountID)
	if err != nil && !errors.Is(err, membershipRepo.ErrMembershipNotFound) {
		s.logger.Error("StartCheckout: repository error for account %s: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: StartCheckout - repository error: %v", ErrInternal, err)
	}
	customerID := ""
	if existing != nil {
		if existing.Status == domain.MembershipStatusActive && pricing.IsActiveMember(existing, s.now()) {
			s.logger.Warn("StartCheckout: account %s already has an active membership", req.AccountID)
			return nil, ErrAlreadyMember
		}
		customerID = ptr.Deref(existing.StripeCustomerID)
	}

	// 2. Сессия Stripe, покупатель создаётся при необходимости
	session, err := s.gateway.CreateMembershipCheckout(ctx, payments.MembershipCheckout{
		AccountID:  req.AccountID,
		Email:      req.Email,
		Kind:       req.Kind,
		CustomerID: customerID,
	})
	if err != nil {
		if errors.Is(err, payments.ErrUnknownPlan) {
			return nil, fmt.Errorf("%w: %v", ErrUnknownPlan, err)
		}
		s.logger.Error("StartCheckout: failed to create checkout for account %s: %v", req.AccountID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	// 3. Запоминаем покупателя, чтобы события подписки нашли аккаунт
	if existing == nil && session.CustomerID != "" {
		_, err := s.repo.Upsert(ctx, &domain.Membership{
			AccountID:        req.AccountID,
			Email:            req.Email,
			Kind:             domain.MembershipNone,
			Status:           domain.MembershipStatusNone,
			StripeCustomerID: ptr.Ptr(session.CustomerID),
		})
		if err != nil {
			s.logger.Warn("StartCheckout: failed to store customer for account %s: %v", req.AccountID, err)
		}
	}

	return &models.CheckoutResponse{SessionID: session.ID, URL: session.URL}, nil
}

// CancelAtPeriodEnd отменяет подписку в конце периода, доступ сохраняется до ends_at
func (s *Service) CancelAtPeriodEnd(ctx context.Context, accountID string) (*models.MembershipResponse, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: account id is required", ErrInvalidInput)
	}

	m, err := s.repo.GetByAccountID(ctx, accountID)
	if errors.Is(err, membershipRepo.ErrMembershipNotFound) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		s.logger.Error("CancelAtPeriodEnd: repository error for account %s: %v", accountID, err)
		return nil, fmt.Errorf("%w: CancelAtPeriodEnd - repository error: %v", ErrInternal, err)
	}
	if m.StripeSubscriptionID == nil || *m.StripeSubscriptionID == "" {
		return nil, ErrNoSubscription
	}

	if _, err := s.gateway.CancelSubscriptionAtPeriodEnd(ctx, *m.StripeSubscriptionID); err != nil {
		s.logger.Error("CancelAtPeriodEnd: provider error for subscription %s: %v", *m.StripeSubscriptionID, err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentProvider, err)
	}

	if err := s.repo.SetStatus(ctx, accountID, domain.MembershipStatusCancelled); err != nil {
		s.logger.Error("CancelAtPeriodEnd: failed to update status for account %s: %v", accountID, err)
		return nil, fmt.Errorf("%w: CancelAtPeriodEnd - set status: %v", ErrInternal, err)
	}
	m.Status = domain.MembershipStatusCancelled

	s.logger.Info("CancelAtPeriodEnd: account %s cancelled, access until %v", accountID, m.EndsAt)
	resp := models.FromDomainMembership(m, pricing.IsActiveMember(m, s.now()))
	return &resp, nil
}

// SyncSubscription применяет событие customer.subscription.*
func (s *Service) SyncSubscription(ctx context.Context, sub *payments.Subscription, deleted bool) error {
	if sub == nil || sub.ID == "" {
		return fmt.Errorf("%w: subscription is required", ErrInvalidInput)
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		m, err := s.findBySubscription(txCtx, sub)
		if err != nil {
			return err
		}

		if kind, ok := s.gateway.KindForPrice(sub.PriceID); ok {
			m.Kind = kind
		} else if m.Kind == domain.MembershipNone {
			s.logger.Warn("SyncSubscription: unknown price %s for subscription %s", sub.PriceID, sub.ID)
		}

		m.Status = subscriptionStatus(sub, deleted)
		if !sub.CurrentPeriodStart.IsZero() {
			m.StartsAt = ptr.Ptr(sub.CurrentPeriodStart)
		}
		if !sub.CurrentPeriodEnd.IsZero() {
			m.EndsAt = ptr.Ptr(sub.CurrentPeriodEnd)
		}
		if sub.CustomerID != "" {
			m.StripeCustomerID = ptr.Ptr(sub.CustomerID)
		}
		m.StripeSubscriptionID = ptr.Ptr(sub.ID)

		if _, err := s.repo.Upsert(txCtx, m); err != nil {
			return fmt.Errorf("%w: SyncSubscription - upsert: %v", ErrInternal, err)
		}

		s.logger.Info("SyncSubscription: account=%s, subscription=%s, kind=%s, status=%s",
			m.AccountID, sub.ID, m.Kind, m.Status)
		return nil
	})
}

// RecordPurchase фиксирует оплату подписки по завершённой checkout-сессии
func (s *Service) RecordPurchase(ctx context.Context, session *payments.CheckoutSession) error {
	if session == nil || session.ID == "" {
		return fmt.Errorf("%w: session is required", ErrInvalidInput)
	}
	accountID := session.Metadata[payments.MetadataAccountID]
	kind := domain.MembershipKind(session.Metadata[payments.MetadataMembershipKind])
	if accountID == "" || !kind.IsValid() || kind == domain.MembershipNone {
		return fmt.Errorf("%w: session %s has no membership metadata", ErrInvalidInput, session.ID)
	}

	return s.txManager.Do(ctx, func(txCtx context.Context) error {
		purchase := &domain.MembershipPurchase{
			AccountID:         accountID,
			Kind:              kind,
			Amount:            session.AmountTotal,
			Currency:          session.Currency,
			CheckoutSessionID: session.ID,
		}
		if session.SubscriptionID != "" {
			purchase.SubscriptionID = ptr.Ptr(session.SubscriptionID)
		}
		inserted, err := s.repo.RecordPurchase(txCtx, purchase)
		if err != nil {
			return fmt.Errorf("%w: RecordPurchase - insert purchase: %v", ErrInternal, err)
		}
		if !inserted {
			s.logger.Info("RecordPurchase: session %s already recorded, skipping", session.ID)
			return nil
		}

		m, err := s.repo.GetByAccountID(txCtx, accountID)
		if errors.Is(err, membershipRepo.ErrMembershipNotFound) {
			m = &domain.Membership{AccountID: accountID}
		} else if err != nil {
			return fmt.Errorf("%w: RecordPurchase - get membership: %v", ErrInternal, err)
		}

		m.Kind = kind
		if !syncedBySubscription(m, session.SubscriptionID) {
			// Окно до первого события подписки, которое его уточнит
			now := s.now()
			m.Status = domain.MembershipStatusActive
			m.StartsAt = ptr.Ptr(now)
			if end := periodEnd(kind, now); m.EndsAt == nil || m.EndsAt.Before(end) {
				m.EndsAt = ptr.Ptr(end)
			}
		}
		if session.CustomerID != "" {
			m.StripeCustomerID = ptr.Ptr(session.CustomerID)
		}
		if session.SubscriptionID != "" {
			m.StripeSubscriptionID = ptr.Ptr(session.SubscriptionID)
		}

		if _, err := s.repo.Upsert(txCtx, m); err != nil {
			return fmt.Errorf("%w: RecordPurchase - upsert membership: %v", ErrInternal, err)
		}

		s.logger.Info("RecordPurchase: account=%s, kind=%s, session=%s", accountID, kind, session.ID)
		return nil
	})
}

// syncedBySubscription окно уже выставлено событием этой подписки
func syncedBySubscription(m *domain.Membership, subscriptionID string) bool {
	return subscriptionID != "" && m.StripeSubscriptionID != nil &&
		*m.StripeSubscriptionID == subscriptionID && m.EndsAt != nil
}

func (s *Service) findBySubscription(ctx context.Context, sub *payments.Subscription) (*domain.Membership, error) {
	lookups := []func() (*domain.Membership, error){
		func() (*domain.Membership, error) { return s.repo.GetBySubscriptionID(ctx, sub.ID) },
	}
	if accountID := sub.Metadata[payments.MetadataAccountID]; accountID != "" {
		lookups = append(lookups, func() (*domain.Membership, error) { return s.repo.GetByAccountID(ctx, accountID) })
	}
	if sub.CustomerID != "" {
		lookups = append(lookups, func() (*domain.Membership, error) { return s.repo.GetByCustomerID(ctx, sub.CustomerID) })
	}

	for _, lookup := range lookups {
		m, err := lookup()
		if err == nil {
			return m, nil
		}
		if !errors.Is(err, membershipRepo.ErrMembershipNotFound) {
			return nil, fmt.Errorf("%w: SyncSubscription - lookup: %v", ErrInternal, err)
		}
	}

	// Подписка оформлена не через checkout, но аккаунт указан в metadata
	if accountID := sub.Metadata[payments.MetadataAccountID]; accountID != "" {
		return &domain.Membership{AccountID: accountID, Kind: domain.MembershipNone}, nil
	}
	return nil, fmt.Errorf("%w: subscription %s", ErrUnknownAccount, sub.ID)
}

// subscriptionStatus статус Stripe в статус членства
func subscriptionStatus(sub *payments.Subscription, deleted bool) domain.MembershipStatus {
	if deleted || sub.CancelAtPeriodEnd {
		return domain.MembershipStatusCancelled
	}
	switch sub.Status {
	case "active", "trialing":
		return domain.MembershipStatusActive
	case "past_due", "unpaid", "incomplete":
		return domain.MembershipStatusPastDue
	default:
		return domain.MembershipStatusCancelled
	}
}

func periodEnd(kind domain.MembershipKind, from time.Time) time.Time {
	if kind == domain.MembershipAnnual {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
