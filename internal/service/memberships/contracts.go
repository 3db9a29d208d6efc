package memberships

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
)

// MembershipRepository интерфейс репозитория членств
type MembershipRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*domain.Membership, error)
	GetByCustomerID(ctx context.Context, customerID string) (*domain.Membership, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*domain.Membership, error)
	List(ctx context.Context) ([]*domain.Membership, error)
	Upsert(ctx context.Context, m *domain.Membership) (*domain.Membership, error)
	SetStatus(ctx context.Context, accountID string, status domain.MembershipStatus) error
	RecordPurchase(ctx context.Context, p *domain.MembershipPurchase) (bool, error)
}

// PaymentGateway интерфейс платежного провайдера
type PaymentGateway interface {
	CreateMembershipCheckout(ctx context.Context, in payments.MembershipCheckout) (*payments.CheckoutSession, error)
	CancelSubscriptionAtPeriodEnd(ctx context.Context, subscriptionID string) (*payments.Subscription, error)
	KindForPrice(priceID string) (domain.MembershipKind, bool)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
