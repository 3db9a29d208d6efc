package payments

import (
	"strconv"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// Типы событий Stripe, которые обрабатывает сервис
const (
	EventCheckoutCompleted    = "checkout.session.completed"
	EventCheckoutExpired      = "checkout.session.expired"
	EventPaymentFailed        = "payment_intent.payment_failed"
	EventSubscriptionCreated  = "customer.subscription.created"
	EventSubscriptionUpdated  = "customer.subscription.updated"
	EventSubscriptionDeleted  = "customer.subscription.deleted"
	ModePayment               = "payment"
	ModeSubscription          = "subscription"
	PaymentStatusPaid         = "paid"
	PaymentStatusNoPayment    = "no_payment_required"
	SessionStatusComplete     = "complete"
	SessionStatusExpired      = "expired"
	MetadataBookingID         = "booking_id"
	MetadataAccountID         = "account_id"
	MetadataMembershipKind    = "membership_kind"
	CheckoutSessionIDTemplate = "{CHECKOUT_SESSION_ID}"
)

// BookingCheckout данные для создания платежной сессии бронирования
type BookingCheckout struct {
	BookingID     int64
	TimeSlotID    int64
	Kind          domain.SessionKind
	PartySize     int
	UnitAmount    int64 // за человека для community, за сессию для private
	Quantity      int64
	Currency      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone *string
	SlotDate      time.Time
	StartTime     types.TimeString
	EndTime       types.TimeString
	IsMember      bool
	WaiverID      *int64
	ExpiresAt     time.Time
}

// MembershipCheckout данные для оформления подписки
type MembershipCheckout struct {
	AccountID  string
	Email      string
	Kind       domain.MembershipKind
	CustomerID string
}

// CheckoutSession платежная сессия Stripe
type CheckoutSession struct {
	ID              string
	URL             string
	Mode            string
	Status          string
	PaymentStatus   string
	PaymentIntentID string
	SubscriptionID  string
	CustomerID      string
	AmountTotal     int64
	Currency        string
	ExpiresAt       time.Time
	Metadata        map[string]string
}

// IsPaid сессия оплачена или оплата не требовалась
func (s *CheckoutSession) IsPaid() bool {
	return s.PaymentStatus == PaymentStatusPaid || s.PaymentStatus == PaymentStatusNoPayment
}

// BookingID идентификатор бронирования из metadata
func (s *CheckoutSession) BookingID() (int64, bool) {
	return metadataInt(s.Metadata, MetadataBookingID)
}

// Subscription подписка Stripe
type Subscription struct {
	ID                 string
	CustomerID         string
	PriceID            string
	Status             string
	CurrentPeriodStart time.Time
	CurrentPeriodEnd   time.Time
	CancelAtPeriodEnd  bool
	Metadata           map[string]string
}

// PaymentIntent неуспешный платеж
type PaymentIntent struct {
	ID             string
	FailureMessage string
	Metadata       map[string]string
}

// BookingID идентификатор бронирования из metadata
func (p *PaymentIntent) BookingID() (int64, bool) {
	return metadataInt(p.Metadata, MetadataBookingID)
}

// Refund возврат средств
type Refund struct {
	ID     string
	Status string
	Amount int64
}

// Event проверенное событие webhook, заполнено одно из полей-объектов
type Event struct {
	ID            string
	Type          string
	Session       *CheckoutSession
	Subscription  *Subscription
	PaymentIntent *PaymentIntent
}

func metadataInt(md map[string]string, key string) (int64, bool) {
	raw, ok := md[key]
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
