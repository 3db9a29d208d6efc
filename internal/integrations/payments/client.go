package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// Config параметры клиента Stripe
type Config struct {
	SecretKey      string
	WebhookSecret  string
	AppURL         string
	MonthlyPriceID string
	AnnualPriceID  string
	Timeout        time.Duration
}

// Client клиент Stripe Checkout, Refunds, Subscriptions и webhook
type Client struct {
	api           *client.API
	webhookSecret string
	appURL        string
	prices        map[domain.MembershipKind]string
	log           Logger
}

// NewClient создает клиент с HTTP backend Stripe
func NewClient(cfg Config, log Logger) *Client {
	backends := stripe.NewBackends(&http.Client{Timeout: cfg.Timeout})
	return NewClientWithBackends(cfg, backends, log)
}

// NewClientWithBackends создает клиент с заданными backend (используется в тестах)
func NewClientWithBackends(cfg Config, backends *stripe.Backends, log Logger) *Client {
	api := &client.API{}
	api.Init(cfg.SecretKey, backends)

	return &Client{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		appURL:        cfg.AppURL,
		prices: map[domain.MembershipKind]string{
			domain.MembershipMonthly: cfg.MonthlyPriceID,
			domain.MembershipAnnual:  cfg.AnnualPriceID,
		},
		log: log,
	}
}

// CreateBookingCheckout создает платежную сессию для бронирования
func (c *Client) CreateBookingCheckout(ctx context.Context, in BookingCheckout) (*CheckoutSession, error) {
	bookingID := strconv.FormatInt(in.BookingID, 10)
	date := in.SlotDate.Format(domain.DateFormat)

	metadata := map[string]string{
		MetadataBookingID: bookingID,
		"time_slot_id":    strconv.FormatInt(in.TimeSlotID, 10),
		"session_type":    string(in.Kind),
		"party_size":      strconv.Itoa(in.PartySize),
		"customer_name":   in.CustomerName,
		"slot_date":       date,
		"slot_start_time": in.StartTime.String(),
		"slot_end_time":   in.EndTime.String(),
		"is_member":       strconv.FormatBool(in.IsMember),
	}
	if in.CustomerPhone != nil {
		metadata["customer_phone"] = *in.CustomerPhone
	}
	if in.WaiverID != nil {
		metadata["waiver_id"] = strconv.FormatInt(*in.WaiverID, 10)
	}

	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail:     stripe.String(in.CustomerEmail),
		ClientReferenceID: stripe.String(bookingID),
		SuccessURL:        stripe.String(c.appURL + "/booking-success?session_id=" + CheckoutSessionIDTemplate),
		CancelURL:         stripe.String(c.appURL + "/book"),
		ExpiresAt:         stripe.Int64(in.ExpiresAt.Unix()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(in.Currency),
					UnitAmount: stripe.Int64(in.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(productName(in.Kind)),
						Description: stripe.String(fmt.Sprintf("%s %s-%s", date, in.StartTime, in.EndTime)),
					},
				},
				Quantity: stripe.Int64(in.Quantity),
			},
		},
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: map[string]string{MetadataBookingID: bookingID},
		},
		Metadata: metadata,
	}
	// Повторная отправка того же бронирования не создаст вторую сессию
	params.SetIdempotencyKey("booking-checkout-" + bookingID)

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapError("CreateBookingCheckout", err)
	}

	c.log.Info("Stripe checkout session created: session_id=%s, booking_id=%s", sess.ID, bookingID)
	return toCheckoutSession(sess), nil
}

// EnsureCustomer возвращает существующий customer id или создает нового покупателя
func (c *Client) EnsureCustomer(ctx context.Context, accountID, email, existing string) (string, error) {
	if existing != "" {
		return existing, nil
	}

	params := &stripe.CustomerParams{
		Params:   stripe.Params{Context: ctx},
		Email:    stripe.String(email),
		Metadata: map[string]string{MetadataAccountID: accountID},
	}
	params.SetIdempotencyKey("customer-" + accountID)

	cust, err := c.api.Customers.New(params)
	if err != nil {
		return "", mapError("EnsureCustomer", err)
	}
	return cust.ID, nil
}

// CreateMembershipCheckout создает сессию оформления подписки
func (c *Client) CreateMembershipCheckout(ctx context.Context, in MembershipCheckout) (*CheckoutSession, error) {
	priceID := c.prices[in.Kind]
	if priceID == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, in.Kind)
	}

	customerID, err := c.EnsureCustomer(ctx, in.AccountID, in.Email, in.CustomerID)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		MetadataAccountID:      in.AccountID,
		MetadataMembershipKind: string(in.Kind),
	}
	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:          stripe.String(customerID),
		ClientReferenceID: stripe.String(in.AccountID),
		SuccessURL:        stripe.String(c.appURL + "/membership?session_id=" + CheckoutSessionIDTemplate),
		CancelURL:         stripe.String(c.appURL + "/membership"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: metadata,
		},
		Metadata: metadata,
	}
	params.SetIdempotencyKey(uuid.NewString())

	sess, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, mapError("CreateMembershipCheckout", err)
	}

	c.log.Info("Stripe membership checkout created: session_id=%s, account_id=%s, kind=%s", sess.ID, in.AccountID, in.Kind)
	return toCheckoutSession(sess), nil
}

// GetCheckoutSession получает сессию по идентификатору
func (c *Client) GetCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{Params: stripe.Params{Context: ctx}}

	sess, err := c.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, mapError("GetCheckoutSession", err)
	}
	return toCheckoutSession(sess), nil
}

// ExpireCheckoutSession закрывает открытую сессию, чтобы по ней нельзя было заплатить
func (c *Client) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	params := &stripe.CheckoutSessionExpireParams{Params: stripe.Params{Context: ctx}}

	if _, err := c.api.CheckoutSessions.Expire(sessionID, params); err != nil {
		return mapError("ExpireCheckoutSession", err)
	}
	return nil
}

// Refund возвращает платеж полностью, amount <= 0 означает всю сумму
func (c *Client) Refund(ctx context.Context, paymentIntentID string, amount int64, bookingID int64) (*Refund, error) {
	id := strconv.FormatInt(bookingID, 10)
	params := &stripe.RefundParams{
		Params:        stripe.Params{Context: ctx},
		PaymentIntent: stripe.String(paymentIntentID),
		Reason:        stripe.String(string(stripe.RefundReasonRequestedByCustomer)),
		Metadata:      map[string]string{MetadataBookingID: id},
	}
	if amount > 0 {
		params.Amount = stripe.Int64(amount)
	}
	params.SetIdempotencyKey("booking-refund-" + id)

	r, err := c.api.Refunds.New(params)
	if err != nil {
		return nil, mapError("Refund", err)
	}

	c.log.Info("Stripe refund created: refund_id=%s, booking_id=%s, amount=%d", r.ID, id, r.Amount)
	return &Refund{ID: r.ID, Status: string(r.Status), Amount: r.Amount}, nil
}

// CancelSubscriptionAtPeriodEnd отменяет подписку в конце оплаченного периода
func (c *Client) CancelSubscriptionAtPeriodEnd(ctx context.Context, subscriptionID string) (*Subscription, error) {
	params := &stripe.SubscriptionParams{
		Params:            stripe.Params{Context: ctx},
		CancelAtPeriodEnd: stripe.Bool(true),
	}

	sub, err := c.api.Subscriptions.Update(subscriptionID, params)
	if err != nil {
		return nil, mapError("CancelSubscriptionAtPeriodEnd", err)
	}
	return toSubscription(sub), nil
}

// ParseEvent проверяет подпись webhook и разбирает объект события
func (c *Client) ParseEvent(payload []byte, signature string) (*Event, error) {
	ev, err := webhook.ConstructEventWithOptions(payload, signature, c.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	out := &Event{ID: ev.ID, Type: string(ev.Type)}
	if ev.Data == nil {
		return nil, fmt.Errorf("%w: event %s has no data", ErrInvalidPayload, ev.ID)
	}

	switch out.Type {
	case EventCheckoutCompleted, EventCheckoutExpired:
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("%w: checkout session: %v", ErrInvalidPayload, err)
		}
		out.Session = toCheckoutSession(&sess)
	case EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(ev.Data.Raw, &pi); err != nil {
			return nil, fmt.Errorf("%w: payment intent: %v", ErrInvalidPayload, err)
		}
		out.PaymentIntent = &PaymentIntent{ID: pi.ID, Metadata: pi.Metadata}
		if pi.LastPaymentError != nil {
			out.PaymentIntent.FailureMessage = pi.LastPaymentError.Msg
		}
	case EventSubscriptionCreated, EventSubscriptionUpdated, EventSubscriptionDeleted:
		var sub stripe.Subscription
		if err := json.Unmarshal(ev.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("%w: subscription: %v", ErrInvalidPayload, err)
		}
		out.Subscription = toSubscription(&sub)
	}

	return out, nil
}

func productName(kind domain.SessionKind) string {
	if kind == domain.SessionPrivate {
		return "Private sauna session"
	}
	return "Community sauna session"
}

func toCheckoutSession(s *stripe.CheckoutSession) *CheckoutSession {
	out := &CheckoutSession{
		ID:            s.ID,
		URL:           s.URL,
		Mode:          string(s.Mode),
		Status:        string(s.Status),
		PaymentStatus: string(s.PaymentStatus),
		AmountTotal:   s.AmountTotal,
		Currency:      string(s.Currency),
		Metadata:      s.Metadata,
	}
	if s.ExpiresAt > 0 {
		out.ExpiresAt = time.Unix(s.ExpiresAt, 0).UTC()
	}
	if s.PaymentIntent != nil {
		out.PaymentIntentID = s.PaymentIntent.ID
	}
	if s.Subscription != nil {
		out.SubscriptionID = s.Subscription.ID
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	return out
}

func toSubscription(s *stripe.Subscription) *Subscription {
	out := &Subscription{
		ID:                s.ID,
		Status:            string(s.Status),
		CancelAtPeriodEnd: s.CancelAtPeriodEnd,
		Metadata:          s.Metadata,
	}
	if s.Customer != nil {
		out.CustomerID = s.Customer.ID
	}
	if s.Items != nil && len(s.Items.Data) > 0 && s.Items.Data[0].Price != nil {
		out.PriceID = s.Items.Data[0].Price.ID
	}
	if s.CurrentPeriodStart > 0 {
		out.CurrentPeriodStart = time.Unix(s.CurrentPeriodStart, 0).UTC()
	}
	if s.CurrentPeriodEnd > 0 {
		out.CurrentPeriodEnd = time.Unix(s.CurrentPeriodEnd, 0).UTC()
	}
	return out
}

func mapError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		switch {
		case se.Type == stripe.ErrorTypeCard:
			return fmt.Errorf("%w: %s - %s", ErrPaymentDeclined, op, se.Msg)
		case se.HTTPStatusCode == http.StatusNotFound:
			return fmt.Errorf("%w: %s - %s", ErrNotFound, op, se.Msg)
		default:
			return fmt.Errorf("%w: %s - %s", ErrProvider, op, se.Msg)
		}
	}
	return fmt.Errorf("%w: %s - %v", ErrProvider, op, err)
}

// KindForPrice вид членства по price id подписки
func (c *Client) KindForPrice(priceID string) (domain.MembershipKind, bool) {
	for kind, id := range c.prices {
		if id != "" && id == priceID {
			return kind, true
		}
	}
	return domain.MembershipNone, false
}
