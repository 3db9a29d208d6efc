package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/form"
	"github.com/stripe/stripe-go/v81/webhook"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

const testWebhookSecret = "whsec_test_secret"

type mockBackend struct {
	calls   []string
	handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)
}

func (m *mockBackend) Call(method, path, key string, params stripe.ParamsContainer, v stripe.LastResponseSetter) error {
	m.calls = append(m.calls, method+" "+path)
	data, err := m.handler(method, path, params)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (m *mockBackend) CallStreaming(method, path, key string, params stripe.ParamsContainer, v stripe.StreamingLastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallRaw(method, path, key string, body *form.Values, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) CallMultipart(method, path, key, boundary string, body *bytes.Buffer, params *stripe.Params, v stripe.LastResponseSetter) error {
	return nil
}

func (m *mockBackend) SetMaxNetworkRetries(maxNetworkRetries int64) {}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestClient(handler func(method, path string, params stripe.ParamsContainer) ([]byte, error)) (*Client, *mockBackend) {
	backend := &mockBackend{handler: handler}
	cfg := Config{
		SecretKey:      "sk_test_123",
		WebhookSecret:  testWebhookSecret,
		AppURL:         "https://sauna.example.com",
		MonthlyPriceID: "price_monthly",
		AnnualPriceID:  "price_annual",
	}
	backends := &stripe.Backends{API: backend, Connect: backend, Uploads: backend}
	return NewClientWithBackends(cfg, backends, nopLogger{}), backend
}

func TestCreateBookingCheckout(t *testing.T) {
	var captured *stripe.CheckoutSessionParams
	c, backend := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		captured = params.(*stripe.CheckoutSessionParams)
		return []byte(`{"id":"cs_test_1","url":"https://checkout.stripe.com/c/cs_test_1","mode":"payment","status":"open","payment_status":"unpaid","expires_at":1760000000,"metadata":{"booking_id":"42"}}`), nil
	})

	sess, err := c.CreateBookingCheckout(context.Background(), BookingCheckout{
		BookingID:     42,
		TimeSlotID:    7,
		Kind:          domain.SessionCommunity,
		PartySize:     3,
		UnitAmount:    2500,
		Quantity:      3,
		Currency:      "usd",
		CustomerName:  "Alex",
		CustomerEmail: "alex@example.com",
		CustomerPhone: ptr.Ptr("+15550001"),
		SlotDate:      time.Date(2026, 10, 20, 0, 0, 0, 0, time.UTC),
		StartTime:     types.MustTimeString("19:00"),
		EndTime:       types.MustTimeString("20:00"),
		WaiverID:      ptr.Ptr(int64(9)),
		ExpiresAt:     time.Unix(1760000000, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"POST /v1/checkout/sessions"}, backend.calls)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", sess.URL)
	id, ok := sess.BookingID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	require.NotNil(t, captured)
	assert.Equal(t, "payment", *captured.Mode)
	assert.Equal(t, "alex@example.com", *captured.CustomerEmail)
	assert.Equal(t, "42", *captured.ClientReferenceID)
	assert.Equal(t, "https://sauna.example.com/booking-success?session_id={CHECKOUT_SESSION_ID}", *captured.SuccessURL)
	assert.Equal(t, int64(1760000000), *captured.ExpiresAt)
	require.Len(t, captured.LineItems, 1)
	assert.Equal(t, int64(2500), *captured.LineItems[0].PriceData.UnitAmount)
	assert.Equal(t, int64(3), *captured.LineItems[0].Quantity)
	assert.Equal(t, "42", captured.Metadata["booking_id"])
	assert.Equal(t, "community", captured.Metadata["session_type"])
	assert.Equal(t, "2026-10-20", captured.Metadata["slot_date"])
	assert.Equal(t, "19:00", captured.Metadata["slot_start_time"])
	assert.Equal(t, "9", captured.Metadata["waiver_id"])
	assert.Equal(t, "+15550001", captured.Metadata["customer_phone"])
	assert.Equal(t, "42", captured.PaymentIntentData.Metadata["booking_id"])
	assert.Equal(t, "booking-checkout-42", *captured.IdempotencyKey)
}

func TestCreateBookingCheckout_CardError(t *testing.T) {
	c, _ := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "card declined", HTTPStatusCode: 402}
	})

	_, err := c.CreateBookingCheckout(context.Background(), BookingCheckout{BookingID: 1, Quantity: 1, Currency: "usd"})
	assert.ErrorIs(t, err, ErrPaymentDeclined)
}

func TestGetCheckoutSession_NotFound(t *testing.T) {
	c, _ := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, Msg: "No such checkout.session", HTTPStatusCode: 404}
	})

	_, err := c.GetCheckoutSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetCheckoutSession_NetworkError(t *testing.T) {
	c, _ := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, errors.New("connection reset")
	})

	_, err := c.GetCheckoutSession(context.Background(), "cs_1")
	assert.ErrorIs(t, err, ErrProvider)
}

func TestCreateMembershipCheckout_CreatesCustomer(t *testing.T) {
	c, backend := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		switch path {
		case "/v1/customers":
			p := params.(*stripe.CustomerParams)
			assert.Equal(t, "acc_1", p.Metadata["account_id"])
			return []byte(`{"id":"cus_1"}`), nil
		case "/v1/checkout/sessions":
			p := params.(*stripe.CheckoutSessionParams)
			assert.Equal(t, "subscription", *p.Mode)
			assert.Equal(t, "cus_1", *p.Customer)
			assert.Equal(t, "price_annual", *p.LineItems[0].Price)
			assert.Equal(t, "annual", p.Metadata["membership_kind"])
			return []byte(`{"id":"cs_sub_1","url":"https://checkout.stripe.com/c/cs_sub_1","mode":"subscription"}`), nil
		}
		return nil, fmt.Errorf("unexpected path %s", path)
	})

	sess, err := c.CreateMembershipCheckout(context.Background(), MembershipCheckout{
		AccountID: "acc_1",
		Email:     "m@example.com",
		Kind:      domain.MembershipAnnual,
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_sub_1", sess.ID)
	assert.Equal(t, []string{"POST /v1/customers", "POST /v1/checkout/sessions"}, backend.calls)
}

func TestCreateMembershipCheckout_UnknownPlan(t *testing.T) {
	c, backend := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		return nil, errors.New("must not be called")
	})

	_, err := c.CreateMembershipCheckout(context.Background(), MembershipCheckout{AccountID: "a", Kind: domain.MembershipLifetime})
	assert.ErrorIs(t, err, ErrUnknownPlan)
	assert.Empty(t, backend.calls)
}

func TestRefund(t *testing.T) {
	c, backend := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		p := params.(*stripe.RefundParams)
		assert.Equal(t, "pi_1", *p.PaymentIntent)
		assert.Nil(t, p.Amount)
		return []byte(`{"id":"re_1","status":"succeeded","amount":7500}`), nil
	})

	r, err := c.Refund(context.Background(), "pi_1", 0, 42)
	require.NoError(t, err)
	assert.Equal(t, "re_1", r.ID)
	assert.Equal(t, int64(7500), r.Amount)
	assert.Equal(t, []string{"POST /v1/refunds"}, backend.calls)
}

func TestCancelSubscriptionAtPeriodEnd(t *testing.T) {
	c, backend := newTestClient(func(method, path string, params stripe.ParamsContainer) ([]byte, error) {
		p := params.(*stripe.SubscriptionParams)
		assert.True(t, *p.CancelAtPeriodEnd)
		return []byte(`{"id":"sub_1","status":"active","cancel_at_period_end":true,"current_period_end":1760000000}`), nil
	})

	sub, err := c.CancelSubscriptionAtPeriodEnd(context.Background(), "sub_1")
	require.NoError(t, err)
	assert.True(t, sub.CancelAtPeriodEnd)
	assert.Equal(t, time.Unix(1760000000, 0).UTC(), sub.CurrentPeriodEnd)
	assert.Equal(t, []string{"POST /v1/subscriptions/sub_1"}, backend.calls)
}

func signedEvent(t *testing.T, eventType string, object string) ([]byte, string) {
	t.Helper()
	payload := []byte(fmt.Sprintf(`{"id":"evt_1","object":"event","type":%q,"data":{"object":%s}}`, eventType, object))
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: payload,
		Secret:  testWebhookSecret,
	})
	return signed.Payload, signed.Header
}

func TestParseEvent_CheckoutCompleted(t *testing.T) {
	c, _ := newTestClient(nil)
	payload, header := signedEvent(t, EventCheckoutCompleted,
		`{"id":"cs_1","object":"checkout.session","mode":"payment","payment_status":"paid","payment_intent":"pi_1","metadata":{"booking_id":"42"}}`)

	ev, err := c.ParseEvent(payload, header)
	require.NoError(t, err)
	assert.Equal(t, EventCheckoutCompleted, ev.Type)
	require.NotNil(t, ev.Session)
	assert.Equal(t, "cs_1", ev.Session.ID)
	assert.Equal(t, "pi_1", ev.Session.PaymentIntentID)
	assert.True(t, ev.Session.IsPaid())
	id, ok := ev.Session.BookingID()
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)
}

func TestParseEvent_PaymentFailed(t *testing.T) {
	c, _ := newTestClient(nil)
	payload, header := signedEvent(t, EventPaymentFailed,
		`{"id":"pi_1","object":"payment_intent","metadata":{"booking_id":"5"},"last_payment_error":{"message":"insufficient funds"}}`)

	ev, err := c.ParseEvent(payload, header)
	require.NoError(t, err)
	require.NotNil(t, ev.PaymentIntent)
	assert.Equal(t, "insufficient funds", ev.PaymentIntent.FailureMessage)
	id, ok := ev.PaymentIntent.BookingID()
	assert.True(t, ok)
	assert.Equal(t, int64(5), id)
}

func TestParseEvent_Subscription(t *testing.T) {
	c, _ := newTestClient(nil)
	payload, header := signedEvent(t, EventSubscriptionUpdated,
		`{"id":"sub_1","object":"subscription","status":"past_due","customer":"cus_1","current_period_start":1750000000,"current_period_end":1760000000,"items":{"object":"list","data":[{"id":"si_1","price":{"id":"price_monthly"}}]}}`)

	ev, err := c.ParseEvent(payload, header)
	require.NoError(t, err)
	require.NotNil(t, ev.Subscription)
	assert.Equal(t, "cus_1", ev.Subscription.CustomerID)
	assert.Equal(t, "price_monthly", ev.Subscription.PriceID)
	assert.Equal(t, "past_due", ev.Subscription.Status)

	kind, ok := c.KindForPrice(ev.Subscription.PriceID)
	assert.True(t, ok)
	assert.Equal(t, domain.MembershipMonthly, kind)
}

func TestParseEvent_BadSignature(t *testing.T) {
	c, _ := newTestClient(nil)
	payload, _ := signedEvent(t, EventCheckoutCompleted, `{"id":"cs_1"}`)

	_, err := c.ParseEvent(payload, "t=1,v1=deadbeef")
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseEvent_UnhandledTypeHasNoObject(t *testing.T) {
	c, _ := newTestClient(nil)
	payload, header := signedEvent(t, "invoice.paid", `{"id":"in_1"}`)

	ev, err := c.ParseEvent(payload, header)
	require.NoError(t, err)
	assert.Nil(t, ev.Session)
	assert.Nil(t, ev.Subscription)
	assert.Nil(t, ev.PaymentIntent)
}
