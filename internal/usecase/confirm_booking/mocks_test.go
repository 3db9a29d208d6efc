package confirm_booking

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) GetByCheckoutSessionID(ctx context.Context, sessionID string) (*domain.Booking, error) {
	args := m.Called(ctx, sessionID)
	b, _ := args.Get(0).(*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) CountConfirmedAt(ctx context.Context, date time.Time, start types.TimeString) (int, error) {
	args := m.Called(ctx, date, start)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) Transition(ctx context.Context, id int64, t domain.StatusTransition) error {
	args := m.Called(ctx, id, t)
	return args.Error(0)
}

func (m *MockBookingRepository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockBookingRepository) SetPaymentIntent(ctx context.Context, id int64, paymentIntentID string) error {
	args := m.Called(ctx, id, paymentIntentID)
	return args.Error(0)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) IncrementBookings(ctx context.Context, id int64, n int) (*domain.TimeSlot, error) {
	args := m.Called(ctx, id, n)
	s, _ := args.Get(0).(*domain.TimeSlot)
	return s, args.Error(1)
}

func (m *MockSlotRepository) SetAvailabilityAt(ctx context.Context, date time.Time, start types.TimeString, kind domain.SessionKind, available bool) (int64, error) {
	args := m.Called(ctx, date, start, kind, available)
	return args.Get(0).(int64), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Refund(ctx context.Context, paymentIntentID string, amount int64, bookingID int64) (*payments.Refund, error) {
	args := m.Called(ctx, paymentIntentID, amount, bookingID)
	r, _ := args.Get(0).(*payments.Refund)
	return r, args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingConfirmed(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type MockTxManager struct{}

func (MockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopMetrics struct{}

func (nopMetrics) IncBookingEvent(string)         {}
func (nopMetrics) IncPaymentEvent(string, string) {}

type MockLogger struct{}

func (MockLogger) Info(string, ...interface{})  {}
func (MockLogger) Warn(string, ...interface{})  {}
func (MockLogger) Error(string, ...interface{}) {}
