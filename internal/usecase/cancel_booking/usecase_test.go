package cancel_booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/Sauna-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
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

func (m *MockBookingRepository) Transition(ctx context.Context, id int64, t domain.StatusTransition) error {
	args := m.Called(ctx, id, t)
	return args.Error(0)
}

func (m *MockBookingRepository) SetPaymentStatus(ctx context.Context, id int64, status domain.PaymentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockSlotRepository struct {
	mock.Mock
}

func (m *MockSlotRepository) DecrementBookings(ctx context.Context, id int64, n int) (*domain.TimeSlot, error) {
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

func (m *MockGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
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

var slotDay = time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

func booking(status domain.BookingStatus, kind domain.SessionKind) *domain.Booking {
	return &domain.Booking{
		ID:            3,
		TimeSlotID:    10,
		Kind:          kind,
		PartySize:     3,
		Status:        status,
		PaymentStatus: domain.PaymentPaid,
		TotalAmount:   7500,
		SlotDate:      slotDay,
		SlotStartTime: types.MustTimeString("10:00"),
	}
}

type fixture struct {
	bookings *MockBookingRepository
	slots    *MockSlotRepository
	gateway  *MockGateway
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		bookings: new(MockBookingRepository),
		slots:    new(MockSlotRepository),
		gateway:  new(MockGateway),
	}
	f.uc = NewUseCase(f.bookings, f.slots, f.gateway, nopMetrics{}, MockTxManager{}, MockLogger{})
	return f
}

func TestExecute_ConfirmedCommunityReleasesSpots(t *testing.T) {
	f := newFixture()
	b := booking(domain.StatusConfirmed, domain.SessionCommunity)

	f.bookings.On("GetByID", mock.Anything, int64(3)).Return(b, nil)
	f.bookings.On("Transition", mock.Anything, int64(3), domain.StatusTransition{
		From: domain.StatusConfirmed, To: domain.StatusCancelled, PaymentStatus: domain.PaymentPaid,
	}).Return(nil)
	f.slots.On("DecrementBookings", mock.Anything, int64(10), 3).Return(&domain.TimeSlot{ID: 10}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 3})

	require.NoError(t, err)
	assert.True(t, resp.WasConfirmed)
	assert.Equal(t, 3, resp.ReleasedSpots)
	assert.False(t, resp.Refunded)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
	f.slots.AssertNotCalled(t, "SetAvailabilityAt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.bookings.AssertExpectations(t)
}

func TestExecute_ConfirmedPrivateUnblocksCommunity(t *testing.T) {
	f := newFixture()
	b := booking(domain.StatusConfirmed, domain.SessionPrivate)
	b.PaymentIntentID = ptr.Ptr("pi_1")

	f.bookings.On("GetByID", mock.Anything, int64(3)).Return(b, nil)
	f.bookings.On("Transition", mock.Anything, int64(3), mock.Anything).Return(nil)
	f.slots.On("DecrementBookings", mock.Anything, int64(10), 3).Return(&domain.TimeSlot{ID: 10}, nil)
	f.slots.On("SetAvailabilityAt", mock.Anything, slotDay, types.TimeString("10:00"), domain.SessionCommunity, true).Return(int64(1), nil)
	f.gateway.On("Refund", mock.Anything, "pi_1", int64(0), int64(3)).Return(&payments.Refund{ID: "re_1"}, nil)
	f.bookings.On("SetPaymentStatus", mock.Anything, int64(3), domain.PaymentRefunded).Return(nil)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 3, Refund: true})

	require.NoError(t, err)
	assert.True(t, resp.Refunded)
	assert.Equal(t, domain.PaymentRefunded, resp.Booking.PaymentStatus)
	f.slots.AssertExpectations(t)
	f.gateway.AssertExpectations(t)
}

func TestExecute_PendingDoesNotTouchCapacity(t *testing.T) {
	f := newFixture()
	b := booking(domain.StatusPending, domain.SessionCommunity)
	b.PaymentStatus = domain.PaymentPending
	b.CheckoutSessionID = ptr.Ptr("cs_1")

	f.bookings.On("GetByID", mock.Anything, int64(3)).Return(b, nil)
	f.bookings.On("Transition", mock.Anything, int64(3), domain.StatusTransition{
		From: domain.StatusPending, To: domain.StatusCancelled, PaymentStatus: domain.PaymentFailed,
	}).Return(nil)
	f.gateway.On("ExpireCheckoutSession", mock.Anything, "cs_1").Return(errors.New("already expired"))

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 3, Refund: true})

	require.NoError(t, err)
	assert.False(t, resp.WasConfirmed)
	assert.Zero(t, resp.ReleasedSpots)
	assert.False(t, resp.Refunded)
	f.slots.AssertNotCalled(t, "DecrementBookings", mock.Anything, mock.Anything, mock.Anything)
	f.gateway.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(3)).Return(booking(domain.StatusCancelled, domain.SessionCommunity), nil)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 3})
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestExecute_NotFound(t *testing.T) {
	f := newFixture()
	f.bookings.On("GetByID", mock.Anything, int64(3)).Return(nil, bookingRepo.ErrBookingNotFound)

	_, err := f.uc.Execute(context.Background(), &Request{BookingID: 3})
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_RefundWithoutPaymentIntent(t *testing.T) {
	f := newFixture()
	b := booking(domain.StatusConfirmed, domain.SessionCommunity)

	f.bookings.On("GetByID", mock.Anything, int64(3)).Return(b, nil)
	f.bookings.On("Transition", mock.Anything, int64(3), mock.Anything).Return(nil)
	f.slots.On("DecrementBookings", mock.Anything, int64(10), 3).Return(&domain.TimeSlot{ID: 10}, nil)

	resp, err := f.uc.Execute(context.Background(), &Request{BookingID: 3, Refund: true})

	// Отмена состоялась, ошибка относится только к возврату
	assert.ErrorIs(t, err, ErrRefundFailed)
	require.NotNil(t, resp)
	assert.Equal(t, domain.StatusCancelled, resp.Booking.Status)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
