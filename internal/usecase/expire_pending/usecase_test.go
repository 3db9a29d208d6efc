package expire_pending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/payments"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
	"github.com/m04kA/Sauna-BookingService/internal/usecase/fail_booking"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) ListExpiredPending(ctx context.Context, before time.Time, limit uint64) ([]*domain.Booking, error) {
	args := m.Called(ctx, before, limit)
	b, _ := args.Get(0).([]*domain.Booking)
	return b, args.Error(1)
}

func (m *MockBookingRepository) Touch(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) GetCheckoutSession(ctx context.Context, sessionID string) (*payments.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(*payments.CheckoutSession)
	return s, args.Error(1)
}

func (m *MockGateway) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	return m.Called(ctx, sessionID).Error(0)
}

type MockConfirmer struct {
	mock.Mock
}

func (m *MockConfirmer) Execute(ctx context.Context, req *confirm_booking.Request) (*confirm_booking.Response, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*confirm_booking.Response)
	return r, args.Error(1)
}

type MockFailer struct {
	mock.Mock
}

func (m *MockFailer) Execute(ctx context.Context, req *fail_booking.Request) (*fail_booking.Response, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*fail_booking.Response)
	return r, args.Error(1)
}

type MockLogger struct{}

func (MockLogger) Info(string, ...interface{})  {}
func (MockLogger) Warn(string, ...interface{})  {}
func (MockLogger) Error(string, ...interface{}) {}

var now = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func pending(id int64, session string) *domain.Booking {
	b := &domain.Booking{ID: id, Status: domain.StatusPending, PaymentStatus: domain.PaymentPending}
	if session != "" {
		b.CheckoutSessionID = ptr.Ptr(session)
	}
	return b
}

type fixture struct {
	repo      *MockBookingRepository
	gateway   *MockGateway
	confirmer *MockConfirmer
	failer    *MockFailer
	uc        *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockBookingRepository),
		gateway:   new(MockGateway),
		confirmer: new(MockConfirmer),
		failer:    new(MockFailer),
	}
	f.uc = NewUseCase(f.repo, f.gateway, f.confirmer, f.failer, MockLogger{})
	return f
}

func failReq(id int64) interface{} {
	return mock.MatchedBy(func(r *fail_booking.Request) bool { return r.BookingID == id })
}

func TestExecute_MixedBatch(t *testing.T) {
	f := newFixture()
	f.repo.On("ListExpiredPending", mock.Anything, now.Add(-5*time.Minute), uint64(DefaultBatchSize)).
		Return([]*domain.Booking{
			pending(1, "cs_expired"),
			pending(2, "cs_open"),
			pending(3, "cs_paid"),
			pending(4, "cs_gone"),
			pending(5, "cs_flaky"),
		}, nil)

	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_expired").
		Return(&payments.CheckoutSession{ID: "cs_expired", Status: payments.SessionStatusExpired}, nil)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_open").
		Return(&payments.CheckoutSession{ID: "cs_open", Status: "open"}, nil)
	f.gateway.On("ExpireCheckoutSession", mock.Anything, "cs_open").Return(nil)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_paid").
		Return(&payments.CheckoutSession{
			ID: "cs_paid", Status: payments.SessionStatusComplete,
			PaymentStatus: payments.PaymentStatusPaid, PaymentIntentID: "pi_3",
		}, nil)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_gone").Return(nil, payments.ErrNotFound)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_flaky").Return(nil, payments.ErrProvider)

	f.confirmer.On("Execute", mock.Anything, &confirm_booking.Request{BookingID: 3, PaymentIntentID: "pi_3", Paid: true}).
		Return(&confirm_booking.Response{}, nil)
	for _, id := range []int64{1, 2, 4} {
		f.failer.On("Execute", mock.Anything, failReq(id)).Return(&fail_booking.Response{}, nil)
	}
	f.repo.On("Touch", mock.Anything, int64(5)).Return(nil)

	resp, err := f.uc.Execute(context.Background(), &Request{Now: now, Grace: 5 * time.Minute})

	require.NoError(t, err)
	assert.Equal(t, &Response{Scanned: 5, Expired: 3, Reconciled: 1, Errors: 1}, resp)
	f.failer.AssertNotCalled(t, "Execute", mock.Anything, failReq(5))
	f.gateway.AssertExpectations(t)
	f.repo.AssertExpectations(t)
}

func TestExecute_PaidButCapacityGone(t *testing.T) {
	f := newFixture()
	f.repo.On("ListExpiredPending", mock.Anything, now, uint64(10)).Return([]*domain.Booking{pending(1, "cs_1")}, nil)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_1").
		Return(&payments.CheckoutSession{Status: payments.SessionStatusComplete, PaymentStatus: payments.PaymentStatusPaid}, nil)
	f.confirmer.On("Execute", mock.Anything, mock.Anything).Return(nil, confirm_booking.ErrSlotNotAvailable)

	resp, err := f.uc.Execute(context.Background(), &Request{Now: now, BatchSize: 10})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Expired)
	f.failer.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestExecute_ConfirmedConcurrently(t *testing.T) {
	f := newFixture()
	f.repo.On("ListExpiredPending", mock.Anything, now, uint64(DefaultBatchSize)).Return([]*domain.Booking{pending(1, "")}, nil)
	f.failer.On("Execute", mock.Anything, failReq(1)).Return(nil, fail_booking.ErrAlreadyConfirmed)

	resp, err := f.uc.Execute(context.Background(), &Request{Now: now})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Reconciled)
	f.gateway.AssertNotCalled(t, "GetCheckoutSession", mock.Anything, mock.Anything)
}

func TestExecute_OpenSessionExpireFails(t *testing.T) {
	f := newFixture()
	f.repo.On("ListExpiredPending", mock.Anything, now, uint64(DefaultBatchSize)).Return([]*domain.Booking{pending(1, "cs_1")}, nil)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_1").Return(&payments.CheckoutSession{Status: "open"}, nil)
	f.gateway.On("ExpireCheckoutSession", mock.Anything, "cs_1").Return(payments.ErrProvider)
	f.repo.On("Touch", mock.Anything, int64(1)).Return(nil)

	resp, err := f.uc.Execute(context.Background(), &Request{Now: now})

	require.NoError(t, err)
	assert.Equal(t, 1, resp.Errors)
	f.failer.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestExecute_SkippedBookingsAreRequeued(t *testing.T) {
	f := newFixture()
	f.repo.On("ListExpiredPending", mock.Anything, now, uint64(DefaultBatchSize)).
		Return([]*domain.Booking{pending(1, "cs_deferred"), pending(2, "cs_flaky")}, nil)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_deferred").
		Return(&payments.CheckoutSession{Status: payments.SessionStatusComplete, PaymentStatus: "unpaid"}, nil)
	f.gateway.On("GetCheckoutSession", mock.Anything, "cs_flaky").Return(nil, payments.ErrProvider)
	f.repo.On("Touch", mock.Anything, int64(1)).Return(nil)
	f.repo.On("Touch", mock.Anything, int64(2)).Return(errors.New("db down"))

	resp, err := f.uc.Execute(context.Background(), &Request{Now: now})

	require.NoError(t, err)
	assert.Equal(t, 2, resp.Errors)
	f.repo.AssertExpectations(t)
	f.failer.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestExecute_ListError(t *testing.T) {
	f := newFixture()
	f.repo.On("ListExpiredPending", mock.Anything, now, uint64(DefaultBatchSize)).Return(nil, errors.New("db down"))

	resp, err := f.uc.Execute(context.Background(), &Request{Now: now})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Nil(t, resp)
}

func TestExecute_InvalidInput(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Execute(context.Background(), &Request{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.uc.Execute(context.Background(), &Request{Now: now, Grace: -time.Second})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
