package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

type MockChecker struct {
	mock.Mock
}

func (m *MockChecker) ListAvailable(ctx context.Context, date time.Time, kind domain.SessionKind) ([]domain.AvailableSlot, error) {
	args := m.Called(ctx, date, kind)
	s, _ := args.Get(0).([]domain.AvailableSlot)
	return s, args.Error(1)
}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

type MockLogger struct{}

func (MockLogger) Info(string, ...interface{})  {}
func (MockLogger) Warn(string, ...interface{})  {}
func (MockLogger) Error(string, ...interface{}) {}

var (
	now  = time.Date(2024, 7, 1, 10, 0, 0, 0, time.UTC)
	date = time.Date(2024, 7, 2, 0, 0, 0, 0, time.UTC)
)

func newUseCase(c *MockChecker) *UseCase {
	return NewUseCase(c, 30, time.UTC, MockLogger{}).WithTimeProvider(fixedTime(now))
}

func TestExecute_FiltersByPartySize(t *testing.T) {
	checker := new(MockChecker)
	checker.On("ListAvailable", mock.Anything, date, domain.SessionCommunity).Return([]domain.AvailableSlot{
		{SlotID: ptr.Ptr(int64(1)), StartTime: "19:00", EndTime: "20:00", Kind: domain.SessionCommunity, MaxCapacity: 8, SpotsRemaining: 2},
		{SlotID: ptr.Ptr(int64(2)), StartTime: "20:00", EndTime: "21:00", Kind: domain.SessionCommunity, MaxCapacity: 8, SpotsRemaining: 5},
	}, nil)

	resp, err := newUseCase(checker).Execute(context.Background(), &Request{Date: date, Kind: domain.SessionCommunity, PartySize: 3})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Equal(t, types.TimeString("20:00"), resp.Slots[0].StartTime)
	assert.Equal(t, 60, resp.Slots[0].DurationMinutes)
	assert.Equal(t, 5, resp.Slots[0].AvailableSpots)
}

func TestExecute_PrivateIgnoresPartyFilter(t *testing.T) {
	checker := new(MockChecker)
	checker.On("ListAvailable", mock.Anything, date, domain.SessionPrivate).Return([]domain.AvailableSlot{
		{StartTime: "07:00", EndTime: "08:00", Kind: domain.SessionPrivate, MaxCapacity: 8, SpotsRemaining: 8},
	}, nil)

	resp, err := newUseCase(checker).Execute(context.Background(), &Request{Date: date, Kind: domain.SessionPrivate, PartySize: 8})

	require.NoError(t, err)
	require.Len(t, resp.Slots, 1)
	assert.Nil(t, resp.Slots[0].SlotID)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr error
	}{
		{"zero date", &Request{Kind: domain.SessionCommunity}, ErrInvalidInput},
		{"unknown kind", &Request{Date: date, Kind: "vip"}, ErrInvalidInput},
		{"party too large", &Request{Date: date, Kind: domain.SessionCommunity, PartySize: 9}, ErrInvalidInput},
		{"beyond horizon", &Request{Date: now.AddDate(0, 0, 31), Kind: domain.SessionCommunity}, ErrDateTooFarInFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := new(MockChecker)
			_, err := newUseCase(checker).Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			checker.AssertNotCalled(t, "ListAvailable", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExecute_CheckerError(t *testing.T) {
	checker := new(MockChecker)
	checker.On("ListAvailable", mock.Anything, date, domain.SessionCommunity).Return(nil, errors.New("db down"))

	_, err := newUseCase(checker).Execute(context.Background(), &Request{Date: date, Kind: domain.SessionCommunity})

	assert.ErrorIs(t, err, ErrInternal)
}
