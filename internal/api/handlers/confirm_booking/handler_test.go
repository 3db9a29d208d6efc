package confirm_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	confirmBooking "github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
)

type MockUseCase struct {
	mock.Mock
}

func (m *MockUseCase) Execute(ctx context.Context, req *confirmBooking.Request) (*confirmBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*confirmBooking.Response)
	return resp, args.Error(1)
}

type MockLogger struct{}

func (MockLogger) Info(format string, v ...interface{})  {}
func (MockLogger) Warn(format string, v ...interface{})  {}
func (MockLogger) Error(format string, v ...interface{}) {}

func serve(uc ConfirmBookingUseCase, url string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/bookings/{bookingId}/confirm", NewHandler(uc, MockLogger{}).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, url, nil))
	return rec
}

func TestHandle_ManualConfirmIsUnpaid(t *testing.T) {
	uc := new(MockUseCase)
	uc.On("Execute", mock.Anything, &confirmBooking.Request{BookingID: 9}).
		Return(&confirmBooking.Response{Booking: &domain.Booking{ID: 9, Status: domain.StatusConfirmed}}, nil)

	rec := serve(uc, "/api/v1/admin/bookings/9/confirm")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", confirmBooking.ErrBookingNotFound, http.StatusNotFound},
		{"full", confirmBooking.ErrSlotNotAvailable, http.StatusConflict},
		{"cancelled", confirmBooking.ErrBookingCancelled, http.StatusConflict},
		{"internal", confirmBooking.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := new(MockUseCase)
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			assert.Equal(t, tt.status, serve(uc, "/api/v1/admin/bookings/9/confirm").Code)
		})
	}
}
