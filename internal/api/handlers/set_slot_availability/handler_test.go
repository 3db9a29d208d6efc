package set_slot_availability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/Sauna-BookingService/internal/service/slots"
	"github.com/m04kA/Sauna-BookingService/internal/service/slots/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) SetAvailability(ctx context.Context, id int64, available bool) (*models.SlotResponse, error) {
	args := m.Called(ctx, id, available)
	resp, _ := args.Get(0).(*models.SlotResponse)
	return resp, args.Error(1)
}

type MockLogger struct{}

func (MockLogger) Info(format string, v ...interface{})  {}
func (MockLogger) Warn(format string, v ...interface{})  {}
func (MockLogger) Error(format string, v ...interface{}) {}

func serve(svc SlotService, url, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/admin/time-slots/{slotId}/availability", NewHandler(svc, MockLogger{}).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, url, strings.NewReader(body)))
	return rec
}

func TestHandle(t *testing.T) {
	svc := new(MockService)
	svc.On("SetAvailability", mock.Anything, int64(4), false).Return(&models.SlotResponse{ID: 4}, nil)
	svc.On("SetAvailability", mock.Anything, int64(5), true).Return(nil, slots.ErrSlotNotFound)

	assert.Equal(t, http.StatusOK, serve(svc, "/api/v1/admin/time-slots/4/availability", `{"isAvailable":false}`).Code)
	assert.Equal(t, http.StatusNotFound, serve(svc, "/api/v1/admin/time-slots/5/availability", `{"isAvailable":true}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/v1/admin/time-slots/4/availability", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(svc, "/api/v1/admin/time-slots/x/availability", `{"isAvailable":true}`).Code)
}
