package send_inquiry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/Sauna-BookingService/internal/service/notifications"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ForwardInquiry(ctx context.Context, in notifications.Inquiry) error {
	return m.Called(ctx, in).Error(0)
}

type MockLogger struct{}

func (MockLogger) Info(format string, v ...interface{})  {}
func (MockLogger) Warn(format string, v ...interface{})  {}
func (MockLogger) Error(format string, v ...interface{}) {}

const body = `{"topic":"event","name":"Jane","email":"jane@example.com","message":"Team offsite","eventDate":"2025-12-01","groupSize":14}`

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"accepted", body, nil, http.StatusAccepted},
		{"delivery", body, fmt.Errorf("%w: smtp down", notifications.ErrDelivery), http.StatusBadGateway},
		{"render", body, notifications.ErrRender, http.StatusInternalServerError},
		{"unknown topic", `{"topic":"spam","name":"J","email":"j@example.com","message":"m"}`, nil, http.StatusBadRequest},
		{"missing message", `{"name":"J","email":"j@example.com"}`, nil, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("ForwardInquiry", mock.Anything, mock.Anything).Return(tt.err)

			rec := httptest.NewRecorder()
			NewHandler(svc, MockLogger{}).Handle(rec,
				httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", strings.NewReader(tt.body)))

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_MapsEventFields(t *testing.T) {
	svc := new(MockService)
	svc.On("ForwardInquiry", mock.Anything, notifications.Inquiry{
		Topic:     notifications.TopicEvent,
		Name:      "Jane",
		Email:     "jane@example.com",
		Message:   "Team offsite",
		EventDate: "2025-12-01",
		GroupSize: 14,
	}).Return(nil)

	rec := httptest.NewRecorder()
	NewHandler(svc, MockLogger{}).Handle(rec,
		httptest.NewRequest(http.MethodPost, "/api/v1/inquiries", strings.NewReader(body)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	svc.AssertExpectations(t)
}
