package cancel_membership

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/Sauna-BookingService/internal/api/middleware"
	"github.com/m04kA/Sauna-BookingService/internal/service/memberships"
	"github.com/m04kA/Sauna-BookingService/internal/service/memberships/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) CancelAtPeriodEnd(ctx context.Context, accountID string) (*models.MembershipResponse, error) {
	args := m.Called(ctx, accountID)
	resp, _ := args.Get(0).(*models.MembershipResponse)
	return resp, args.Error(1)
}

type MockLogger struct{}

func (MockLogger) Info(format string, v ...interface{})  {}
func (MockLogger) Warn(format string, v ...interface{})  {}
func (MockLogger) Error(format string, v ...interface{}) {}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		resp   *models.MembershipResponse
		err    error
		status int
	}{
		{"cancelled", &models.MembershipResponse{AccountID: "acc-1", Status: "cancelled", IsActive: true}, nil, http.StatusOK},
		{"not found", nil, memberships.ErrMembershipNotFound, http.StatusNotFound},
		{"no subscription", nil, memberships.ErrNoSubscription, http.StatusConflict},
		{"provider", nil, memberships.ErrPaymentProvider, http.StatusBadGateway},
		{"internal", nil, memberships.ErrInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("CancelAtPeriodEnd", mock.Anything, "acc-1").Return(tt.resp, tt.err)

			req := httptest.NewRequest(http.MethodPost, "/api/v1/memberships/cancel", nil)
			req.Header.Set(middleware.HeaderUserID, "acc-1")
			rec := httptest.NewRecorder()
			middleware.Auth(http.HandlerFunc(NewHandler(svc, MockLogger{}).Handle)).ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
