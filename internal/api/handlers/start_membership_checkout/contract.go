package start_membership_checkout

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/service/memberships/models"
)

type MembershipService interface {
	StartCheckout(ctx context.Context, req *models.StartCheckoutRequest) (*models.CheckoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
