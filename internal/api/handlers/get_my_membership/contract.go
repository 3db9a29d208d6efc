package get_my_membership

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/service/memberships/models"
)

type MembershipService interface {
	GetForAccount(ctx context.Context, accountID string) (*models.MembershipResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
