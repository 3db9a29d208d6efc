package start_membership_checkout

import (
	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/service/memberships/models"
)

// StartCheckoutRequest HTTP request model
type StartCheckoutRequest struct {
	Kind  string `json:"kind" validate:"required,oneof=monthly annual"`
	Email string `json:"email" validate:"required,email,max=255"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *StartCheckoutRequest) ToServiceRequest(accountID string) *models.StartCheckoutRequest {
	return &models.StartCheckoutRequest{
		AccountID: accountID,
		Email:     r.Email,
		Kind:      domain.MembershipKind(r.Kind),
	}
}
