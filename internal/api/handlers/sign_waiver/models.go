package sign_waiver

import (
	"github.com/m04kA/Sauna-BookingService/internal/service/waivers/models"
	"github.com/m04kA/Sauna-BookingService/pkg/ptr"
)

// SignWaiverRequest HTTP request model
type SignWaiverRequest struct {
	Name                  string  `json:"name" validate:"required,max=255"`
	Email                 string  `json:"email" validate:"required,email,max=255"`
	Phone                 *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	EmergencyContactName  string  `json:"emergencyContactName" validate:"required,max=255"`
	EmergencyContactPhone string  `json:"emergencyContactPhone" validate:"required,max=32"`
	Agreed                bool    `json:"agreed"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *SignWaiverRequest) ToServiceRequest(accountID *string, userAgent string) *models.SignRequest {
	req := &models.SignRequest{
		AccountID:             accountID,
		Name:                  r.Name,
		Email:                 r.Email,
		Phone:                 r.Phone,
		EmergencyContactName:  r.EmergencyContactName,
		EmergencyContactPhone: r.EmergencyContactPhone,
		Agreed:                r.Agreed,
	}
	if userAgent != "" {
		req.UserAgent = ptr.Ptr(userAgent)
	}
	return req
}
