package send_inquiry

import (
	"github.com/m04kA/Sauna-BookingService/internal/service/notifications"
)

// SendInquiryRequest HTTP request model формы контактов и мероприятий
type SendInquiryRequest struct {
	Topic     string `json:"topic,omitempty" validate:"omitempty,oneof=contact event"`
	Name      string `json:"name" validate:"required,max=255"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Phone     string `json:"phone,omitempty" validate:"max=32"`
	Message   string `json:"message" validate:"required,max=5000"`
	EventDate string `json:"eventDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GroupSize int    `json:"groupSize,omitempty" validate:"min=0,max=200"`
}

// SendInquiryResponse HTTP response model
type SendInquiryResponse struct {
	Status string `json:"status"`
}

// ToInquiry конвертирует HTTP запрос в модель уведомления
func (r *SendInquiryRequest) ToInquiry() notifications.Inquiry {
	return notifications.Inquiry{
		Topic:     notifications.InquiryTopic(r.Topic),
		Name:      r.Name,
		Email:     r.Email,
		Phone:     r.Phone,
		Message:   r.Message,
		EventDate: r.EventDate,
		GroupSize: r.GroupSize,
	}
}
