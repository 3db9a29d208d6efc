package send_inquiry

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/service/notifications"
)

type InquiryService interface {
	ForwardInquiry(ctx context.Context, in notifications.Inquiry) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
