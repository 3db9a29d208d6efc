package get_checkout_booking

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetByCheckoutSession(ctx context.Context, sessionID string) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
