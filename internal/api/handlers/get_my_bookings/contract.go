package get_my_bookings

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	GetAccountBookings(ctx context.Context, accountID string) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
