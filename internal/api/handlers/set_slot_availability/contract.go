package set_slot_availability

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/service/slots/models"
)

type SlotService interface {
	SetAvailability(ctx context.Context, id int64, available bool) (*models.SlotResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
