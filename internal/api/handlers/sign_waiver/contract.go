package sign_waiver

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/service/waivers/models"
)

type WaiverService interface {
	Sign(ctx context.Context, req *models.SignRequest) (*models.WaiverResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
