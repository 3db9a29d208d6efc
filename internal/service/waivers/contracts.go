package waivers

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// WaiverRepository интерфейс репозитория отказов
type WaiverRepository interface {
	Create(ctx context.Context, w *domain.Waiver) (*domain.Waiver, error)
	GetByID(ctx context.Context, id int64) (*domain.Waiver, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
