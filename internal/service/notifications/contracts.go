package notifications

import (
	"context"

	"github.com/m04kA/Sauna-BookingService/internal/integrations/mailer"
)

// Mailer интерфейс клиента отправки писем
type Mailer interface {
	Send(ctx context.Context, msg mailer.Message) (string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
