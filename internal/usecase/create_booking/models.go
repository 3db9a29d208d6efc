package create_booking

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// Request модель запроса на создание бронирования
type Request struct {
	Customer  domain.Customer    // AccountID задан для авторизованного пользователя
	Date      time.Time          // Дата сессии (без времени)
	StartTime types.TimeString   // Начало окна, например "19:00"
	Kind      domain.SessionKind // community | private
	PartySize int
	WaiverID  int64
	Notes     *string
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking           *domain.Booking
	CheckoutURL       string // пусто, если оплата не нужна
	CheckoutSessionID string
	RequiresPayment   bool
}
