package fail_booking

import "github.com/m04kA/Sauna-BookingService/internal/domain"

// Request запрос на отметку неуспешной оплаты, задаётся BookingID или CheckoutSessionID
type Request struct {
	BookingID         int64
	CheckoutSessionID string
	Reason            string // для логов: expired, payment_failed, checkout_error
}

// Response результат операции
type Response struct {
	Booking       *domain.Booking
	AlreadyClosed bool // бронирование уже было отменено
}
