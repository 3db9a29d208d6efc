package confirm_booking

import "github.com/m04kA/Sauna-BookingService/internal/domain"

// Request запрос на подтверждение, задаётся либо BookingID, либо CheckoutSessionID
type Request struct {
	BookingID         int64
	CheckoutSessionID string
	PaymentIntentID   string
	Paid              bool // деньги получены провайдером, при отказе нужен возврат
}

// Response результат подтверждения
type Response struct {
	Booking          *domain.Booking
	AlreadyConfirmed bool
}
