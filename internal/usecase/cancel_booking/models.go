package cancel_booking

import "github.com/m04kA/Sauna-BookingService/internal/domain"

// Request запрос на отмену бронирования
type Request struct {
	BookingID int64
	Refund    bool // вернуть оплату, если бронирование оплачено
}

// Response результат отмены
type Response struct {
	Booking       *domain.Booking
	ReleasedSpots int  // сколько мест вернулось в слот
	Refunded      bool // возврат выполнен
	WasConfirmed  bool
}
