package cancel_booking

import (
	"github.com/m04kA/Sauna-BookingService/internal/service/bookings/models"
	cancelBooking "github.com/m04kA/Sauna-BookingService/internal/usecase/cancel_booking"
)

// CancelBookingRequest HTTP request model, тело необязательно
type CancelBookingRequest struct {
	Refund *bool `json:"refund,omitempty"` // по умолчанию true
}

// CancelBookingResponse HTTP response model
type CancelBookingResponse struct {
	Booking       *models.BookingResponse `json:"booking"`
	ReleasedSpots int                     `json:"releasedSpots"`
	Refunded      bool                    `json:"refunded"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CancelBookingRequest) ToUseCaseRequest(bookingID int64) *cancelBooking.Request {
	refund := true
	if r.Refund != nil {
		refund = *r.Refund
	}
	return &cancelBooking.Request{BookingID: bookingID, Refund: refund}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *cancelBooking.Response) *CancelBookingResponse {
	return &CancelBookingResponse{
		Booking:       models.FromDomainBooking(resp.Booking),
		ReleasedSpots: resp.ReleasedSpots,
		Refunded:      resp.Refunded,
	}
}
