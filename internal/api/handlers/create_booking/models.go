package create_booking

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/Sauna-BookingService/internal/usecase/create_booking"
	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	CustomerName  string  `json:"customerName" validate:"required,max=100"`
	CustomerEmail string  `json:"customerEmail" validate:"required,email"`
	CustomerPhone *string `json:"customerPhone,omitempty" validate:"omitempty,max=30"`
	Date          string  `json:"date" validate:"required,datetime=2006-01-02"` // "2025-10-15"
	StartTime     string  `json:"startTime" validate:"required,datetime=15:04"` // "19:00"
	Kind          string  `json:"kind" validate:"required,oneof=community private"`
	PartySize     int     `json:"partySize" validate:"required,min=1,max=8"`
	WaiverID      int64   `json:"waiverId" validate:"required,min=1"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// CreateBookingResponse HTTP response model
type CreateBookingResponse struct {
	Booking           *models.BookingResponse `json:"booking"`
	RequiresPayment   bool                    `json:"requiresPayment"`
	CheckoutURL       string                  `json:"checkoutUrl,omitempty"`
	CheckoutSessionID string                  `json:"checkoutSessionId,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(accountID *string, location *time.Location) (*createBooking.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, r.Date, location)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		Customer: domain.Customer{
			Name:      r.CustomerName,
			Email:     r.CustomerEmail,
			Phone:     r.CustomerPhone,
			AccountID: accountID,
		},
		Date:      date,
		StartTime: startTime,
		Kind:      domain.SessionKind(r.Kind),
		PartySize: r.PartySize,
		WaiverID:  r.WaiverID,
		Notes:     r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	return &CreateBookingResponse{
		Booking:           models.FromDomainBooking(resp.Booking),
		RequiresPayment:   resp.RequiresPayment,
		CheckoutURL:       resp.CheckoutURL,
		CheckoutSessionID: resp.CheckoutSessionID,
	}
}
