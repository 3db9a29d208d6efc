package generate_slots

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	generateSlots "github.com/m04kA/Sauna-BookingService/internal/usecase/generate_slots"
)

// GenerateSlotsRequest HTTP request model, все поля необязательны
type GenerateSlotsRequest struct {
	DaysAhead int    `json:"daysAhead,omitempty" validate:"min=0,max=365"`
	From      string `json:"from,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// GenerateSlotsResponse HTTP response model
type GenerateSlotsResponse struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Created  int64  `json:"created"`
	Existing int64  `json:"existing"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *GenerateSlotsRequest) ToUseCaseRequest(location *time.Location) (*generateSlots.Request, error) {
	req := &generateSlots.Request{DaysAhead: r.DaysAhead}
	if r.From != "" {
		from, err := time.ParseInLocation(domain.DateFormat, r.From, location)
		if err != nil {
			return nil, err
		}
		req.From = from
	}
	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *generateSlots.Response) *GenerateSlotsResponse {
	return &GenerateSlotsResponse{
		From:     resp.From.Format(domain.DateFormat),
		To:       resp.To.Format(domain.DateFormat),
		Created:  resp.Created,
		Existing: resp.Existing,
	}
}
