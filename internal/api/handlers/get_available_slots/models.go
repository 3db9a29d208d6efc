package get_available_slots

import (
	"github.com/m04kA/Sauna-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/Sauna-BookingService/internal/usecase/get_available_slots"
)

// SlotResponse HTTP модель доступного окна
type SlotResponse struct {
	SlotID          *int64 `json:"slotId,omitempty"`
	StartTime       string `json:"startTime"`
	EndTime         string `json:"endTime"`
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
}

// AvailableSlotsResponse HTTP ответ
type AvailableSlotsResponse struct {
	Date  string         `json:"date"`
	Kind  string         `json:"kind"`
	Slots []SlotResponse `json:"slots"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:  resp.Date.Format(domain.DateFormat),
		Kind:  string(resp.Kind),
		Slots: make([]SlotResponse, 0, len(resp.Slots)),
	}
	for _, s := range resp.Slots {
		out.Slots = append(out.Slots, SlotResponse{
			SlotID:          s.SlotID,
			StartTime:       s.StartTime.String(),
			EndTime:         s.EndTime.String(),
			DurationMinutes: s.DurationMinutes,
			AvailableSpots:  s.AvailableSpots,
			TotalSpots:      s.TotalSpots,
		})
	}
	return out
}
