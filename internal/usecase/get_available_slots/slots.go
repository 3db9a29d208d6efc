package get_available_slots

import (
	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// toSlots отбрасывает окна, в которые не помещается группа, и приводит к модели ответа
func toSlots(available []domain.AvailableSlot, partySize int) []Slot {
	slots := make([]Slot, 0, len(available))
	for _, a := range available {
		if partySize > 0 && a.Kind == domain.SessionCommunity && a.SpotsRemaining < partySize {
			continue
		}
		slots = append(slots, Slot{
			SlotID:          a.SlotID,
			StartTime:       a.StartTime,
			EndTime:         a.EndTime,
			DurationMinutes: durationMinutes(a),
			AvailableSpots:  a.SpotsRemaining,
			TotalSpots:      a.MaxCapacity,
		})
	}
	return slots
}

func durationMinutes(a domain.AvailableSlot) int {
	start, err := a.StartTime.Minutes()
	if err != nil {
		return domain.SlotDurationMinutes
	}
	end, err := a.EndTime.Minutes()
	if err != nil || end <= start {
		return domain.SlotDurationMinutes
	}
	return end - start
}
