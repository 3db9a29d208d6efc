package domain

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// SessionKind type of sauna session
type SessionKind string

const (
	SessionCommunity SessionKind = "community"
	SessionPrivate   SessionKind = "private"
)

// IsValid reports whether the kind is known
func (k SessionKind) IsValid() bool {
	return k == SessionCommunity || k == SessionPrivate
}

// TimeSlot bookable (date, window, kind) unit with a capacity ceiling
type TimeSlot struct {
	ID              int64
	Date            time.Time
	StartTime       types.TimeString
	EndTime         types.TimeString
	Kind            SessionKind
	MaxCapacity     int
	CurrentBookings int
	IsAvailable     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SpotsRemaining free places left in the slot
func (s *TimeSlot) SpotsRemaining() int {
	if s.CurrentBookings >= s.MaxCapacity {
		return 0
	}
	return s.MaxCapacity - s.CurrentBookings
}

// Fits reports whether a party of the given size fits into remaining capacity
func (s *TimeSlot) Fits(partySize int) bool {
	return s.IsAvailable && s.CurrentBookings+partySize <= s.MaxCapacity
}

// HourWindow one entry of a daily schedule
type HourWindow struct {
	Start types.TimeString
	End   types.TimeString
}

// AvailableSlot candidate returned to callers looking for a place
type AvailableSlot struct {
	SlotID         *int64 // nil for private windows that have no row yet
	Date           time.Time
	StartTime      types.TimeString
	EndTime        types.TimeString
	Kind           SessionKind
	MaxCapacity    int
	SpotsRemaining int
}

// SlotFilter admin listing filter
type SlotFilter struct {
	From time.Time
	To   time.Time
	Kind *SessionKind
}
