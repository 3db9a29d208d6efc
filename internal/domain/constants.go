package domain

// Capacity and party limits
const (
	DefaultMaxCapacity  = 8
	MinPartySize        = 1
	MaxPartySize        = 8
	DefaultHorizonDays  = 30
	MaxHorizonDays      = 365
	MaxNotesLength      = 500
	SlotDurationMinutes = 60
)

// Pricing defaults, minor currency units (cents)
const (
	DefaultCurrency          = "usd"
	DefaultPerPersonRate     = 2500
	DefaultPrivateRate       = 20000
	DefaultCheckoutTTLMinute = 30
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// ActiveStatuses statuses that hold capacity or await payment
var ActiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
}
