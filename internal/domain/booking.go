package domain

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// PaymentStatus represents the payment lifecycle of a booking
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// Customer identity attached to a booking
type Customer struct {
	Name      string
	Email     string
	Phone     *string
	AccountID *string // linked account from the identity provider
}

// Booking represents a reservation against a TimeSlot
type Booking struct {
	ID            int64
	TimeSlotID    int64
	Customer      Customer
	Kind          SessionKind
	PartySize     int
	Status        BookingStatus
	PaymentStatus PaymentStatus
	TotalAmount   int64
	Currency      string
	IsMember      bool
	Notes         *string
	WaiverID      *int64

	CheckoutSessionID *string
	CheckoutExpiresAt *time.Time
	PaymentIntentID   *string

	// Slot data joined on reads
	SlotDate      time.Time
	SlotStartTime types.TimeString
	SlotEndTime   types.TimeString

	CancelledAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsPending returns true while the booking awaits payment
func (b *Booking) IsPending() bool {
	return b.Status == StatusPending
}

// IsConfirmed returns true if the booking holds capacity
func (b *Booking) IsConfirmed() bool {
	return b.Status == StatusConfirmed
}

// CanBeCancelled returns true if the booking can still be cancelled
func (b *Booking) CanBeCancelled() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}

// IsPaid returns true if money was captured and not returned
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentPaid && b.TotalAmount > 0
}

// BookingsFilter admin listing filter
type BookingsFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Status    *BookingStatus
	Kind      *SessionKind
	Email     *string
	Limit     uint64
	Offset    uint64
}

// StatusTransition conditional status update: applied only if the current status matches From
type StatusTransition struct {
	From          BookingStatus
	To            BookingStatus
	PaymentStatus PaymentStatus
}
