package domain

import "time"

// CurrentWaiverVersion version of the liability waiver text customers sign
const CurrentWaiverVersion = "1.0"

// Waiver signed liability waiver; a booking must reference one
type Waiver struct {
	ID                    int64
	AccountID             *string
	Name                  string
	Email                 string
	Phone                 *string
	EmergencyContactName  *string
	EmergencyContactPhone *string
	Version               string
	Text                  string
	UserAgent             *string
	SignedAt              time.Time
}
