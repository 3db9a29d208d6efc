package domain

import "time"

// MembershipKind membership plan
type MembershipKind string

const (
	MembershipNone     MembershipKind = "none"
	MembershipMonthly  MembershipKind = "monthly"
	MembershipAnnual   MembershipKind = "annual"
	MembershipLifetime MembershipKind = "lifetime"
)

// IsValid reports whether the kind is known
func (k MembershipKind) IsValid() bool {
	switch k {
	case MembershipNone, MembershipMonthly, MembershipAnnual, MembershipLifetime:
		return true
	}
	return false
}

// MembershipStatus billing status, display only
type MembershipStatus string

const (
	MembershipStatusNone      MembershipStatus = "none"
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusCancelled MembershipStatus = "cancelled"
	MembershipStatusPastDue   MembershipStatus = "past_due"
)

// Membership recurring-billing entitlement of an account
type Membership struct {
	ID                   int64
	AccountID            string
	Email                string
	Kind                 MembershipKind
	Status               MembershipStatus
	StartsAt             *time.Time
	EndsAt               *time.Time // nil for lifetime
	StripeCustomerID     *string
	StripeSubscriptionID *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// MembershipPurchase audit row of a completed membership checkout
type MembershipPurchase struct {
	ID                int64
	AccountID         string
	Kind              MembershipKind
	Amount            int64
	Currency          string
	CheckoutSessionID string
	SubscriptionID    *string
	CreatedAt         time.Time
}
