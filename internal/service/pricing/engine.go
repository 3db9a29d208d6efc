// Package pricing computes booking prices in integer minor currency units.
package pricing

import (
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// MemberPolicy decides how an active membership changes the price.
type MemberPolicy string

const (
	// PolicyWaiver: community sessions are free for members, private sessions cost the base price.
	PolicyWaiver MemberPolicy = "waiver"
	// PolicyDiscount: percentage discount per session kind, rounded half up.
	PolicyDiscount MemberPolicy = "discount"
)

// Rates configures the engine.
type Rates struct {
	Currency                string
	PerPersonRate           int64
	PrivateRate             int64
	Policy                  MemberPolicy
	CommunityMemberDiscount int // percent, PolicyDiscount only
	PrivateMemberDiscount   int // percent, PolicyDiscount only
}

// Quote is the outcome of pricing one booking request.
type Quote struct {
	Amount     int64
	BaseAmount int64
	Currency   string
	IsMember   bool
}

// Engine is stateless and safe for concurrent use.
type Engine struct {
	rates Rates
}

func NewEngine(rates Rates) *Engine {
	if rates.Policy == "" {
		rates.Policy = PolicyWaiver
	}
	if rates.Currency == "" {
		rates.Currency = domain.DefaultCurrency
	}
	return &Engine{rates: rates}
}

// Currency returns the ISO currency code prices are expressed in.
func (e *Engine) Currency() string {
	return e.rates.Currency
}

// Price is the non-member price: per person for community, flat for private.
func (e *Engine) Price(kind domain.SessionKind, partySize int) (int64, error) {
	if partySize < domain.MinPartySize || partySize > domain.MaxPartySize {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPartySize, partySize)
	}

	switch kind {
	case domain.SessionCommunity:
		return e.rates.PerPersonRate * int64(partySize), nil
	case domain.SessionPrivate:
		return e.rates.PrivateRate, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownSessionKind, kind)
	}
}

// MemberPrice is the price for an active member under the configured policy.
func (e *Engine) MemberPrice(kind domain.SessionKind, partySize int) (int64, error) {
	base, err := e.Price(kind, partySize)
	if err != nil {
		return 0, err
	}

	switch e.rates.Policy {
	case PolicyDiscount:
		pct := e.rates.CommunityMemberDiscount
		if kind == domain.SessionPrivate {
			pct = e.rates.PrivateMemberDiscount
		}
		return applyDiscount(base, pct), nil
	default:
		if kind == domain.SessionCommunity {
			return 0, nil
		}
		return base, nil
	}
}

// Quote prices a request for the given membership (nil for guests).
func (e *Engine) Quote(kind domain.SessionKind, partySize int, m *domain.Membership, now time.Time) (Quote, error) {
	base, err := e.Price(kind, partySize)
	if err != nil {
		return Quote{}, err
	}

	q := Quote{Amount: base, BaseAmount: base, Currency: e.rates.Currency}
	if !IsActiveMember(m, now) {
		return q, nil
	}

	amount, err := e.MemberPrice(kind, partySize)
	if err != nil {
		return Quote{}, err
	}
	q.Amount = amount
	q.IsMember = true
	return q, nil
}

// IsActiveMember reports whether the membership grants access at now.
// The validity window is authoritative; the status field is not consulted.
// Lifetime memberships have no end. A missing start is treated as unbounded.
func IsActiveMember(m *domain.Membership, now time.Time) bool {
	if m == nil || m.Kind == domain.MembershipNone || !m.Kind.IsValid() {
		return false
	}
	if m.StartsAt != nil && now.Before(*m.StartsAt) {
		return false
	}
	if m.Kind == domain.MembershipLifetime {
		return true
	}
	return m.EndsAt != nil && now.Before(*m.EndsAt)
}

// applyDiscount rounds half up to the nearest minor unit.
func applyDiscount(base int64, pct int) int64 {
	if pct <= 0 {
		return base
	}
	if pct >= 100 {
		return 0
	}
	return (base*int64(100-pct) + 50) / 100
}
