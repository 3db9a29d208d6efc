package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

var now = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func defaultRates() Rates {
	return Rates{
		Currency:                "usd",
		PerPersonRate:           2500,
		PrivateRate:             20000,
		Policy:                  PolicyWaiver,
		CommunityMemberDiscount: 50,
		PrivateMemberDiscount:   25,
	}
}

func monthly(start, end time.Time) *domain.Membership {
	return &domain.Membership{Kind: domain.MembershipMonthly, Status: domain.MembershipStatusActive, StartsAt: &start, EndsAt: &end}
}

func TestPrice_CommunityIsPerPerson(t *testing.T) {
	e := NewEngine(defaultRates())
	for p := 1; p <= 8; p++ {
		got, err := e.Price(domain.SessionCommunity, p)
		require.NoError(t, err)
		assert.Equal(t, int64(2500*p), got)
	}
}

func TestPrice_PrivateIsFlat(t *testing.T) {
	e := NewEngine(defaultRates())
	for p := 1; p <= 8; p++ {
		got, err := e.Price(domain.SessionPrivate, p)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), got)
	}
}

func TestPrice_RejectsPartySizeOutOfRange(t *testing.T) {
	e := NewEngine(defaultRates())
	_, err := e.Price(domain.SessionCommunity, 0)
	assert.ErrorIs(t, err, ErrInvalidPartySize)
	_, err = e.Price(domain.SessionPrivate, 9)
	assert.ErrorIs(t, err, ErrInvalidPartySize)
	_, err = e.Price("sauna-party", 2)
	assert.ErrorIs(t, err, ErrUnknownSessionKind)
}

func TestMemberPrice_NeverAboveBase(t *testing.T) {
	for _, policy := range []MemberPolicy{PolicyWaiver, PolicyDiscount} {
		rates := defaultRates()
		rates.Policy = policy
		e := NewEngine(rates)

		for _, kind := range []domain.SessionKind{domain.SessionCommunity, domain.SessionPrivate} {
			for p := 1; p <= 8; p++ {
				base, err := e.Price(kind, p)
				require.NoError(t, err)
				member, err := e.MemberPrice(kind, p)
				require.NoError(t, err)
				assert.LessOrEqual(t, member, base, "policy=%s kind=%s p=%d", policy, kind, p)
			}
		}
	}
}

func TestMemberPrice_Waiver(t *testing.T) {
	e := NewEngine(defaultRates())

	community, err := e.MemberPrice(domain.SessionCommunity, 4)
	require.NoError(t, err)
	assert.Zero(t, community)

	private, err := e.MemberPrice(domain.SessionPrivate, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), private)
}

func TestMemberPrice_DiscountRoundsHalfUp(t *testing.T) {
	rates := defaultRates()
	rates.Policy = PolicyDiscount
	rates.PerPersonRate = 2501
	e := NewEngine(rates)

	// 2501 * 50% = 1250.5 -> 1251
	got, err := e.MemberPrice(domain.SessionCommunity, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1251), got)

	got, err = e.MemberPrice(domain.SessionPrivate, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(15000), got)
}

func TestIsActiveMember(t *testing.T) {
	past := now.AddDate(0, -1, 0)
	future := now.AddDate(0, 1, 0)

	tests := []struct {
		name string
		m    *domain.Membership
		want bool
	}{
		{"nil", nil, false},
		{"none kind", &domain.Membership{Kind: domain.MembershipNone, EndsAt: &future}, false},
		{"within window", monthly(past, future), true},
		{"window lapsed but status active", monthly(past.AddDate(0, -1, 0), past), false},
		{"end is exclusive", monthly(past, now), false},
		{"not yet started", monthly(future, future.AddDate(0, 1, 0)), false},
		{"cancelled status within window", func() *domain.Membership {
			m := monthly(past, future)
			m.Status = domain.MembershipStatusCancelled
			return m
		}(), true},
		{"lifetime without end", &domain.Membership{Kind: domain.MembershipLifetime, StartsAt: &past}, true},
		{"annual without end", &domain.Membership{Kind: domain.MembershipAnnual, StartsAt: &past}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsActiveMember(tt.m, now))
		})
	}
}

func TestQuote(t *testing.T) {
	e := NewEngine(defaultRates())

	guest, err := e.Quote(domain.SessionCommunity, 3, nil, now)
	require.NoError(t, err)
	assert.Equal(t, Quote{Amount: 7500, BaseAmount: 7500, Currency: "usd"}, guest)

	member, err := e.Quote(domain.SessionCommunity, 3, monthly(now.AddDate(0, 0, -1), now.AddDate(0, 0, 29)), now)
	require.NoError(t, err)
	assert.Equal(t, Quote{Amount: 0, BaseAmount: 7500, Currency: "usd", IsMember: true}, member)

	lapsed, err := e.Quote(domain.SessionCommunity, 3, monthly(now.AddDate(0, -2, 0), now.AddDate(0, -1, 0)), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7500), lapsed.Amount)
	assert.False(t, lapsed.IsMember)
}
