package models

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// MembershipResponse ответ с данными членства
type MembershipResponse struct {
	AccountID       string     `json:"accountId"`
	Email           string     `json:"email,omitempty"`
	Kind            string     `json:"kind"`
	Status          string     `json:"status"`
	StartsAt        *time.Time `json:"startsAt,omitempty"`
	EndsAt          *time.Time `json:"endsAt,omitempty"`
	IsActive        bool       `json:"isActive"`
	HasSubscription bool       `json:"hasSubscription"`
}

// MembershipListResponse список членств
type MembershipListResponse struct {
	Memberships []MembershipResponse `json:"memberships"`
	Total       int                  `json:"total"`
}

// CheckoutResponse ссылка на оформление подписки
type CheckoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// StartCheckoutRequest запрос на покупку членства
type StartCheckoutRequest struct {
	AccountID string
	Email     string
	Kind      domain.MembershipKind
}

// FromDomainMembership конвертирует domain модель в response
// active вычисляется вызывающим по окну действия
func FromDomainMembership(m *domain.Membership, active bool) MembershipResponse {
	return MembershipResponse{
		AccountID:       m.AccountID,
		Email:           m.Email,
		Kind:            string(m.Kind),
		Status:          string(m.Status),
		StartsAt:        m.StartsAt,
		EndsAt:          m.EndsAt,
		IsActive:        active,
		HasSubscription: m.StripeSubscriptionID != nil && *m.StripeSubscriptionID != "",
	}
}

// None ответ для аккаунта без членства
func None(accountID string) MembershipResponse {
	return MembershipResponse{
		AccountID: accountID,
		Kind:      string(domain.MembershipNone),
		Status:    string(domain.MembershipStatusNone),
	}
}
