package models

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// SignRequest данные подписи отказа
type SignRequest struct {
	AccountID             *string
	Name                  string
	Email                 string
	Phone                 *string
	EmergencyContactName  string
	EmergencyContactPhone string
	UserAgent             *string
	Agreed                bool
}

// WaiverResponse подписанный отказ
type WaiverResponse struct {
	ID       int64     `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Version  string    `json:"version"`
	SignedAt time.Time `json:"signedAt"`
}

// TextResponse актуальная версия текста для показа перед подписью
type TextResponse struct {
	Version string `json:"version"`
	Text    string `json:"text"`
}

// FromDomainWaiver конвертирует domain модель в response
func FromDomainWaiver(w *domain.Waiver) *WaiverResponse {
	return &WaiverResponse{
		ID:       w.ID,
		Name:     w.Name,
		Email:    w.Email,
		Version:  w.Version,
		SignedAt: w.SignedAt,
	}
}
