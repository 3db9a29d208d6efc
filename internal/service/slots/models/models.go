package models

import (
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// ListSlotsRequest фильтр списка слотов
type ListSlotsRequest struct {
	From time.Time
	To   time.Time
	Kind *string
}

// CreateSlotRequest запрос на создание одного слота
type CreateSlotRequest struct {
	Date        string `json:"date" validate:"required"`      // "2025-10-15"
	StartTime   string `json:"startTime" validate:"required"` // "19:00"
	EndTime     string `json:"endTime" validate:"required"`
	Kind        string `json:"kind" validate:"required,oneof=community private"`
	MaxCapacity int    `json:"maxCapacity" validate:"required,min=1,max=50"`
}

// SlotResponse данные слота
type SlotResponse struct {
	ID              int64     `json:"id"`
	Date            string    `json:"date"`
	StartTime       string    `json:"startTime"`
	EndTime         string    `json:"endTime"`
	Kind            string    `json:"kind"`
	MaxCapacity     int       `json:"maxCapacity"`
	CurrentBookings int       `json:"currentBookings"`
	SpotsRemaining  int       `json:"spotsRemaining"`
	IsAvailable     bool      `json:"isAvailable"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// SlotListResponse список слотов
type SlotListResponse struct {
	Slots []SlotResponse `json:"slots"`
}

// FromDomainSlot конвертирует domain модель в DTO
func FromDomainSlot(s *domain.TimeSlot) *SlotResponse {
	if s == nil {
		return nil
	}
	return &SlotResponse{
		ID:              s.ID,
		Date:            s.Date.Format(domain.DateFormat),
		StartTime:       s.StartTime.String(),
		EndTime:         s.EndTime.String(),
		Kind:            string(s.Kind),
		MaxCapacity:     s.MaxCapacity,
		CurrentBookings: s.CurrentBookings,
		SpotsRemaining:  s.SpotsRemaining(),
		IsAvailable:     s.IsAvailable,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// FromDomainSlotList конвертирует список domain моделей в DTO
func FromDomainSlotList(slots []*domain.TimeSlot) *SlotListResponse {
	resp := &SlotListResponse{Slots: make([]SlotResponse, 0, len(slots))}
	for _, s := range slots {
		resp.Slots = append(resp.Slots, *FromDomainSlot(s))
	}
	return resp
}
