package get_available_slots

import (
	"fmt"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if !req.Kind.IsValid() {
		return fmt.Errorf("%w: kind must be community or private", ErrInvalidInput)
	}

	if req.PartySize != 0 && (req.PartySize < domain.MinPartySize || req.PartySize > domain.MaxPartySize) {
		return fmt.Errorf("%w: party size must be between %d and %d",
			ErrInvalidInput, domain.MinPartySize, domain.MaxPartySize)
	}

	return nil
}

// validateDate проверяет, что дата не дальше горизонта расписания
func validateDate(requestDate time.Time, now time.Time, horizonDays int) error {
	// Если horizonDays = 0, нет ограничений на дату
	if horizonDays == 0 {
		return nil
	}

	maxDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).
		AddDate(0, 0, horizonDays)

	requestDateOnly := time.Date(requestDate.Year(), requestDate.Month(), requestDate.Day(), 0, 0, 0, 0, time.UTC)

	if requestDateOnly.After(maxDate) {
		return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, horizonDays)
	}

	return nil
}
