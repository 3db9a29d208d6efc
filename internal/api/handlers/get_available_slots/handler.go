package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/domain"
	getAvailableSlots "github.com/m04kA/Sauna-BookingService/internal/usecase/get_available_slots"
)

const (
	msgMissingDate      = "параметр date обязателен"
	msgInvalidDate      = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidKind      = "параметр kind должен быть community или private"
	msgInvalidPartySize = "некорректный размер группы"
	msgDateTooFar       = "дата слишком далеко в будущем"
)

type Handler struct {
	useCase  GetAvailableSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/time-slots?date=2025-10-15&kind=community&partySize=2
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, h.location)
	if err != nil {
		h.logger.Warn("GET /time-slots - Invalid date: %s", dateStr)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	kind := domain.SessionCommunity
	if raw := query.Get("kind"); raw != "" {
		kind = domain.SessionKind(raw)
		if !kind.IsValid() {
			handlers.RespondBadRequest(w, msgInvalidKind)
			return
		}
	}

	partySize := 0
	if raw := query.Get("partySize"); raw != "" {
		partySize, err = strconv.Atoi(raw)
		if err != nil || partySize < 0 {
			handlers.RespondBadRequest(w, msgInvalidPartySize)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		Date:      date,
		Kind:      kind,
		PartySize: partySize,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /time-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /time-slots - Failed to get available slots: date=%s, kind=%s, error=%v",
				dateStr, kind, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
