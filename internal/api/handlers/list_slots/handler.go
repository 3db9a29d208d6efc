package list_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/service/slots"
	"github.com/m04kA/Sauna-BookingService/internal/service/slots/models"
)

const (
	msgInvalidParams = "параметры from и to обязательны в формате YYYY-MM-DD"
)

type Handler struct {
	service  SlotService
	location *time.Location
	logger   Logger
}

func NewHandler(service SlotService, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		service:  service,
		location: location,
		logger:   logger,
	}
}

// Handle GET /api/v1/admin/time-slots?from=2025-10-01&to=2025-10-31&kind=community
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, errFrom := time.ParseInLocation(domain.DateFormat, query.Get("from"), h.location)
	to, errTo := time.ParseInLocation(domain.DateFormat, query.Get("to"), h.location)
	if errFrom != nil || errTo != nil {
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	req := &models.ListSlotsRequest{From: from, To: to}
	if kind := query.Get("kind"); kind != "" {
		req.Kind = &kind
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, slots.ErrInvalidInput):
			h.logger.Warn("GET /admin/time-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /admin/time-slots - Failed to list slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
