package get_checkout_booking

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/service/bookings"
)

const (
	msgInvalidSessionID = "некорректный ID платежной сессии"
	msgNotFound         = "бронирование не найдено"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/checkout-sessions/{sessionId}/booking
// Страница после оплаты показывает итог бронирования
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if !strings.HasPrefix(sessionID, "cs_") {
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	booking, err := h.service.GetByCheckoutSession(r.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidSessionID)

		default:
			h.logger.Error("GET /checkout-sessions/{id}/booking - Failed to get booking: session_id=%s, error=%v",
				sessionID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, booking)
}
