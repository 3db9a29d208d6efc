package sign_waiver

import (
	"errors"
	"net/http"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/api/middleware"
	"github.com/m04kA/Sauna-BookingService/internal/service/waivers"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgNotAgreed          = "необходимо принять условия отказа от ответственности"
)

type Handler struct {
	service WaiverService
	logger  Logger
}

func NewHandler(service WaiverService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/waivers
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SignWaiverRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /waivers - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details := handlers.Validate(req); details != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	var accountID *string
	if id, ok := middleware.GetUserID(r.Context()); ok {
		accountID = &id
	}

	result, err := h.service.Sign(r.Context(), req.ToServiceRequest(accountID, r.UserAgent()))
	if err != nil {
		switch {
		case errors.Is(err, waivers.ErrNotAgreed):
			handlers.RespondBadRequest(w, msgNotAgreed)

		case errors.Is(err, waivers.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /waivers - Failed to sign waiver: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waivers - Waiver signed: waiver_id=%d, version=%s", result.ID, result.Version)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
