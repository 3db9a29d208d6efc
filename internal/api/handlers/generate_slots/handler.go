package generate_slots

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	generateSlots "github.com/m04kA/Sauna-BookingService/internal/usecase/generate_slots"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
)

type Handler struct {
	useCase  GenerateSlotsUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase GenerateSlotsUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/admin/time-slots/generate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req GenerateSlotsRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /admin/time-slots/generate - Invalid request body: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequestBody)
			return
		}
	}
	if details := handlers.Validate(req); details != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(h.location)
	if err != nil {
		handlers.RespondBadRequest(w, msgValidationFailed)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, generateSlots.ErrInvalidInput):
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /admin/time-slots/generate - Failed to generate slots: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/time-slots/generate - Slots generated: created=%d, existing=%d",
		result.Created, result.Existing)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
