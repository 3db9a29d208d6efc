package send_inquiry

import (
	"errors"
	"net/http"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/service/notifications"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgDeliveryFailed     = "не удалось отправить сообщение, попробуйте позже"
	statusAccepted        = "accepted"
)

type Handler struct {
	service InquiryService
	logger  Logger
}

func NewHandler(service InquiryService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/inquiries
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SendInquiryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /inquiries - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details := handlers.Validate(req); details != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	if err := h.service.ForwardInquiry(r.Context(), req.ToInquiry()); err != nil {
		switch {
		case errors.Is(err, notifications.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, notifications.ErrDelivery):
			h.logger.Error("POST /inquiries - Delivery failed: %v", err)
			handlers.RespondBadGateway(w, msgDeliveryFailed)

		default:
			h.logger.Error("POST /inquiries - Failed to forward inquiry: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusAccepted, SendInquiryResponse{Status: statusAccepted})
}
