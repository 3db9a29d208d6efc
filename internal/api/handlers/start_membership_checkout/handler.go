package start_membership_checkout

import (
	"errors"
	"net/http"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/api/middleware"
	"github.com/m04kA/Sauna-BookingService/internal/service/memberships"
)

const (
	msgUnauthorized       = "требуется авторизация"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgAlreadyMember      = "членство уже активно"
	msgUnknownPlan        = "неизвестный план членства"
	msgPaymentProvider    = "платежный сервис недоступен, попробуйте позже"
)

type Handler struct {
	service MembershipService
	logger  Logger
}

func NewHandler(service MembershipService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/memberships/checkout
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	var req StartCheckoutRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /memberships/checkout - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details := handlers.Validate(req); details != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	result, err := h.service.StartCheckout(r.Context(), req.ToServiceRequest(accountID))
	if err != nil {
		switch {
		case errors.Is(err, memberships.ErrAlreadyMember):
			handlers.RespondConflict(w, msgAlreadyMember)

		case errors.Is(err, memberships.ErrUnknownPlan):
			handlers.RespondBadRequest(w, msgUnknownPlan)

		case errors.Is(err, memberships.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, memberships.ErrPaymentProvider):
			h.logger.Error("POST /memberships/checkout - Payment provider error: account=%s, error=%v", accountID, err)
			handlers.RespondBadGateway(w, msgPaymentProvider)

		default:
			h.logger.Error("POST /memberships/checkout - Failed to start checkout: account=%s, error=%v", accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /memberships/checkout - Checkout started: account=%s, session=%s", accountID, result.SessionID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
