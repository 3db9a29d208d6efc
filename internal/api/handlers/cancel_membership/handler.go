package cancel_membership

import (
	"errors"
	"net/http"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/api/middleware"
	"github.com/m04kA/Sauna-BookingService/internal/service/memberships"
)

const (
	msgUnauthorized    = "требуется авторизация"
	msgNotFound        = "членство не найдено"
	msgNoSubscription  = "нет активной подписки для отмены"
	msgPaymentProvider = "платежный сервис недоступен, попробуйте позже"
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

// Handle POST /api/v1/memberships/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.CancelAtPeriodEnd(r.Context(), accountID)
	if err != nil {
		switch {
		case errors.Is(err, memberships.ErrMembershipNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, memberships.ErrNoSubscription):
			handlers.RespondConflict(w, msgNoSubscription)

		case errors.Is(err, memberships.ErrPaymentProvider):
			h.logger.Error("POST /memberships/cancel - Payment provider error: account=%s, error=%v", accountID, err)
			handlers.RespondBadGateway(w, msgPaymentProvider)

		default:
			h.logger.Error("POST /memberships/cancel - Failed to cancel: account=%s, error=%v", accountID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /memberships/cancel - Membership cancelled at period end: account=%s", accountID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
