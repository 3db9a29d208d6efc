package get_my_membership

import (
	"net/http"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/api/middleware"
)

const (
	msgUnauthorized = "требуется авторизация"
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

// Handle GET /api/v1/memberships/me
// Аккаунт без членства получает kind=none, а не 404
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	accountID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgUnauthorized)
		return
	}

	result, err := h.service.GetForAccount(r.Context(), accountID)
	if err != nil {
		h.logger.Error("GET /memberships/me - Failed to get membership: account=%s, error=%v", accountID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
