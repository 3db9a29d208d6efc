package get_waiver_text

import (
	"net/http"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/service/waivers/models"
)

type WaiverService interface {
	Text() *models.TextResponse
}

type Handler struct {
	service WaiverService
}

func NewHandler(service WaiverService) *Handler {
	return &Handler{service: service}
}

// Handle GET /api/v1/waivers/current
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=300")
	handlers.RespondJSON(w, http.StatusOK, h.service.Text())
}
