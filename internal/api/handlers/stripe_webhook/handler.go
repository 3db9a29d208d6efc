package stripe_webhook

import (
	"errors"
	"io"
	"net/http"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	handlePaymentEvent "github.com/m04kA/Sauna-BookingService/internal/usecase/handle_payment_event"
)

const (
	maxPayloadBytes = 65536

	headerSignature = "Stripe-Signature"

	msgInvalidPayload   = "некорректное тело события"
	msgInvalidSignature = "некорректная подпись события"
	resultError         = "error"
	resultInvalid       = "invalid"
)

// WebhookResponse подтверждение приема события
type WebhookResponse struct {
	Received bool   `json:"received"`
	Action   string `json:"action"`
}

type Handler struct {
	useCase PaymentEventUseCase
	metrics Metrics
	logger  Logger
}

func NewHandler(useCase PaymentEventUseCase, metrics Metrics, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		metrics: metrics,
		logger:  logger,
	}
}

// Handle POST /api/v1/webhooks/stripe
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		h.logger.Warn("POST /webhooks/stripe - Failed to read body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPayload)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &handlePaymentEvent.Request{
		Payload:   payload,
		Signature: r.Header.Get(headerSignature),
	})
	if err != nil {
		switch {
		case errors.Is(err, handlePaymentEvent.ErrInvalidSignature):
			h.logger.Warn("POST /webhooks/stripe - Invalid signature: %v", err)
			h.metrics.IncPaymentEvent("unknown", resultInvalid)
			handlers.RespondBadRequest(w, msgInvalidSignature)

		case errors.Is(err, handlePaymentEvent.ErrInvalidPayload):
			h.logger.Warn("POST /webhooks/stripe - Invalid payload: %v", err)
			h.metrics.IncPaymentEvent("unknown", resultInvalid)
			handlers.RespondBadRequest(w, msgInvalidPayload)

		default:
			// Stripe повторит доставку
			h.logger.Error("POST /webhooks/stripe - Failed to handle event: %v", err)
			h.metrics.IncPaymentEvent("unknown", resultError)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /webhooks/stripe - event_id=%s, type=%s, action=%s",
		result.EventID, result.EventType, result.Action)
	h.metrics.IncPaymentEvent(result.EventType, string(result.Action))
	handlers.RespondJSON(w, http.StatusOK, WebhookResponse{Received: true, Action: string(result.Action)})
}
