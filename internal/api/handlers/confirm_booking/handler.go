package confirm_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/service/bookings/models"
	confirmBooking "github.com/m04kA/Sauna-BookingService/internal/usecase/confirm_booking"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotFound         = "бронирование не найдено"
	msgSlotNotAvailable = "в слоте недостаточно мест, бронирование отменено"
	msgCancelled        = "бронирование отменено и не может быть подтверждено"
)

type Handler struct {
	useCase ConfirmBookingUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/bookings/{bookingId}/confirm
// Ручное подтверждение, например при оплате на месте
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := strconv.ParseInt(mux.Vars(r)["bookingId"], 10, 64)
	if err != nil || bookingID <= 0 {
		h.logger.Warn("PATCH /admin/bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBooking.Request{BookingID: bookingID})
	if err != nil {
		switch {
		case errors.Is(err, confirmBooking.ErrBookingNotFound):
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmBooking.ErrSlotNotAvailable):
			h.logger.Warn("PATCH /admin/bookings/{id}/confirm - Rejected: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, confirmBooking.ErrBookingCancelled):
			handlers.RespondConflict(w, msgCancelled)

		default:
			h.logger.Error("PATCH /admin/bookings/{id}/confirm - Failed to confirm booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /admin/bookings/{id}/confirm - Booking confirmed: booking_id=%d, already=%t",
		bookingID, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainBooking(result.Booking))
}
