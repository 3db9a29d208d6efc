package create_booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/api/handlers"
	"github.com/m04kA/Sauna-BookingService/internal/api/middleware"
	createBooking "github.com/m04kA/Sauna-BookingService/internal/usecase/create_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgValidationFailed   = "ошибка валидации запроса"
	msgInvalidDateTime    = "некорректная дата или время начала"
	msgSlotNotAvailable   = "выбранное время недоступно"
	msgWaiverNotFound     = "отказ от ответственности не найден, подпишите его перед бронированием"
	msgInvalidBookingDate = "нельзя забронировать прошедшую дату"
	msgDateTooFar         = "дата бронирования слишком далеко в будущем"
	msgPaymentProvider    = "платежный сервис временно недоступен"
)

type Handler struct {
	useCase  CreateBookingUseCase
	location *time.Location
	logger   Logger
}

func NewHandler(useCase CreateBookingUseCase, location *time.Location, logger Logger) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		useCase:  useCase,
		location: location,
		logger:   logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if details := handlers.Validate(req); details != nil {
		handlers.RespondValidationError(w, msgValidationFailed, details)
		return
	}

	// Аккаунт необязателен: гость бронирует по email
	var accountID *string
	if userID, ok := middleware.GetUserID(r.Context()); ok {
		accountID = &userID
	}

	useCaseReq, err := req.ToUseCaseRequest(accountID, h.location)
	if err != nil {
		h.logger.Warn("POST /bookings - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDateTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, createBooking.ErrSlotNotAvailable):
			h.logger.Warn("POST /bookings - Slot not available: date=%s, start=%s, kind=%s", req.Date, req.StartTime, req.Kind)
			handlers.RespondConflict(w, msgSlotNotAvailable)

		case errors.Is(err, createBooking.ErrWaiverNotFound):
			h.logger.Warn("POST /bookings - Waiver not found: waiver_id=%d", req.WaiverID)
			handlers.RespondBadRequest(w, msgWaiverNotFound)

		case errors.Is(err, createBooking.ErrInvalidDate):
			handlers.RespondBadRequest(w, msgInvalidBookingDate)

		case errors.Is(err, createBooking.ErrDateTooFarInFuture):
			handlers.RespondBadRequest(w, msgDateTooFar)

		case errors.Is(err, createBooking.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgValidationFailed)

		case errors.Is(err, createBooking.ErrPaymentProvider):
			h.logger.Error("POST /bookings - Payment provider error: %v", err)
			handlers.RespondBadGateway(w, msgPaymentProvider)

		default:
			h.logger.Error("POST /bookings - Failed to create booking: email=%s, date=%s, error=%v",
				req.CustomerEmail, req.Date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, kind=%s, requires_payment=%t",
		result.Booking.ID, req.Kind, result.RequiresPayment)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
