package confirm_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("confirm_booking: booking not found")

	// ErrSlotNotAvailable возвращается, когда места закончились или приватное окно уже занято
	// Бронирование при этом отменено, оплаченная сумма возвращается
	ErrSlotNotAvailable = errors.New("confirm_booking: slot is not available")

	// ErrBookingCancelled возвращается при попытке подтвердить отменённое неоплаченное бронирование
	ErrBookingCancelled = errors.New("confirm_booking: booking is cancelled")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("confirm_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("confirm_booking: internal error")
)
