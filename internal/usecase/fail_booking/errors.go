package fail_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("fail_booking: booking not found")

	// ErrAlreadyConfirmed возвращается, если бронирование уже подтверждено и держит места
	ErrAlreadyConfirmed = errors.New("fail_booking: booking already confirmed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("fail_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("fail_booking: internal error")
)
