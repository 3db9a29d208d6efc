package create_booking

import "errors"

var (
	// ErrWaiverNotFound возвращается, когда подписанный отказ не найден
	ErrWaiverNotFound = errors.New("create_booking: waiver not found")

	// ErrInvalidDate возвращается при дате в прошлом
	ErrInvalidDate = errors.New("create_booking: invalid booking date")

	// ErrDateTooFarInFuture возвращается, когда дата дальше горизонта расписания
	ErrDateTooFarInFuture = errors.New("create_booking: date is too far in the future")

	// ErrSlotNotAvailable возвращается, когда окно занято, закрыто или не существует
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrPaymentProvider возвращается, когда не удалось создать платежную сессию
	ErrPaymentProvider = errors.New("create_booking: payment provider error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")
)
