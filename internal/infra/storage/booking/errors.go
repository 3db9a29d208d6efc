package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrStatusConflict возвращается, когда текущий статус не совпал с ожидаемым при переходе
	ErrStatusConflict = errors.New("booking.repository: booking status changed concurrently")

	// ErrDuplicateCheckout возвращается, если checkout session уже привязана к другому бронированию
	ErrDuplicateCheckout = errors.New("booking.repository: checkout session already attached")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
