package slot

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("slot.repository: slot not found")

	// ErrSlotExists возвращается при попытке создать дубликат (date, start_time, kind)
	ErrSlotExists = errors.New("slot.repository: slot already exists")

	// ErrCapacityExceeded возвращается, когда условное увеличение счётчика не прошло
	ErrCapacityExceeded = errors.New("slot.repository: capacity exceeded or slot unavailable")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("slot.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("slot.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("slot.repository: failed to scan row")
)
