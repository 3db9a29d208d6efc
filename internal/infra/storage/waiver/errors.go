package waiver

import "errors"

var (
	// ErrWaiverNotFound возвращается, когда отказ от ответственности не найден
	ErrWaiverNotFound = errors.New("waiver.repository: waiver not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("waiver.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("waiver.repository: failed to execute query")
)
