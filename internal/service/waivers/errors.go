package waivers

import "errors"

var (
	// ErrWaiverNotFound возвращается, когда отказ не найден
	ErrWaiverNotFound = errors.New("waivers: waiver not found")

	// ErrNotAgreed возвращается, если участник не подтвердил согласие
	ErrNotAgreed = errors.New("waivers: waiver terms were not accepted")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("waivers: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("waivers: internal error")
)
