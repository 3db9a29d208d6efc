package availability

import "errors"

var (
	// ErrInvalidPartySize возвращается при размере группы вне диапазона 1..8
	ErrInvalidPartySize = errors.New("availability: party size out of range")

	// ErrUnknownSessionKind возвращается для неизвестного типа сессии
	ErrUnknownSessionKind = errors.New("availability: unknown session kind")

	// ErrInternal возвращается при ошибках хранилища
	ErrInternal = errors.New("availability: internal error")
)
