package pricing

import "errors"

var (
	// ErrInvalidPartySize возвращается при размере группы вне диапазона 1..8
	ErrInvalidPartySize = errors.New("pricing: party size out of range")

	// ErrUnknownSessionKind возвращается для неизвестного типа сессии
	ErrUnknownSessionKind = errors.New("pricing: unknown session kind")
)
