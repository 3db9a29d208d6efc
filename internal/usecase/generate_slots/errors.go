package generate_slots

import "errors"

var (
	ErrInvalidInput = errors.New("generate_slots: invalid input")
	ErrInternal     = errors.New("generate_slots: internal error")
)
