package expire_pending

import "errors"

var (
	ErrInvalidInput = errors.New("expire_pending: invalid input")
	ErrInternal     = errors.New("expire_pending: internal error")
)
