package handle_payment_event

import "errors"

var (
	// ErrInvalidSignature возвращается, когда подпись webhook не прошла проверку
	ErrInvalidSignature = errors.New("handle_payment_event: invalid signature")

	// ErrInvalidPayload возвращается, когда тело события не удалось разобрать
	ErrInvalidPayload = errors.New("handle_payment_event: invalid payload")

	// ErrInternal возвращается при внутренних ошибках, провайдер повторит доставку
	ErrInternal = errors.New("handle_payment_event: internal error")
)
