package payments

import "errors"

var (
	// ErrPaymentDeclined платеж отклонен Stripe (карта, лимиты)
	ErrPaymentDeclined = errors.New("payments client: payment declined")

	// ErrNotFound объект не найден в Stripe
	ErrNotFound = errors.New("payments client: not found")

	// ErrProvider любая другая ошибка Stripe API или сети
	ErrProvider = errors.New("payments client: provider error")

	// ErrInvalidSignature подпись webhook не прошла проверку
	ErrInvalidSignature = errors.New("payments client: invalid webhook signature")

	// ErrInvalidPayload тело события не удалось разобрать
	ErrInvalidPayload = errors.New("payments client: invalid event payload")

	// ErrUnknownPlan для вида членства не настроен price id
	ErrUnknownPlan = errors.New("payments client: unknown membership plan")
)
