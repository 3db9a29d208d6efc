package memberships

import "errors"

var (
	// ErrMembershipNotFound возвращается, когда у аккаунта нет членства
	ErrMembershipNotFound = errors.New("memberships: membership not found")

	// ErrAlreadyMember возвращается при повторной покупке активного членства
	ErrAlreadyMember = errors.New("memberships: membership is already active")

	// ErrNoSubscription возвращается, когда отменять нечего
	ErrNoSubscription = errors.New("memberships: no active subscription")

	// ErrUnknownPlan возвращается для плана, который нельзя купить через checkout
	ErrUnknownPlan = errors.New("memberships: unknown membership plan")

	// ErrUnknownAccount возвращается, когда событие подписки нельзя связать с аккаунтом
	ErrUnknownAccount = errors.New("memberships: subscription does not belong to a known account")

	// ErrPaymentProvider возвращается при ошибке платежного провайдера
	ErrPaymentProvider = errors.New("memberships: payment provider error")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("memberships: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("memberships: internal error")
)
