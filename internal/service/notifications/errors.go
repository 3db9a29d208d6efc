package notifications

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных данных уведомления
	ErrInvalidInput = errors.New("notifications: invalid input")

	// ErrRender ошибка отрисовки шаблона
	ErrRender = errors.New("notifications: render failed")

	// ErrDelivery письмо не удалось отправить
	ErrDelivery = errors.New("notifications: delivery failed")
)
