package mailer

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("mailer client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от Resend
	ErrInvalidResponse = errors.New("mailer client: invalid response")

	// ErrRejected письмо отклонено (валидация адресов, домен отправителя)
	ErrRejected = errors.New("mailer client: message rejected")

	// ErrUnauthorized неверный или отсутствующий API ключ
	ErrUnauthorized = errors.New("mailer client: unauthorized")
)
