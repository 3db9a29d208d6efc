package mailer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"
)

// Client клиент для отправки писем через Resend SDK
type Client struct {
	resend *resend.Client
	from   string
}

// NewClient создает новый экземпляр клиента
// Пустой baseURL оставляет адрес API по умолчанию
func NewClient(baseURL, apiKey, from string, timeout time.Duration) *Client {
	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: statusTransport{next: http.DefaultTransport},
	}
	rc := resend.NewCustomClient(httpClient, apiKey)
	if baseURL != "" {
		if u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/"); err == nil {
			rc.BaseURL = u
		}
	}

	return &Client{
		resend: rc,
		from:   from,
	}
}

// Send отправляет письмо и возвращает идентификатор сообщения
func (c *Client) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("%w: no recipients", ErrRejected)
	}

	status := new(int)
	resp, err := c.resend.Emails.SendWithContext(withStatus(ctx, status), &resend.SendEmailRequest{
		From:    c.from,
		To:      msg.To,
		ReplyTo: msg.ReplyTo,
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return "", mapError(*status, err)
	}
	if resp == nil || resp.Id == "" {
		return "", fmt.Errorf("%w: empty message id", ErrInvalidResponse)
	}

	return resp.Id, nil
}

// mapError переводит ошибку SDK в ошибки клиента по статусу ответа
func mapError(status int, err error) error {
	switch {
	case status == 0:
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("%w: request aborted: %v", ErrInternal, err)
		}
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return fmt.Errorf("%w: %v", ErrUnauthorized, err)
	case status == http.StatusBadRequest, status == http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %v", ErrRejected, err)
	default:
		return fmt.Errorf("%w: status code %d: %v", ErrInvalidResponse, status, err)
	}
}

type statusKey struct{}

func withStatus(ctx context.Context, status *int) context.Context {
	return context.WithValue(ctx, statusKey{}, status)
}

// statusTransport сохраняет код ответа в контексте запроса
// SDK отдаёт только текст ошибки
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.next.RoundTrip(req)
	if resp != nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = resp.StatusCode
		}
	}
	return resp, err
}
