package notifications

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"
	textTemplate "text/template"
	"time"

	"github.com/m04kA/Sauna-BookingService/internal/domain"
	"github.com/m04kA/Sauna-BookingService/internal/integrations/mailer"
)

//go:embed templates/*
var templatesFS embed.FS

// Service отправляет транзакционные письма
type Service struct {
	mailer  Mailer
	inbox   string
	enabled bool
	logger  Logger

	bookingTmpl    *template.Template
	inquiryTmpl    *textTemplate.Template
	inquiryAckTmpl *textTemplate.Template
}

// NewService создает сервис уведомлений и разбирает шаблоны
func NewService(m Mailer, inbox string, enabled bool, logger Logger) (*Service, error) {
	bookingTmpl, err := template.ParseFS(templatesFS, "templates/booking_confirmed.html")
	if err != nil {
		return nil, fmt.Errorf("%w: booking template: %v", ErrRender, err)
	}
	inquiryTmpl, err := textTemplate.ParseFS(templatesFS, "templates/inquiry.txt")
	if err != nil {
		return nil, fmt.Errorf("%w: inquiry template: %v", ErrRender, err)
	}
	ackTmpl, err := textTemplate.ParseFS(templatesFS, "templates/inquiry_ack.txt")
	if err != nil {
		return nil, fmt.Errorf("%w: inquiry ack template: %v", ErrRender, err)
	}

	return &Service{
		mailer:         m,
		inbox:          inbox,
		enabled:        enabled,
		logger:         logger,
		bookingTmpl:    bookingTmpl,
		inquiryTmpl:    inquiryTmpl,
		inquiryAckTmpl: ackTmpl,
	}, nil
}

// BookingConfirmed отправляет гостю подтверждение бронирования
func (s *Service) BookingConfirmed(ctx context.Context, b *domain.Booking) error {
	if b == nil || b.Customer.Email == "" {
		return fmt.Errorf("%w: booking without customer email", ErrInvalidInput)
	}
	if !s.enabled {
		s.logger.Info("BookingConfirmed: email disabled, skipping booking id=%d", b.ID)
		return nil
	}

	view := newBookingView(b)

	var body bytes.Buffer
	if err := s.bookingTmpl.Execute(&body, view); err != nil {
		return fmt.Errorf("%w: BookingConfirmed - execute: %v", ErrRender, err)
	}

	id, err := s.mailer.Send(ctx, mailer.Message{
		To:      []string{b.Customer.Email},
		Subject: fmt.Sprintf("Sauna Booking Confirmed - %s at %s", view.Date, view.StartTime),
		HTML:    body.String(),
	})
	if err != nil {
		return fmt.Errorf("%w: BookingConfirmed - send: %v", ErrDelivery, err)
	}

	s.logger.Info("BookingConfirmed: email sent for booking id=%d, message_id=%s", b.ID, id)
	return nil
}

// ForwardInquiry пересылает заявку во входящие и отвечает отправителю
func (s *Service) ForwardInquiry(ctx context.Context, in Inquiry) error {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Email) == "" || strings.TrimSpace(in.Message) == "" {
		return fmt.Errorf("%w: name, email and message are required", ErrInvalidInput)
	}
	if in.Topic == "" {
		in.Topic = TopicContact
	}
	if !s.enabled {
		s.logger.Info("ForwardInquiry: email disabled, dropping %s inquiry from %s", in.Topic, in.Email)
		return nil
	}

	var body bytes.Buffer
	if err := s.inquiryTmpl.Execute(&body, in); err != nil {
		return fmt.Errorf("%w: ForwardInquiry - execute: %v", ErrRender, err)
	}

	// Письмо во входящие обязательно, ответ отправителю best-effort
	if _, err := s.mailer.Send(ctx, mailer.Message{
		To:      []string{s.inbox},
		ReplyTo: in.Email,
		Subject: fmt.Sprintf("New %s inquiry from %s", in.Topic, in.Name),
		Text:    body.String(),
	}); err != nil {
		return fmt.Errorf("%w: ForwardInquiry - send to inbox: %v", ErrDelivery, err)
	}

	var ack bytes.Buffer
	if err := s.inquiryAckTmpl.Execute(&ack, in); err != nil {
		s.logger.Warn("ForwardInquiry: failed to render acknowledgement: %v", err)
		return nil
	}
	if _, err := s.mailer.Send(ctx, mailer.Message{
		To:      []string{in.Email},
		Subject: "Thank you for contacting us",
		Text:    ack.String(),
	}); err != nil {
		s.logger.Warn("ForwardInquiry: failed to send acknowledgement to %s: %v", in.Email, err)
	}

	s.logger.Info("ForwardInquiry: %s inquiry from %s forwarded", in.Topic, in.Email)
	return nil
}

func newBookingView(b *domain.Booking) bookingView {
	sessionType := "Community Session"
	if b.Kind == domain.SessionPrivate {
		sessionType = "Private Session"
	}
	people := "people"
	if b.PartySize == 1 {
		people = "person"
	}

	return bookingView{
		ID:          b.ID,
		Name:        b.Customer.Name,
		Date:        b.SlotDate.Format("Monday, January 2, 2006"),
		StartTime:   clock(b.SlotStartTime.String()),
		EndTime:     clock(b.SlotEndTime.String()),
		SessionType: sessionType,
		PartySize:   b.PartySize,
		People:      people,
		Total:       formatAmount(b.TotalAmount, b.Currency),
		IsMember:    b.IsMember,
	}
}

// clock "19:00" -> "7:00 PM"
func clock(hhmm string) string {
	t, err := time.Parse(domain.TimeFormat, hhmm)
	if err != nil {
		return hhmm
	}
	return t.Format("3:04 PM")
}

func formatAmount(cents int64, currency string) string {
	if strings.EqualFold(currency, "usd") {
		return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
	}
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, strings.ToUpper(currency))
}
