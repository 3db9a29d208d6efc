package mailer

// Message письмо для отправки
type Message struct {
	To      []string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}
