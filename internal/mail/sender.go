package mail

import "log/slog"

type Message struct {
	From        string
	To          []string
	Cc          []string
	Bcc         []string
	Subject     string
	Body        string
	IsHTML      bool
	Embeds      map[string]string
	Attachments []string
}

type MailSender interface {
	Send(message *Message) error
}

// NullMailSender drops every message. It is used when no mail backend is
// configured.
type NullMailSender struct{}

func (s *NullMailSender) Send(message *Message) error {
	slog.Debug("Mail backend disabled, message dropped", "to", message.To, "subject", message.Subject)
	return nil
}

func NewNullMailSender() *NullMailSender {
	return &NullMailSender{}
}
