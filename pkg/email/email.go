package email

import (
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is one outgoing email. Body is HTML.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a single message
type Sender interface {
	Send(msg Message) error
}

// SMTPConfig holds the SMTP relay settings
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// dialer is the part of gomail.Dialer the SMTP sender uses
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender sends mail through an SMTP relay using gomail
type SMTPSender struct {
	from   string
	dialer dialer
}

func NewSMTPSender(conf SMTPConfig) *SMTPSender {
	return &SMTPSender{
		from:   conf.From,
		dialer: gomail.NewDialer(conf.Host, conf.Port, conf.User, conf.Pass),
	}
}

// Send builds the MIME message and hands it to the relay.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.Body)
	return s.dialer.DialAndSend(m)
}

// LogSender writes messages to the log instead of sending them. It is used
// when no SMTP host is configured.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(msg Message) error {
	s.Logger.Info("Email not sent, SMTP disabled",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("bodyBytes", len(msg.Body)),
	)
	return nil
}

// NewSender picks the SMTP sender when a host is configured.
func NewSender(conf SMTPConfig, logger *zap.Logger) Sender {
	if strings.TrimSpace(conf.Host) == "" {
		return LogSender{Logger: logger}
	}
	return NewSMTPSender(conf)
}
