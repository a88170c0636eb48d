package mailer

import (
	"net"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
)

// Notifier delivers notification mail to a single recipient.
type Notifier interface {
	Send(to, subject, body string) error
}

// DeliveryError reports a failed notification send, carrying the transport
// error. Callers distinguish it from store and validation failures with
// errors.As.
type DeliveryError struct {
	Err error
}

func (e *DeliveryError) Error() string {
	return "mail delivery failed: " + e.Err.Error()
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// SMTPConfig holds the connection settings for the outgoing mail server.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTP is a Notifier sending plain-text mail over authenticated SMTP.
type SMTP struct {
	cfg SMTPConfig
}

func NewSMTP(cfg SMTPConfig) SMTP {
	return SMTP{cfg: cfg}
}

func (m SMTP) Send(to, subject, body string) error {
	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	addr := net.JoinHostPort(m.cfg.Host, strconv.Itoa(m.cfg.Port))
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	return e.Send(addr, auth)
}
