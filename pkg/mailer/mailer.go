package mailer

import (
	"context"
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type Config struct {
	Host      string
	Port      int
	Secure    bool
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

// Mailer sends plain text mail over SMTP.
type Mailer struct {
	dialer    *gomail.Dialer
	fromName  string
	fromEmail string
}

func New(cfg Config) *Mailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Secure
	d.TLSConfig = &tls.Config{ServerName: cfg.Host}
	return &Mailer{dialer: d, fromName: cfg.FromName, fromEmail: cfg.FromEmail}
}

// Verify opens and closes an authenticated SMTP session.
func (m *Mailer) Verify(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s, err := m.dialer.Dial()
	if err != nil {
		return fmt.Errorf("smtp connection to %s:%d failed: %w", m.dialer.Host, m.dialer.Port, err)
	}
	return s.Close()
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.dialer.DialAndSend(m.NewMessage(to, subject, body)); err != nil {
		return fmt.Errorf("smtp send to %s failed: %w", to, err)
	}
	return nil
}

func (m *Mailer) NewMessage(to, subject, body string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.fromEmail, m.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return msg
}
