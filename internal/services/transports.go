package services

import (
	"context"

	"pizzeria/internal/models"
	"pizzeria/pkg/mailer"
	"pizzeria/pkg/sms"
)

type EmailTransport interface {
	Send(ctx context.Context, to, subject, body string) error
	Verify(ctx context.Context) error
}

type SMSTransport interface {
	Send(ctx context.Context, to, body string) error
	Verify(ctx context.Context) error
}

// TransportFactory builds channel backends from the current settings.
type TransportFactory interface {
	NewEmailTransport(settings models.NotificationSettings) EmailTransport
	NewSMSTransport(settings models.NotificationSettings) SMSTransport
}

type transportFactory struct {
	smsBaseURL string
}

func NewTransportFactory(smsBaseURL string) TransportFactory {
	return &transportFactory{smsBaseURL: smsBaseURL}
}

func (f *transportFactory) NewEmailTransport(s models.NotificationSettings) EmailTransport {
	return mailer.New(mailer.Config{
		Host:      s.SMTPHost,
		Port:      s.SMTPPort,
		Secure:    s.SMTPSecure,
		Username:  s.SMTPUser,
		Password:  s.SMTPPassword,
		FromName:  s.SMTPFromName,
		FromEmail: s.SMTPFromEmail,
	})
}

func (f *transportFactory) NewSMSTransport(s models.NotificationSettings) SMSTransport {
	return &smsTransport{client: sms.NewClient(f.smsBaseURL, s.TwilioAccountSID, s.TwilioAuthToken, s.TwilioPhoneNumber)}
}

type smsTransport struct {
	client *sms.Client
}

func (t *smsTransport) Send(ctx context.Context, to, body string) error {
	_, err := t.client.SendMessage(ctx, to, body)
	return err
}

func (t *smsTransport) Verify(ctx context.Context) error {
	return t.client.VerifyAccount(ctx)
}
