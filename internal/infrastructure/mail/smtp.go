package mail

import (
	"context"
	"fmt"
	"time"

	mail "github.com/go-mail/mail/v2"
)

const sendTimeout = 10 * time.Second

// Config captures the SMTP settings for outbound mail.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPMailer sends transactional mail over SMTP with mandatory STARTTLS.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.Timeout = sendTimeout
	return &SMTPMailer{dialer: d, from: cfg.From}
}

// SendPasswordReset mails the plaintext reset secret to the account owner.
// This is the only channel the secret ever travels on.
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, token string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password reset request")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hi %s,\n\nYou (or someone else) requested a password reset. "+
			"Submit a PUT request to /auth/resetpassword/%s with your new password "+
			"within 10 minutes.\n\nIf this wasn't you, ignore this message.\n",
		name, token,
	))

	done := make(chan error, 1)
	go func() { done <- m.dialer.DialAndSend(msg) }()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	}
}
