// Package email delivers one-time verification codes to users. Delivery
// failures must reach the caller: a code that was stored but never delivered
// is reported as a server error, not silently swallowed.
package email

import (
	"context"
	"fmt"
	"log"

	"github.com/wneessen/go-mail"
)

// Sender delivers a verification code to an email address.
type Sender interface {
	SendVerificationCode(ctx context.Context, to string, code int, ttlMinutes int) error
}

// SMTPSender sends verification codes through an SMTP relay using go-mail.
type SMTPSender struct {
	host string
	port int
	user string
	pass string
	from string
}

// NewSMTPSender builds an SMTPSender. host and from are required.
func NewSMTPSender(host string, port int, user, pass, from string) (*SMTPSender, error) {
	if host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	if from == "" {
		return nil, fmt.Errorf("smtp from address is required")
	}
	return &SMTPSender{host: host, port: port, user: user, pass: pass, from: from}, nil
}

// SendVerificationCode sends a plain-text email with the code and its lifetime.
func (s *SMTPSender) SendVerificationCode(ctx context.Context, to string, code int, ttlMinutes int) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	msg.Subject("Your verification code")
	msg.SetBodyString(mail.TypeTextPlain, fmt.Sprintf(
		"Your email verification code: %06d\n\n"+
			"The code is valid for %d minutes.\n\n"+
			"If you did not request this code, ignore this message.\n",
		code, ttlMinutes))

	opts := []mail.Option{mail.WithPort(s.port), mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if s.user != "" && s.pass != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.user),
			mail.WithPassword(s.pass),
		)
	}

	client, err := mail.NewClient(s.host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

// LogSender writes codes to the application log instead of sending mail.
// Used in development when no SMTP relay is configured.
type LogSender struct{}

func (LogSender) SendVerificationCode(_ context.Context, to string, code int, ttlMinutes int) error {
	log.Printf("email (dev): verification code %06d for %s (valid %d min)", code, to, ttlMinutes)
	return nil
}
