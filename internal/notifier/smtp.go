package notifier

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/dhanushramudri/events-backend/internal/config"
	"github.com/dhanushramudri/events-backend/internal/domain"
)

// SMTPNotifier sends notification emails over plain SMTP.
type SMTPNotifier struct {
	conf *config.SMTPConfig
}

func NewSMTPNotifier(conf *config.SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{
		conf: conf,
	}
}

func (n *SMTPNotifier) Notify(ctx context.Context, contact domain.Contact, eventTitle string, outcome Outcome) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(contact.Name, eventTitle, outcome)
	payload := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		n.conf.Sender, contact.Email, msg.Subject, msg.Body)

	var auth smtp.Auth
	if n.conf.Username != "" {
		auth = smtp.PlainAuth("", n.conf.Username, n.conf.Password, n.conf.Host)
	}

	addr := n.conf.Host + ":" + n.conf.Port
	if err := smtp.SendMail(addr, auth, n.conf.Sender, []string{contact.Email}, []byte(payload)); err != nil {
		return fmt.Errorf("smtp.SendMail -> %w", err)
	}

	return nil
}
