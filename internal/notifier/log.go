package notifier

import (
	"context"

	"go.uber.org/zap"

	"github.com/dhanushramudri/events-backend/internal/domain"
)

// LogNotifier writes notifications to the log instead of sending email. Used
// in development and whenever SMTP is disabled.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(_ context.Context, contact domain.Contact, eventTitle string, outcome Outcome) error {
	msg := buildMessage(contact.Name, eventTitle, outcome)
	zap.L().Info("notification",
		zap.String("to", contact.Email),
		zap.String("event", eventTitle),
		zap.String("outcome", string(outcome)),
		zap.String("subject", msg.Subject),
	)

	return nil
}
