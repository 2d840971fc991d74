package notifier

import (
	"context"
	"fmt"

	"github.com/dhanushramudri/events-backend/internal/domain"
)

// Outcome is the registration status change a notification reports.
type Outcome string

const (
	OutcomeConfirmed Outcome = "confirmed" // registered and approved immediately
	OutcomePending   Outcome = "pending"   // registered onto the waitlist
	OutcomePromoted  Outcome = "promoted"  // approved from the waitlist
	OutcomeApproved  Outcome = "approved"  // approved by an admin
	OutcomeRejected  Outcome = "rejected"
	OutcomeRemoved   Outcome = "removed"
	OutcomeWithdrawn Outcome = "withdrawn"
)

// Notifier delivers a status-change notification to one contact. Delivery is
// best-effort; callers log and swallow errors and never roll back the
// transition that triggered the notification.
type Notifier interface {
	Notify(ctx context.Context, contact domain.Contact, eventTitle string, outcome Outcome) error
}

type message struct {
	Subject string
	Body    string
}

func buildMessage(name, eventTitle string, outcome Outcome) message {
	switch outcome {
	case OutcomeConfirmed:
		return message{
			Subject: fmt.Sprintf("Registration Confirmed: %s", eventTitle),
			Body:    fmt.Sprintf("Hello %s,\n\nYou have been successfully registered for %s. We look forward to seeing you there!\n\nBest regards,\nEvent Management Team", name, eventTitle),
		}
	case OutcomePending:
		return message{
			Subject: fmt.Sprintf("Registration Received: %s", eventTitle),
			Body:    fmt.Sprintf("Hello %s,\n\nYour registration for %s is pending approval. We will notify you as soon as a spot opens up.\n\nBest regards,\nEvent Management Team", name, eventTitle),
		}
	case OutcomePromoted, OutcomeApproved:
		return message{
			Subject: fmt.Sprintf("Registration Approved: %s", eventTitle),
			Body:    fmt.Sprintf("Hello %s,\n\nGood news! Your registration for %s has been approved.\n\nBest regards,\nEvent Management Team", name, eventTitle),
		}
	case OutcomeRejected:
		return message{
			Subject: fmt.Sprintf("Registration Update: %s", eventTitle),
			Body:    fmt.Sprintf("Hello %s,\n\nWe regret to inform you that your registration for %s has been withdrawn. If you believe this is an error, please contact the event organizer.\n\nBest regards,\nEvent Management Team", name, eventTitle),
		}
	case OutcomeRemoved:
		return message{
			Subject: fmt.Sprintf("Registration Removed: %s", eventTitle),
			Body:    fmt.Sprintf("Hello %s,\n\nYour registration for %s has been removed. If you believe this is an error, please contact the event organizer.\n\nBest regards,\nEvent Management Team", name, eventTitle),
		}
	case OutcomeWithdrawn:
		return message{
			Subject: fmt.Sprintf("Withdrawal Confirmed: %s", eventTitle),
			Body:    fmt.Sprintf("Hello %s,\n\nYou have withdrawn from %s. You are welcome to register again while the registration window is open.\n\nBest regards,\nEvent Management Team", name, eventTitle),
		}
	default:
		return message{
			Subject: fmt.Sprintf("Registration Update: %s", eventTitle),
			Body:    fmt.Sprintf("Hello %s,\n\nThe status of your registration for %s has changed.\n\nBest regards,\nEvent Management Team", name, eventTitle),
		}
	}
}
