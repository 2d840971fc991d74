package domain

import "time"

type ParticipantStatus string

const (
	ParticipantPending    ParticipantStatus = "pending"
	ParticipantApproved   ParticipantStatus = "approved"
	ParticipantRejected   ParticipantStatus = "rejected"
	ParticipantWaitlisted ParticipantStatus = "waitlisted"
	ParticipantWithdrawn  ParticipantStatus = "withdrawn"
)

// IsTerminal reports whether the status ends a registration cycle. Terminal
// records do not block the same contact from registering again.
func (s ParticipantStatus) IsTerminal() bool {
	return s == ParticipantRejected || s == ParticipantWithdrawn
}

// Queue position sentinels. Positions 1..N are the pending queue.
const (
	PositionApproved = 0
	PositionTerminal = -1
)

type Participant struct {
	ID            uint              `json:"id"`
	EventID       uint              `json:"event_id"`
	Name          string            `json:"name"`
	Email         string            `json:"email"`
	UserID        *uint             `json:"user_id,omitempty"`
	Status        ParticipantStatus `json:"status"`
	QueuePosition int               `json:"queue_position"`
	RegisteredAt  time.Time         `json:"registered_at"`
}

// Contact is the verified identity a registration is made under. UserID is
// set when the contact is a known account.
type Contact struct {
	Name   string
	Email  string
	UserID *uint
}

// PromotionResult reports the outcome of a promote-next pass. Promoted is nil
// when the pending queue was empty.
type PromotionResult struct {
	Promoted *Participant
}
