package domain

import "time"

type EventStatus string

const (
	EventUpcoming  EventStatus = "upcoming"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

type Event struct {
	ID                   uint        `json:"id"`
	Title                string      `json:"title"`
	Category             string      `json:"category"`
	Description          string      `json:"description"`
	Location             string      `json:"location"`
	Date                 time.Time   `json:"date"`
	RegistrationClosesAt time.Time   `json:"registration_closes_at"`
	Status               EventStatus `json:"status"`
	Capacity             int         `json:"capacity"`
	ApprovedCount        int         `json:"approved_count"`
	AutoApprove          bool        `json:"auto_approve"`
	CreatedBy            uint        `json:"created_by"`
	CreatedAt            time.Time   `json:"created_at"`
	UpdatedAt            time.Time   `json:"updated_at"`
}

// RegistrationOpen reports whether the registration window is still open at
// the given instant.
func (e *Event) RegistrationOpen(now time.Time) bool {
	return !now.After(e.RegistrationClosesAt)
}

// HasCapacity reports whether another approval fits under the event's capacity.
func (e *Event) HasCapacity() bool {
	return e.ApprovedCount < e.Capacity
}

// Occupancy is the read-only capacity projection for one event.
type Occupancy struct {
	EventID    uint    `json:"event_id"`
	Title      string  `json:"title"`
	Capacity   int     `json:"capacity"`
	Approved   int     `json:"approved"`
	Percentage float64 `json:"percentage"`
}

func NewOccupancy(e Event) Occupancy {
	o := Occupancy{
		EventID:  e.ID,
		Title:    e.Title,
		Capacity: e.Capacity,
		Approved: e.ApprovedCount,
	}
	if e.Capacity > 0 {
		o.Percentage = float64(e.ApprovedCount) / float64(e.Capacity) * 100
	}
	return o
}
