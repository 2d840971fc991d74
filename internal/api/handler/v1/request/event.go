package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

type CreateEventRequest struct {
	Title                string    `json:"title"`
	Category             string    `json:"category"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	Date                 time.Time `json:"date"`
	RegistrationClosesAt time.Time `json:"registration_closes_at"`
	Capacity             int       `json:"capacity"`
	AutoApprove          bool      `json:"auto_approve"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Category, validation.Length(0, 100)),
		validation.Field(&req.Location, validation.Length(0, 200)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1)),
	)
}

type UpdateEventRequest struct {
	Title                string    `json:"title"`
	Category             string    `json:"category"`
	Description          string    `json:"description"`
	Location             string    `json:"location"`
	Date                 time.Time `json:"date"`
	RegistrationClosesAt time.Time `json:"registration_closes_at"`
	Status               string    `json:"status"`
	Capacity             int       `json:"capacity"`
	AutoApprove          bool      `json:"auto_approve"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(2, 200)),
		validation.Field(&req.Category, validation.Length(0, 100)),
		validation.Field(&req.Location, validation.Length(0, 200)),
		validation.Field(&req.Date, validation.Required),
		validation.Field(&req.Status, validation.In("upcoming", "ongoing", "completed", "cancelled")),
		validation.Field(&req.Capacity, validation.Required, validation.Min(1)),
	)
}
