package response

import "github.com/dhanushramudri/events-backend/internal/domain"

type EventsResponse struct {
	Events []domain.Event `json:"events"`
}

type ToggleAutoApproveResponse struct {
	Event   domain.Event `json:"event"`
	Message string       `json:"message"`
}
