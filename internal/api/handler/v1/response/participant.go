package response

import "github.com/dhanushramudri/events-backend/internal/domain"

type RegisterResponse struct {
	Message     string             `json:"message"`
	Participant domain.Participant `json:"participant"`
}

type ListParticipantsResponse struct {
	Event        domain.Event         `json:"event"`
	Participants []domain.Participant `json:"participants"`
}

type RemoveParticipantResponse struct {
	Message  string              `json:"message"`
	Promoted *domain.Participant `json:"promoted,omitempty"`
}

type RegistrationsResponse struct {
	Registrations []domain.Participant `json:"registrations"`
}
