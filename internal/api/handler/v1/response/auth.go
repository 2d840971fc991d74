package response

import "github.com/dhanushramudri/events-backend/internal/domain"

type LoginResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}
