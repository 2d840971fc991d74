package service

import (
	"context"
	"fmt"

	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/repository"
)

var ErrUserNotFound = repository.ErrUserNotFound

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

// UserParticipantRepository is the identity-registry view: the registrations
// tracked for one identity, matched by account ID or contact email. Withdrawn
// and rejected records are not tracked.
type UserParticipantRepository interface {
	ListByIdentity(ctx context.Context, userID uint, email string) ([]domain.Participant, error)
}

type UserService struct {
	repo         UserRepository
	participants UserParticipantRepository
}

func NewUserService(repo UserRepository, participants UserParticipantRepository) *UserService {
	return &UserService{
		repo:         repo,
		participants: participants,
	}
}

func (s *UserService) GetUser(ctx context.Context, id uint) (domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return user, nil
}

func (s *UserService) GetRegistrations(ctx context.Context, user domain.User) ([]domain.Participant, error) {
	registrations, err := s.participants.ListByIdentity(ctx, user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("s.participants.ListByIdentity -> %w", err)
	}

	return registrations, nil
}
