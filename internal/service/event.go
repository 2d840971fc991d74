package service

import (
	"context"
	"fmt"

	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/repository"
)

var ErrCapacityBelowApproved = repository.ErrCapacityBelowApproved

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id uint) (domain.Event, error)
	FindAll(ctx context.Context, status, category string, limit int) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id uint) error
	SetAutoApprove(ctx context.Context, id uint, autoApprove bool) error
}

type EventService struct {
	repo EventRepository
}

func NewEventService(repo EventRepository) *EventService {
	return &EventService{
		repo: repo,
	}
}

func (s *EventService) CreateEvent(ctx context.Context, event domain.Event, createdBy uint) (domain.Event, error) {
	event.CreatedBy = createdBy
	if event.Status == "" {
		event.Status = domain.EventUpcoming
	}
	event.ApprovedCount = 0

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) GetEvent(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, status, category string, limit int) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx, status, category, limit)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

// UpdateEvent applies organizer edits. The approved count and owner are not
// editable; the repository writes the editable columns only and rejects a
// capacity below the seats already taken in the same statement, so edits stay
// consistent with admissions running in parallel.
func (s *EventService) UpdateEvent(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	return updated, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	return nil
}

func (s *EventService) ToggleAutoApprove(ctx context.Context, id uint) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	if err = s.repo.SetAutoApprove(ctx, id, !event.AutoApprove); err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.SetAutoApprove -> %w", err)
	}

	event.AutoApprove = !event.AutoApprove

	return event, nil
}

func (s *EventService) GetOccupancy(ctx context.Context, id uint) (domain.Occupancy, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Occupancy{}, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return domain.NewOccupancy(event), nil
}
