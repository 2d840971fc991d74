package repository

import (
	"context"
	"fmt"

	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/repository/dao"
)

var (
	ErrEventNotFound         = dao.ErrEventNotFound
	ErrApprovedCountOverflow = dao.ErrApprovedCountOverflow
	ErrCapacityBelowApproved = dao.ErrCapacityBelowApproved
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id uint) (dao.Event, error)
	FindAll(ctx context.Context, status, category string, limit int) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	Delete(ctx context.Context, id uint) error
	AdjustApprovedCount(ctx context.Context, id uint, delta int) error
	SetAutoApprove(ctx context.Context, id uint, autoApprove bool) error
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	return dao.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Category:             e.Category,
		Description:          e.Description,
		Location:             e.Location,
		Date:                 e.Date,
		RegistrationClosesAt: e.RegistrationClosesAt,
		Status:               string(e.Status),
		Capacity:             e.Capacity,
		ApprovedCount:        e.ApprovedCount,
		AutoApprove:          e.AutoApprove,
		CreatedBy:            e.CreatedBy,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	return domain.Event{
		ID:                   e.ID,
		Title:                e.Title,
		Category:             e.Category,
		Description:          e.Description,
		Location:             e.Location,
		Date:                 e.Date,
		RegistrationClosesAt: e.RegistrationClosesAt,
		Status:               domain.EventStatus(e.Status),
		Capacity:             e.Capacity,
		ApprovedCount:        e.ApprovedCount,
		AutoApprove:          e.AutoApprove,
		CreatedBy:            e.CreatedBy,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (domain.Event, error) {
	event, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(event), nil
}

func (r *EventRepository) FindAll(ctx context.Context, status, category string, limit int) ([]domain.Event, error) {
	eventsDAO, err := r.dao.FindAll(ctx, status, category, limit)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	events := make([]domain.Event, len(eventsDAO))
	for i, e := range eventsDAO {
		events[i] = r.daoToDomain(e)
	}

	return events, nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) AdjustApprovedCount(ctx context.Context, id uint, delta int) error {
	if err := r.dao.AdjustApprovedCount(ctx, id, delta); err != nil {
		return fmt.Errorf("r.dao.AdjustApprovedCount -> %w", err)
	}

	return nil
}

func (r *EventRepository) SetAutoApprove(ctx context.Context, id uint, autoApprove bool) error {
	if err := r.dao.SetAutoApprove(ctx, id, autoApprove); err != nil {
		return fmt.Errorf("r.dao.SetAutoApprove -> %w", err)
	}

	return nil
}
