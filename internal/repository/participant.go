package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/repository/dao"
)

var (
	ErrParticipantNotFound   = dao.ErrParticipantNotFound
	ErrDuplicateRegistration = dao.ErrDuplicateRegistration
)

type ParticipantDAO interface {
	Insert(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	Update(ctx context.Context, participant dao.Participant) (dao.Participant, error)
	Delete(ctx context.Context, id uint) error
	FindByEventAndID(ctx context.Context, eventID, id uint) (dao.Participant, error)
	FindByEmail(ctx context.Context, eventID uint, email string) (dao.Participant, error)
	CountByStatus(ctx context.Context, eventID uint, status string) (int, error)
	ListPendingOrdered(ctx context.Context, eventID uint) ([]dao.Participant, error)
	ListByEvent(ctx context.Context, eventID uint) ([]dao.Participant, error)
	ListByIdentity(ctx context.Context, userID uint, email string) ([]dao.Participant, error)
	UpdateQueuePositions(ctx context.Context, ids []uint) error
}

type ParticipantRepository struct {
	dao ParticipantDAO
}

func NewParticipantRepository(dao ParticipantDAO) *ParticipantRepository {
	return &ParticipantRepository{
		dao: dao,
	}
}

func (r *ParticipantRepository) domainToDao(p domain.Participant) dao.Participant {
	return dao.Participant{
		ID:            p.ID,
		EventID:       p.EventID,
		Name:          p.Name,
		Email:         p.Email,
		UserID:        p.UserID,
		Status:        string(p.Status),
		QueuePosition: p.QueuePosition,
		RegisteredAt:  p.RegisteredAt,
	}
}

func (r *ParticipantRepository) daoToDomain(p dao.Participant) domain.Participant {
	return domain.Participant{
		ID:            p.ID,
		EventID:       p.EventID,
		Name:          p.Name,
		Email:         p.Email,
		UserID:        p.UserID,
		Status:        domain.ParticipantStatus(p.Status),
		QueuePosition: p.QueuePosition,
		RegisteredAt:  p.RegisteredAt,
	}
}

func (r *ParticipantRepository) daosToDomain(participantsDAO []dao.Participant) []domain.Participant {
	participants := make([]domain.Participant, len(participantsDAO))
	for i, p := range participantsDAO {
		participants[i] = r.daoToDomain(p)
	}
	return participants
}

func (r *ParticipantRepository) Create(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(participant))
	if err != nil {
		if errors.Is(err, dao.ErrDuplicateRegistration) {
			return domain.Participant{}, ErrDuplicateRegistration
		}

		return domain.Participant{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ParticipantRepository) Update(ctx context.Context, participant domain.Participant) (domain.Participant, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(participant))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ParticipantRepository) Delete(ctx context.Context, id uint) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ParticipantRepository) FindByEventAndID(ctx context.Context, eventID, id uint) (domain.Participant, error) {
	participant, err := r.dao.FindByEventAndID(ctx, eventID, id)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByEventAndID -> %w", err)
	}

	return r.daoToDomain(participant), nil
}

// FindByEmail returns the participant record for (event, email) regardless of
// status. Register uses it to reuse terminal records.
func (r *ParticipantRepository) FindByEmail(ctx context.Context, eventID uint, email string) (domain.Participant, error) {
	participant, err := r.dao.FindByEmail(ctx, eventID, email)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("r.dao.FindByEmail -> %w", err)
	}

	return r.daoToDomain(participant), nil
}

func (r *ParticipantRepository) CountByStatus(ctx context.Context, eventID uint, status domain.ParticipantStatus) (int, error) {
	count, err := r.dao.CountByStatus(ctx, eventID, string(status))
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByStatus -> %w", err)
	}

	return count, nil
}

func (r *ParticipantRepository) ListPendingOrdered(ctx context.Context, eventID uint) ([]domain.Participant, error) {
	participantsDAO, err := r.dao.ListPendingOrdered(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListPendingOrdered -> %w", err)
	}

	return r.daosToDomain(participantsDAO), nil
}

func (r *ParticipantRepository) ListByEvent(ctx context.Context, eventID uint) ([]domain.Participant, error) {
	participantsDAO, err := r.dao.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByEvent -> %w", err)
	}

	return r.daosToDomain(participantsDAO), nil
}

// ListByIdentity returns the identity's tracked registrations; records left
// behind by withdrawals and rejections are not part of the projection.
func (r *ParticipantRepository) ListByIdentity(ctx context.Context, userID uint, email string) ([]domain.Participant, error) {
	participantsDAO, err := r.dao.ListByIdentity(ctx, userID, email)
	if err != nil {
		return nil, fmt.Errorf("r.dao.ListByIdentity -> %w", err)
	}

	return r.daosToDomain(participantsDAO), nil
}

// RenumberPending rewrites the pending queue of the event to contiguous
// positions 1..N in promotion order.
func (r *ParticipantRepository) RenumberPending(ctx context.Context, eventID uint) error {
	pending, err := r.dao.ListPendingOrdered(ctx, eventID)
	if err != nil {
		return fmt.Errorf("r.dao.ListPendingOrdered -> %w", err)
	}

	ids := make([]uint, len(pending))
	for i, p := range pending {
		ids[i] = p.ID
	}

	if err := r.dao.UpdateQueuePositions(ctx, ids); err != nil {
		return fmt.Errorf("r.dao.UpdateQueuePositions -> %w", err)
	}

	return nil
}
