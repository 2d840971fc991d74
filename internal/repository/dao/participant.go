package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound   = errors.New("participant not found")
	ErrDuplicateRegistration = errors.New("already registered for this event")
)

type Participant struct {
	ID uint `gorm:"primaryKey"`

	EventID uint   `gorm:"not null;uniqueIndex:idx_participants_event_email"`
	Name    string `gorm:"not null"`
	Email   string `gorm:"not null;uniqueIndex:idx_participants_event_email"`
	UserID  *uint  `gorm:"index"`

	Status        string    `gorm:"type:varchar(20);not null;default:'pending';index"`
	QueuePosition int       `gorm:"not null;default:0"`
	RegisteredAt  time.Time `gorm:"not null"`
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) Insert(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Create(&participant)
	if result.Error != nil {
		var err *pgconn.PgError
		if errors.As(result.Error, &err) &&
			err.Code == pgerrcode.UniqueViolation &&
			strings.Contains(err.Message, "idx_participants_event_email") {
			return Participant{}, ErrDuplicateRegistration
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) Update(ctx context.Context, participant Participant) (Participant, error) {
	result := d.db.WithContext(ctx).Save(&participant)
	if result.Error != nil {
		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) Delete(ctx context.Context, id uint) error {
	result := d.db.WithContext(ctx).Delete(&Participant{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}

func (d *ParticipantDAO) FindByEventAndID(ctx context.Context, eventID, id uint) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND id = ?", eventID, id).
		First(&participant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByEmail(ctx context.Context, eventID uint, email string) (Participant, error) {
	var participant Participant

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND email = ?", eventID, email).
		First(&participant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, result.Error
	}

	return participant, nil
}

func (d *ParticipantDAO) CountByStatus(ctx context.Context, eventID uint, status string) (int, error) {
	var count int64

	result := d.db.WithContext(ctx).Model(&Participant{}).
		Where("event_id = ? AND status = ?", eventID, status).
		Count(&count)
	if result.Error != nil {
		return 0, result.Error
	}

	return int(count), nil
}

// ListPendingOrdered returns the pending queue in promotion order: queue
// position first, registration time as the tie-break.
func (d *ParticipantDAO) ListPendingOrdered(ctx context.Context, eventID uint) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Where("event_id = ? AND status = ?", eventID, "pending").
		Order("queue_position asc").
		Order("registered_at asc").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

// ListByEvent returns every participant of the event, approved first, then by
// queue position.
func (d *ParticipantDAO) ListByEvent(ctx context.Context, eventID uint) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order(`CASE status
			WHEN 'approved' THEN 0
			WHEN 'pending' THEN 1
			WHEN 'waitlisted' THEN 2
			WHEN 'rejected' THEN 3
			ELSE 4
		END`).
		Order("queue_position asc").
		Order("registered_at asc").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

// ListByIdentity returns the identity's tracked registrations. Withdrawing or
// rejecting untracks the event, so terminal records are excluded here.
func (d *ParticipantDAO) ListByIdentity(ctx context.Context, userID uint, email string) ([]Participant, error) {
	var participants []Participant

	result := d.db.WithContext(ctx).
		Where("(user_id = ? OR email = ?) AND status NOT IN ?",
			userID, email, []string{"rejected", "withdrawn"}).
		Order("registered_at desc").
		Find(&participants)
	if result.Error != nil {
		return nil, result.Error
	}

	return participants, nil
}

// UpdateQueuePositions writes positions 1..len(ids) to the given participant
// ids, in order, as one transaction.
func (d *ParticipantDAO) UpdateQueuePositions(ctx context.Context, ids []uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			result := tx.Model(&Participant{}).
				Where("id = ?", id).
				UpdateColumn("queue_position", i+1)
			if result.Error != nil {
				return result.Error
			}
		}

		return nil
	})
}
