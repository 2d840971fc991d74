package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrEventNotFound = errors.New("event not found")

	// ErrApprovedCountOverflow means an increment would push approved_count
	// past capacity. The admission paths guard capacity before incrementing,
	// so hitting this is a bug, not a user error.
	ErrApprovedCountOverflow = errors.New("approved count would exceed capacity")

	ErrCapacityBelowApproved = errors.New("capacity cannot drop below the current approved count")
)

type Event struct {
	ID uint `gorm:"primaryKey"`

	Title                string    `gorm:"not null"`
	Category             string    `gorm:"not null;index"`
	Description          string    `gorm:"not null"`
	Location             string    `gorm:"not null"`
	Date                 time.Time `gorm:"not null"`
	RegistrationClosesAt time.Time `gorm:"not null"`
	Status               string    `gorm:"type:varchar(20);not null;default:'upcoming';index"`
	Capacity             int       `gorm:"not null;default:50"`
	ApprovedCount        int       `gorm:"not null;default:0"`
	AutoApprove          bool      `gorm:"not null;default:false"`
	CreatedBy            uint      `gorm:"not null;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id uint) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, result.Error
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context, status, category string, limit int) ([]Event, error) {
	var events []Event

	query := d.db.WithContext(ctx).Order("date asc")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	if result := query.Find(&events); result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

// Update writes the organizer-editable columns only. approved_count is owned
// by the admission paths and is never written here; the capacity guard runs in
// the same statement, so a concurrent approval cannot slip under a shrinking
// capacity.
func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND approved_count <= ?", event.ID, event.Capacity).
		Select("title", "category", "description", "location", "date",
			"registration_closes_at", "status", "capacity", "auto_approve").
		Updates(event)
	if result.Error != nil {
		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, event.ID); err != nil {
			return Event{}, err
		}
		return Event{}, ErrCapacityBelowApproved
	}

	return d.FindByID(ctx, event.ID)
}

// Delete removes the event and all of its participants in one transaction.
func (d *EventDAO) Delete(ctx context.Context, id uint) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("event_id = ?", id).Delete(&Participant{}); result.Error != nil {
			return result.Error
		}

		result := tx.Delete(&Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}

		return nil
	})
}

// AdjustApprovedCount applies delta to approved_count. Decrements are clamped
// at zero; an increment past capacity fails with ErrApprovedCountOverflow and
// writes nothing.
func (d *EventDAO) AdjustApprovedCount(ctx context.Context, id uint, delta int) error {
	if delta >= 0 {
		result := d.db.WithContext(ctx).Model(&Event{}).
			Where("id = ? AND approved_count + ? <= capacity", id, delta).
			UpdateColumn("approved_count", gorm.Expr("approved_count + ?", delta))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			if _, err := d.FindByID(ctx, id); err != nil {
				return err
			}
			return ErrApprovedCountOverflow
		}

		return nil
	}

	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("id = ?", id).
		UpdateColumn("approved_count", gorm.Expr("GREATEST(approved_count + ?, 0)", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) SetAutoApprove(ctx context.Context, id uint, autoApprove bool) error {
	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("id = ?", id).
		UpdateColumn("auto_approve", autoApprove)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}
