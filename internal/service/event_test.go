package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhanushramudri/events-backend/internal/domain"
	"github.com/dhanushramudri/events-backend/internal/repository"
)

type fakeEventStore struct {
	nextID uint
	events map[uint]domain.Event
}

func newFakeEventStore(events ...domain.Event) *fakeEventStore {
	store := &fakeEventStore{events: make(map[uint]domain.Event)}
	for _, e := range events {
		store.events[e.ID] = e
		if e.ID > store.nextID {
			store.nextID = e.ID
		}
	}
	return store
}

func (f *fakeEventStore) Create(_ context.Context, event domain.Event) (domain.Event, error) {
	f.nextID++
	event.ID = f.nextID
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventStore) FindByID(_ context.Context, id uint) (domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return domain.Event{}, ErrEventNotFound
	}
	return event, nil
}

func (f *fakeEventStore) FindAll(_ context.Context, status, category string, _ int) ([]domain.Event, error) {
	var events []domain.Event
	for _, e := range f.events {
		if status != "" && string(e.Status) != status {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// Update mirrors the DAO contract: only organizer-editable fields are
// written, and a capacity below the current approved count is rejected.
func (f *fakeEventStore) Update(_ context.Context, event domain.Event) (domain.Event, error) {
	existing, ok := f.events[event.ID]
	if !ok {
		return domain.Event{}, ErrEventNotFound
	}
	if existing.ApprovedCount > event.Capacity {
		return domain.Event{}, ErrCapacityBelowApproved
	}

	event.ApprovedCount = existing.ApprovedCount
	event.CreatedBy = existing.CreatedBy
	event.CreatedAt = existing.CreatedAt
	f.events[event.ID] = event
	return event, nil
}

func (f *fakeEventStore) AdjustApprovedCount(_ context.Context, id uint, delta int) error {
	event, ok := f.events[id]
	if !ok {
		return ErrEventNotFound
	}
	if delta > 0 && event.ApprovedCount+delta > event.Capacity {
		return repository.ErrApprovedCountOverflow
	}
	event.ApprovedCount += delta
	if event.ApprovedCount < 0 {
		event.ApprovedCount = 0
	}
	f.events[id] = event
	return nil
}

func (f *fakeEventStore) Delete(_ context.Context, id uint) error {
	if _, ok := f.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func (f *fakeEventStore) SetAutoApprove(_ context.Context, id uint, autoApprove bool) error {
	event, ok := f.events[id]
	if !ok {
		return ErrEventNotFound
	}
	event.AutoApprove = autoApprove
	f.events[id] = event
	return nil
}

func TestEventService_CreateEvent(t *testing.T) {
	svc := NewEventService(newFakeEventStore())

	created, err := svc.CreateEvent(context.Background(), domain.Event{
		Title:         "Go Meetup",
		Date:          time.Now().Add(48 * time.Hour),
		Capacity:      50,
		ApprovedCount: 7, // must be ignored
	}, 3)
	require.NoError(t, err)

	assert.Equal(t, domain.EventUpcoming, created.Status)
	assert.Equal(t, 0, created.ApprovedCount)
	assert.Equal(t, uint(3), created.CreatedBy)
}

func TestEventService_UpdateEvent(t *testing.T) {
	existing := domain.Event{
		ID:            1,
		Title:         "Go Meetup",
		Status:        domain.EventUpcoming,
		Capacity:      50,
		ApprovedCount: 10,
		CreatedBy:     3,
	}

	t.Run("preserves approved count and owner", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore(existing))

		updated, err := svc.UpdateEvent(context.Background(), domain.Event{
			ID:       1,
			Title:    "Go Meetup (moved)",
			Status:   domain.EventUpcoming,
			Capacity: 60,
		})
		require.NoError(t, err)

		assert.Equal(t, "Go Meetup (moved)", updated.Title)
		assert.Equal(t, 10, updated.ApprovedCount)
		assert.Equal(t, uint(3), updated.CreatedBy)
	})

	t.Run("rejects capacity below the approved count", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore(existing))

		_, err := svc.UpdateEvent(context.Background(), domain.Event{
			ID:       1,
			Title:    "Go Meetup",
			Capacity: 5,
		})
		assert.ErrorIs(t, err, ErrCapacityBelowApproved)
	})

	t.Run("fails for unknown event", func(t *testing.T) {
		svc := NewEventService(newFakeEventStore())

		_, err := svc.UpdateEvent(context.Background(), domain.Event{ID: 42, Capacity: 10})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

// An organizer edit built from a snapshot taken before a registration commits
// must not roll back the occupancy that the admission path recorded in the
// meantime.
func TestEventService_UpdateEvent_KeepsConcurrentAdmissions(t *testing.T) {
	store := newFakeEventStore(testEvent(1, 5, true))
	events := NewEventService(store)
	admissions := NewAdmissionService(store, newFakeParticipantRepo(), &recordingNotifier{})

	stale, err := events.GetEvent(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 0, stale.ApprovedCount)

	// A registration lands between the organizer's read and their save.
	admitted := register(t, admissions, 1, "alice@example.com")
	require.Equal(t, domain.ParticipantApproved, admitted.Status)

	stale.Title = "Test Event (renamed)"
	updated, err := events.UpdateEvent(context.Background(), stale)
	require.NoError(t, err)

	assert.Equal(t, "Test Event (renamed)", updated.Title)
	assert.Equal(t, 1, updated.ApprovedCount)

	current, err := events.GetEvent(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, current.ApprovedCount)
}

func TestEventService_ToggleAutoApprove(t *testing.T) {
	store := newFakeEventStore(domain.Event{ID: 1, AutoApprove: false})
	svc := NewEventService(store)

	toggled, err := svc.ToggleAutoApprove(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, toggled.AutoApprove)

	toggled, err = svc.ToggleAutoApprove(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, toggled.AutoApprove)
}

func TestEventService_GetOccupancy(t *testing.T) {
	svc := NewEventService(newFakeEventStore(domain.Event{
		ID:            1,
		Title:         "Go Meetup",
		Capacity:      50,
		ApprovedCount: 10,
	}))

	occupancy, err := svc.GetOccupancy(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, uint(1), occupancy.EventID)
	assert.Equal(t, 50, occupancy.Capacity)
	assert.Equal(t, 10, occupancy.Approved)
	assert.InDelta(t, 20.0, occupancy.Percentage, 0.001)
}
