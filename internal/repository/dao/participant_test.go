package dao

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// startPostgres spins up a throwaway Postgres container. Tests are skipped
// when Docker is not reachable.
func startPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("skipping, could not construct docker pool: %v", err)
	}
	if err = pool.Client.Ping(); err != nil {
		t.Skipf("skipping, docker is not running: %v", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=test",
			"POSTGRES_PASSWORD=test",
			"POSTGRES_DB=test",
			"listen_addresses = '*'",
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = pool.Purge(resource)
	})
	_ = resource.Expire(180)

	dsn := fmt.Sprintf("host=localhost port=%v user=test password=test dbname=test sslmode=disable",
		resource.GetPort("5432/tcp"))

	var gormDB *gorm.DB
	pool.MaxWait = 60 * time.Second
	err = pool.Retry(func() error {
		gormDB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return err
		}

		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Ping()
	})
	require.NoError(t, err)

	require.NoError(t, InitTables(gormDB))

	return gormDB
}

func seedTestEvent(t *testing.T, db *gorm.DB, capacity int) Event {
	t.Helper()

	event := Event{
		Title:                "DAO Test Event",
		Category:             "test",
		Description:          "event used by DAO tests",
		Location:             "nowhere",
		Date:                 time.Now().Add(48 * time.Hour),
		RegistrationClosesAt: time.Now().Add(24 * time.Hour),
		Status:               "upcoming",
		Capacity:             capacity,
		CreatedBy:            1,
	}
	require.NoError(t, db.Create(&event).Error)

	return event
}

func insertParticipant(t *testing.T, d *ParticipantDAO, eventID uint, email, status string, position int) Participant {
	t.Helper()

	p, err := d.Insert(context.Background(), Participant{
		EventID:       eventID,
		Name:          "Contact " + email,
		Email:         email,
		Status:        status,
		QueuePosition: position,
		RegisteredAt:  time.Now(),
	})
	require.NoError(t, err)

	return p
}

func TestParticipantDAO(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()

	t.Run("Insert rejects a duplicate (event, email) pair", func(t *testing.T) {
		event := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		insertParticipant(t, d, event.ID, "alice@example.com", "pending", 1)

		_, err := d.Insert(ctx, Participant{
			EventID:      event.ID,
			Name:         "Alice Again",
			Email:        "alice@example.com",
			Status:       "pending",
			RegisteredAt: time.Now(),
		})
		assert.ErrorIs(t, err, ErrDuplicateRegistration)
	})

	t.Run("same email may register for a different event", func(t *testing.T) {
		first := seedTestEvent(t, db, 10)
		second := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		insertParticipant(t, d, first.ID, "bob@example.com", "pending", 1)
		insertParticipant(t, d, second.ID, "bob@example.com", "pending", 1)
	})

	t.Run("ListPendingOrdered sorts by queue position then registration time", func(t *testing.T) {
		event := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		insertParticipant(t, d, event.ID, "third@example.com", "pending", 3)
		insertParticipant(t, d, event.ID, "first@example.com", "pending", 1)
		insertParticipant(t, d, event.ID, "second@example.com", "pending", 2)
		insertParticipant(t, d, event.ID, "approved@example.com", "approved", 0)

		pending, err := d.ListPendingOrdered(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, pending, 3)
		assert.Equal(t, "first@example.com", pending[0].Email)
		assert.Equal(t, "second@example.com", pending[1].Email)
		assert.Equal(t, "third@example.com", pending[2].Email)
	})

	t.Run("ListByEvent puts approved before pending before terminal", func(t *testing.T) {
		event := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		insertParticipant(t, d, event.ID, "rejected@example.com", "rejected", -1)
		insertParticipant(t, d, event.ID, "pending@example.com", "pending", 1)
		insertParticipant(t, d, event.ID, "approved@example.com", "approved", 0)

		all, err := d.ListByEvent(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "approved@example.com", all[0].Email)
		assert.Equal(t, "pending@example.com", all[1].Email)
		assert.Equal(t, "rejected@example.com", all[2].Email)
	})

	t.Run("UpdateQueuePositions rewrites positions in order", func(t *testing.T) {
		event := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		a := insertParticipant(t, d, event.ID, "a@example.com", "pending", 2)
		b := insertParticipant(t, d, event.ID, "b@example.com", "pending", 5)
		c := insertParticipant(t, d, event.ID, "c@example.com", "pending", 9)

		require.NoError(t, d.UpdateQueuePositions(ctx, []uint{a.ID, b.ID, c.ID}))

		pending, err := d.ListPendingOrdered(ctx, event.ID)
		require.NoError(t, err)
		require.Len(t, pending, 3)
		for i, p := range pending {
			assert.Equal(t, i+1, p.QueuePosition)
		}
	})

	t.Run("CountByStatus counts only the given status", func(t *testing.T) {
		event := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		insertParticipant(t, d, event.ID, "p1@example.com", "pending", 1)
		insertParticipant(t, d, event.ID, "p2@example.com", "pending", 2)
		insertParticipant(t, d, event.ID, "a1@example.com", "approved", 0)

		count, err := d.CountByStatus(ctx, event.ID, "pending")
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("ListByIdentity excludes withdrawn and rejected records", func(t *testing.T) {
		active := seedTestEvent(t, db, 10)
		withdrawnFrom := seedTestEvent(t, db, 10)
		rejectedFrom := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		insertParticipant(t, d, active.ID, "ida@example.com", "pending", 1)
		insertParticipant(t, d, withdrawnFrom.ID, "ida@example.com", "withdrawn", -1)
		insertParticipant(t, d, rejectedFrom.ID, "ida@example.com", "rejected", -1)

		tracked, err := d.ListByIdentity(ctx, 0, "ida@example.com")
		require.NoError(t, err)
		require.Len(t, tracked, 1)
		assert.Equal(t, active.ID, tracked[0].EventID)
		assert.Equal(t, "pending", tracked[0].Status)
	})

	t.Run("FindByEmail returns terminal records too", func(t *testing.T) {
		event := seedTestEvent(t, db, 10)
		d := NewParticipantDAO(db)

		insertParticipant(t, d, event.ID, "gone@example.com", "withdrawn", -1)

		found, err := d.FindByEmail(ctx, event.ID, "gone@example.com")
		require.NoError(t, err)
		assert.Equal(t, "withdrawn", found.Status)

		_, err = d.FindByEmail(ctx, event.ID, "nobody@example.com")
		assert.ErrorIs(t, err, ErrParticipantNotFound)
	})
}

func TestEventDAO_Update(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	d := NewEventDAO(db)

	t.Run("never writes the approved count or the owner", func(t *testing.T) {
		event := seedTestEvent(t, db, 5)
		require.NoError(t, d.AdjustApprovedCount(ctx, event.ID, 1))

		// Edit built from a snapshot taken before the admission above.
		edit := event
		edit.Title = "DAO Test Event (renamed)"
		edit.ApprovedCount = 0
		edit.CreatedBy = 99

		updated, err := d.Update(ctx, edit)
		require.NoError(t, err)
		assert.Equal(t, "DAO Test Event (renamed)", updated.Title)
		assert.Equal(t, 1, updated.ApprovedCount)
		assert.Equal(t, event.CreatedBy, updated.CreatedBy)
	})

	t.Run("rejects capacity below the approved count", func(t *testing.T) {
		event := seedTestEvent(t, db, 5)
		require.NoError(t, d.AdjustApprovedCount(ctx, event.ID, 2))

		edit := event
		edit.Capacity = 1

		_, err := d.Update(ctx, edit)
		assert.ErrorIs(t, err, ErrCapacityBelowApproved)

		current, err := d.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 5, current.Capacity)
		assert.Equal(t, 2, current.ApprovedCount)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, err := d.Update(ctx, Event{ID: 999999, Capacity: 10})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}

func TestEventDAO_AdjustApprovedCount(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	d := NewEventDAO(db)

	t.Run("increment past capacity fails and writes nothing", func(t *testing.T) {
		event := seedTestEvent(t, db, 1)

		require.NoError(t, d.AdjustApprovedCount(ctx, event.ID, 1))

		err := d.AdjustApprovedCount(ctx, event.ID, 1)
		assert.ErrorIs(t, err, ErrApprovedCountOverflow)

		current, err := d.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, current.ApprovedCount)
	})

	t.Run("decrement clamps at zero", func(t *testing.T) {
		event := seedTestEvent(t, db, 5)

		require.NoError(t, d.AdjustApprovedCount(ctx, event.ID, -1))

		current, err := d.FindByID(ctx, event.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, current.ApprovedCount)
	})

	t.Run("unknown event", func(t *testing.T) {
		err := d.AdjustApprovedCount(ctx, 999999, 1)
		assert.ErrorIs(t, err, ErrEventNotFound)
	})
}
