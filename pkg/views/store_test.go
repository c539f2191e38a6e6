package views

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore creates a Store backed by an in-memory SQLite DB.
func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store := NewStore(db)
	require.NoError(t, store.AutoMigrate())
	return store
}

func TestStore_Append(t *testing.T) {
	store := newTestStore(t)

	event := &ViewEvent{
		TenantID:       "t1",
		AreaID:         "a1",
		AreaName:       "Lobby",
		CustomerID:     "c1",
		VideoURL:       "https://youtu.be/abc",
		SecondsWatched: 42,
		Completed:      true,
	}
	require.NoError(t, store.Append(event))
	assert.NotEmpty(t, event.ID)

	events, err := store.EventsInRange("t1", nil, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "a1", events[0].AreaID)
	assert.Equal(t, 42, events[0].SecondsWatched)
	assert.True(t, events[0].Completed)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestStore_AppendRequiresTenant(t *testing.T) {
	store := newTestStore(t)
	err := store.Append(&ViewEvent{VideoURL: "u"})
	assert.Error(t, err)
}

func TestStore_AppendClampsNegativeSeconds(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Append(&ViewEvent{TenantID: "t1", SecondsWatched: -5}))

	events, err := store.EventsInRange("t1", nil, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].SecondsWatched)
}

func TestStore_EventsInRange(t *testing.T) {
	store := newTestStore(t)

	times := []time.Time{
		time.Date(2024, 1, 14, 10, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 15, 23, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 16, 8, 0, 0, 0, time.UTC),
	}
	for i, ts := range times {
		event := &ViewEvent{TenantID: "t1", AreaID: "a1", VideoURL: "u", CreatedAt: ts}
		require.NoError(t, store.Append(event), "event %d", i)
	}

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 15, 23, 59, 59, 0, time.UTC)

	events, err := store.EventsInRange("t1", &from, &to)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, times[1].Unix(), events[0].CreatedAt.Unix())

	// Open-ended lower bound.
	events, err = store.EventsInRange("t1", nil, &to)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	// Other tenants are invisible.
	events, err = store.EventsInRange("t2", nil, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestStore_RecentAreas(t *testing.T) {
	store := newTestStore(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []*ViewEvent{
		{TenantID: "t1", AreaID: "a1", AreaName: "Old Name", CreatedAt: base},
		{TenantID: "t1", AreaID: "a2", AreaName: "Cafe", CreatedAt: base.Add(time.Minute)},
		{TenantID: "t1", AreaID: "a1", AreaName: "New Name", CreatedAt: base.Add(2 * time.Minute)},
		{TenantID: "t1", CreatedAt: base.Add(3 * time.Minute)}, // no area, skipped
	}
	for _, e := range events {
		require.NoError(t, store.Append(e))
	}

	samples, err := store.RecentAreas("t1")
	require.NoError(t, err)
	require.Len(t, samples, 3)
	// Most recent observation first, so a1's freshest name leads.
	assert.Equal(t, "a1", samples[0].AreaID)
	assert.Equal(t, "New Name", samples[0].AreaName)
}
