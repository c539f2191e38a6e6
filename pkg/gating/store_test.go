package gating

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

func TestStore_UpsertResolveRoundTrip(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Upsert(&GateConfig{
		TenantID:    "t1",
		AreaID:      "a1",
		Label:       "Lobby",
		VideoURL:    "https://youtu.be/abc123",
		VideoLabel:  "Welcome",
		MinDuration: 30,
		Active:      true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	got, err := store.Resolve("t1", "a1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)
	assert.Equal(t, "https://youtu.be/abc123", got.VideoURL)
	assert.Equal(t, "Welcome", got.VideoLabel)
	assert.Equal(t, 30, got.MinDuration)
}

func TestStore_UpsertIsIdempotentPerScope(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/v1", MinDuration: 15, Active: true,
	})
	require.NoError(t, err)

	second, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/v2", MinDuration: 45, Active: true,
	})
	require.NoError(t, err)

	// The second save updated the first row in place.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "https://youtu.be/v2", second.VideoURL)
	assert.Equal(t, 45, second.MinDuration)
	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())

	rows, err := store.ListByTenant("t1")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestStore_TenantWideAndAreaScopesDoNotCollide(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: TenantWideArea,
		VideoURL: "https://youtu.be/default", Active: true,
	})
	require.NoError(t, err)

	_, err = store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/area", Active: true,
	})
	require.NoError(t, err)

	rows, err := store.ListByTenant("t1")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStore_ResolveFallsBackToTenantWide(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: TenantWideArea,
		VideoURL: "https://youtu.be/default", MinDuration: 20, Active: true,
	})
	require.NoError(t, err)

	// Area with no dedicated config resolves to the tenant-wide default.
	got, err := store.Resolve("t1", "a-unknown")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://youtu.be/default", got.VideoURL)

	// A dedicated area config takes precedence once present.
	_, err = store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a-unknown",
		VideoURL: "https://youtu.be/area", Active: true,
	})
	require.NoError(t, err)

	got, err = store.Resolve("t1", "a-unknown")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://youtu.be/area", got.VideoURL)
}

func TestStore_ResolveNoConfigIsNotAnError(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Resolve("unconfigured-tenant", "a1")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.Resolve("", "a1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_ResolveIgnoresInactiveRows(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/off", Active: false,
	})
	require.NoError(t, err)

	got, err := store.Resolve("t1", "a1")
	require.NoError(t, err)
	assert.Nil(t, got, "inactive config must never resolve")
}

func TestStore_ResolveIsolatesTenants(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: TenantWideArea,
		VideoURL: "https://youtu.be/t1", Active: true,
	})
	require.NoError(t, err)

	got, err := store.Resolve("t2", TenantWideArea)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_UpsertDefaultsMinDuration(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Upsert(&GateConfig{
		TenantID: "t1", VideoURL: "https://youtu.be/v", Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultMinDuration, saved.MinDuration)
}

func TestStore_UpsertRejectsMissingRequiredFields(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upsert(&GateConfig{VideoURL: "https://youtu.be/v"})
	assert.Error(t, err)

	_, err = store.Upsert(&GateConfig{TenantID: "t1"})
	assert.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	saved, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/v", Active: true,
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(saved.ID))

	got, err := store.Resolve("t1", "a1")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting an absent id is not an error.
	require.NoError(t, store.Delete("no-such-id"))
}

func TestStore_VideoLabels(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/intro", VideoLabel: "Intro", Active: true,
	})
	require.NoError(t, err)
	_, err = store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a2",
		VideoURL: "https://youtu.be/unlabeled", Active: true,
	})
	require.NoError(t, err)

	labels, err := store.VideoLabels("t1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"https://youtu.be/intro": "Intro"}, labels)
}

func TestStore_UpsertPreservesCreatedAt(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/v1", Active: true,
	})
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second, err := store.Upsert(&GateConfig{
		TenantID: "t1", AreaID: "a1",
		VideoURL: "https://youtu.be/v2", Active: true,
	})
	require.NoError(t, err)

	assert.Equal(t, first.CreatedAt.Unix(), second.CreatedAt.Unix())
	assert.True(t, !second.UpdatedAt.Before(first.UpdatedAt))
}
