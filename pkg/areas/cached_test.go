package areas

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDirectory struct {
	areas []Area
	err   error
	calls int
}

func (d *countingDirectory) ListAreas(_ context.Context, _ string) ([]Area, error) {
	d.calls++
	return d.areas, d.err
}

func TestCachedDirectory_ServesFromCache(t *testing.T) {
	inner := &countingDirectory{areas: []Area{{ID: "a1", Name: "Lobby"}}}
	dir := NewCachedDirectory(inner, time.Minute)

	for i := 0; i < 3; i++ {
		areas, err := dir.ListAreas(context.Background(), "t1")
		require.NoError(t, err)
		assert.Equal(t, inner.areas, areas)
	}
	assert.Equal(t, 1, inner.calls)
}

func TestCachedDirectory_TenantsAreIsolated(t *testing.T) {
	inner := &countingDirectory{areas: []Area{{ID: "a1", Name: "Lobby"}}}
	dir := NewCachedDirectory(inner, time.Minute)

	_, err := dir.ListAreas(context.Background(), "t1")
	require.NoError(t, err)
	_, err = dir.ListAreas(context.Background(), "t2")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedDirectory_DoesNotCacheFailures(t *testing.T) {
	inner := &countingDirectory{err: errors.New("directory unreachable")}
	dir := NewCachedDirectory(inner, time.Minute)

	_, err := dir.ListAreas(context.Background(), "t1")
	require.Error(t, err)
	_, err = dir.ListAreas(context.Background(), "t1")
	require.Error(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedDirectory_ExpiredEntryRefetches(t *testing.T) {
	inner := &countingDirectory{areas: []Area{{ID: "a1", Name: "Lobby"}}}
	dir := NewCachedDirectory(inner, 10*time.Millisecond)

	_, err := dir.ListAreas(context.Background(), "t1")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)
	_, err = dir.ListAreas(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}
