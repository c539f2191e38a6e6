package areas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirectory struct {
	areas []Area
	err   error
}

func (s *stubDirectory) ListAreas(_ context.Context, _ string) ([]Area, error) {
	return s.areas, s.err
}

func TestListAreasHandler(t *testing.T) {
	router := NewRouter(&stubDirectory{areas: []Area{{ID: "a1", Name: "Lobby"}}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?tenant_id=t1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var areas []Area
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &areas))
	assert.Equal(t, []Area{{ID: "a1", Name: "Lobby"}}, areas)
}

func TestListAreasHandler_EmptyListNotNull(t *testing.T) {
	router := NewRouter(&stubDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?tenant_id=t1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListAreasHandler_MissingTenant(t *testing.T) {
	router := NewRouter(&stubDirectory{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListAreasHandler_UpstreamError(t *testing.T) {
	router := NewRouter(&stubDirectory{err: errors.New("directory unreachable")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?tenant_id=t1", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
