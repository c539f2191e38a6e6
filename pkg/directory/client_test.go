package directory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, ttl time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "directory-client",
		"exp": time.Now().Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// fakeDirectory is an httptest-backed directory API.
type fakeDirectory struct {
	t         *testing.T
	tokenTTL  time.Duration
	locations []Location

	logins    int
	lastToken string
}

func (f *fakeDirectory) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/token", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(f.t, http.MethodPost, r.Method)
		var creds map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["client_key"] != "key" || creds["client_secret"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		f.logins++
		f.lastToken = signedToken(f.t, f.tokenTTL)
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": f.lastToken})
	})
	mux.HandleFunc("/locations", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+f.lastToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		require.Equal(f.t, "t1", r.URL.Query().Get("tenant_id"))

		page := atoiOrOne(r.URL.Query().Get("page"))
		size := atoiOrOne(r.URL.Query().Get("page_size"))

		start := (page - 1) * size
		end := start + size
		if start > len(f.locations) {
			start = len(f.locations)
		}
		if end > len(f.locations) {
			end = len(f.locations)
		}
		_ = json.NewEncoder(w).Encode(locationsPage{Data: f.locations[start:end]})
	})
	return mux
}

func atoiOrOne(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func newTestClient(t *testing.T, fake *fakeDirectory, pageSize int) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.ClientKey = "key"
	cfg.ClientSecret = "secret"
	cfg.PageSize = pageSize
	return NewClient(cfg)
}

func TestClient_ListLocations(t *testing.T) {
	fake := &fakeDirectory{
		t:        t,
		tokenTTL: time.Hour,
		locations: []Location{
			{ID: "a1", Name: "Lobby"},
			{ID: "a2", Name: "Cafe"},
			{ID: "a3", Name: "Terrace"},
		},
	}
	client := newTestClient(t, fake, 2)

	locations, err := client.ListLocations(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, fake.locations, locations)
	assert.Equal(t, 1, fake.logins, "pages share one login")
}

func TestClient_TokenIsCachedAcrossCalls(t *testing.T) {
	fake := &fakeDirectory{t: t, tokenTTL: time.Hour}
	client := newTestClient(t, fake, 100)

	for i := 0; i < 3; i++ {
		_, err := client.ListLocations(context.Background(), "t1")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, fake.logins)
}

func TestClient_ExpiredTokenTriggersRelogin(t *testing.T) {
	fake := &fakeDirectory{t: t, tokenTTL: time.Hour}
	client := newTestClient(t, fake, 100)

	_, err := client.ListLocations(context.Background(), "t1")
	require.NoError(t, err)

	// Force the cached token past its refresh point.
	client.mu.Lock()
	client.tokenExp = time.Now().Add(-time.Minute)
	client.mu.Unlock()

	_, err = client.ListLocations(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.logins)
}

func TestClient_ListLocationsRequiresTenant(t *testing.T) {
	fake := &fakeDirectory{t: t, tokenTTL: time.Hour}
	client := newTestClient(t, fake, 100)

	_, err := client.ListLocations(context.Background(), "")
	assert.Error(t, err)
	assert.Equal(t, 0, fake.logins)
}

func TestClient_BadCredentials(t *testing.T) {
	fake := &fakeDirectory{t: t, tokenTTL: time.Hour}
	client := newTestClient(t, fake, 100)
	client.cfg.ClientSecret = "wrong"

	_, err := client.ListLocations(context.Background(), "t1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory login")
}

func TestTokenExpiry(t *testing.T) {
	exp := tokenExpiry(signedToken(t, time.Hour))
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	// Opaque tokens fall back to a short TTL instead of caching forever.
	exp = tokenExpiry("not-a-jwt")
	assert.WithinDuration(t, time.Now().Add(fallbackTokenTTL), exp, time.Minute)
}
