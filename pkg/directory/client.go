package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenSkew is subtracted from the token expiry so a token is refreshed
// slightly before the directory would reject it.
const tokenSkew = 30 * time.Second

// fallbackTokenTTL is used when the access token carries no exp claim.
const fallbackTokenTTL = 5 * time.Minute

// Location is one directory entry for a tenant's WiFi area.
type Location struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Client talks to the directory API. It caches the bearer token between
// calls and re-logs in when the token's exp claim is near.
type Client struct {
	cfg  *Config
	http *http.Client

	mu       sync.Mutex
	token    string
	tokenExp time.Time
}

// NewClient creates a directory client from the given config.
func NewClient(cfg *Config) *Client {
	return &Client{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// ListLocations returns every location the directory knows for the tenant,
// walking pages until a short page signals the end.
func (c *Client) ListLocations(ctx context.Context, tenantID string) ([]Location, error) {
	if tenantID == "" {
		return nil, fmt.Errorf("list locations: tenant id is required")
	}

	locations := []Location{}
	for page := 1; ; page++ {
		batch, err := c.listPage(ctx, tenantID, page)
		if err != nil {
			return nil, err
		}
		locations = append(locations, batch...)
		if len(batch) < c.cfg.PageSize {
			return locations, nil
		}
	}
}

type locationsPage struct {
	Data []Location `json:"data"`
}

func (c *Client) listPage(ctx context.Context, tenantID string, page int) ([]Location, error) {
	token, err := c.bearerToken(ctx)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("tenant_id", tenantID)
	query.Set("page", strconv.Itoa(page))
	query.Set("page_size", strconv.Itoa(c.cfg.PageSize))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.BaseURL+"/locations?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		// The directory revoked the token early; drop it so the next
		// call logs in again.
		c.mu.Lock()
		c.token = ""
		c.mu.Unlock()
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("list locations: directory returned %d: %s", resp.StatusCode, string(body))
	}

	var result locationsPage
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("list locations: decode error: %w", err)
	}
	return result.Data, nil
}

// bearerToken returns a cached token or performs the login exchange.
func (c *Client) bearerToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.tokenExp.Add(-tokenSkew)) {
		return c.token, nil
	}

	token, err := c.login(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.tokenExp = tokenExpiry(token)
	return c.token, nil
}

func (c *Client) login(ctx context.Context) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_key":    c.cfg.ClientKey,
		"client_secret": c.cfg.ClientSecret,
	})
	if err != nil {
		return "", fmt.Errorf("directory login: marshal error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/auth/token", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("directory login: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("directory login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("directory login: directory returned %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("directory login: decode error: %w", err)
	}
	if result.AccessToken == "" {
		return "", fmt.Errorf("directory login: response carried no access token")
	}
	return result.AccessToken, nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// client only needs expiry for refresh scheduling, the directory verifies.
func tokenExpiry(token string) time.Time {
	parser := jwt.NewParser()
	parsed, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Now().Add(fallbackTokenTTL)
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Now().Add(fallbackTokenTTL)
	}
	return exp.Time
}
