// Package portal serves the visitor-facing captive portal API: session
// context resolution and the gating journey. Everything on this path fails
// open; a broken integration must never block a visitor's network access.
package portal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// SessionContext is the identity provider's view of a portal session.
// Everything except the tenant is optional.
type SessionContext struct {
	TenantID      string
	AreaID        string
	AreaName      string
	CustomerID    string
	CustomerEmail string
}

// IdentityClient resolves an opaque session key into a SessionContext.
// A session the provider does not recognize resolves to (nil, nil).
type IdentityClient interface {
	ResolveSession(ctx context.Context, sessionKey string) (*SessionContext, error)
}

// BridgeClient resolves sessions against the identity provider's bridge
// endpoint, GET {base}/bridge/sessions/{sessionKey}.
type BridgeClient struct {
	baseURL string
	http    *http.Client
}

// NewBridgeClient creates a BridgeClient for the given API root.
func NewBridgeClient(baseURL string) *BridgeClient {
	return &BridgeClient{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type bridgeResponse struct {
	Status string `json:"status"`
	Data   *struct {
		Tenant *struct {
			ID string `json:"id"`
		} `json:"tenant"`
		Area *struct {
			ID string `json:"id"`
		} `json:"area"`
		AreaName string `json:"areaName"`
		Customer *struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// ResolveSession asks the bridge for the session's context. A non-success
// status from the provider means "no context", not an error.
func (c *BridgeClient) ResolveSession(ctx context.Context, sessionKey string) (*SessionContext, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/bridge/sessions/"+url.PathEscape(sessionKey), nil)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolve session: %w", err)
	}
	defer resp.Body.Close()

	var result bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("resolve session: decode error: %w", err)
	}
	if result.Status != "success" || result.Data == nil {
		return nil, nil
	}

	sctx := &SessionContext{AreaName: result.Data.AreaName}
	if result.Data.Tenant != nil {
		sctx.TenantID = result.Data.Tenant.ID
	}
	if result.Data.Area != nil {
		sctx.AreaID = result.Data.Area.ID
	}
	if result.Data.Customer != nil {
		sctx.CustomerID = result.Data.Customer.ID
		sctx.CustomerEmail = result.Data.Customer.Email
	}
	return sctx, nil
}
