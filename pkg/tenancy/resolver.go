// Package tenancy provides tenant context resolution and middleware for the
// administrative API. Every admin request is scoped to exactly one tenant,
// identified by query parameter or header.
package tenancy

import (
	"fmt"
	"net/http"
	"regexp"
)

// maxTenantIDLen is the maximum accepted length for a tenant id.
const maxTenantIDLen = 64

// tenantIDRe validates tenant id format: alphanumeric plus dot, underscore
// and hyphen. Tenant ids are opaque provider identifiers (often UUIDs).
var tenantIDRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// TenantQueryParam is the query parameter name used for tenant resolution.
const TenantQueryParam = "tenant_id"

// TenantHeader is the HTTP header used for tenant resolution.
const TenantHeader = "X-Tenant-ID"

// TenantResolver resolves the tenant context from an HTTP request.
type TenantResolver interface {
	Resolve(r *http.Request) (TenantContext, error)
}

// QueryTenantResolver reads the tenant id from the request query parameter
// or header. Admin endpoints always require a tenant.
type QueryTenantResolver struct{}

// Resolve extracts the tenant id from the request. It checks the query
// parameter first, then falls back to the X-Tenant-ID header. Returns an
// error if the tenant id is missing or invalid.
func (q QueryTenantResolver) Resolve(r *http.Request) (TenantContext, error) {
	id := r.URL.Query().Get(TenantQueryParam)
	if id == "" {
		id = r.Header.Get(TenantHeader)
	}

	if id == "" {
		return TenantContext{}, fmt.Errorf("tenant_id is required (use ?tenant_id= query param or X-Tenant-ID header)")
	}

	if err := validateTenantID(id); err != nil {
		return TenantContext{}, err
	}

	return TenantContext{TenantID: id}, nil
}

// validateTenantID checks that a tenant id is within length limits and
// contains only the accepted character set.
func validateTenantID(id string) error {
	if len(id) > maxTenantIDLen {
		return fmt.Errorf("tenant_id %q exceeds maximum length of %d characters", id, maxTenantIDLen)
	}
	if !tenantIDRe.MatchString(id) {
		return fmt.Errorf("tenant_id %q is invalid: must consist of alphanumeric characters, dots, underscores or hyphens, and must start with an alphanumeric character", id)
	}
	return nil
}
