package tenancy

import (
	"net/http/httptest"
	"strings"
	"testing"
)

func TestQueryTenantResolver_QueryParam(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/v1alpha1/configs?tenant_id=t-123", nil)

	tc, err := QueryTenantResolver{}.Resolve(r)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if tc.TenantID != "t-123" {
		t.Errorf("TenantID = %q, want %q", tc.TenantID, "t-123")
	}
}

func TestQueryTenantResolver_Header(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/admin/v1alpha1/stats", nil)
	r.Header.Set(TenantHeader, "acme-corp")

	tc, err := QueryTenantResolver{}.Resolve(r)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if tc.TenantID != "acme-corp" {
		t.Errorf("TenantID = %q, want %q", tc.TenantID, "acme-corp")
	}
}

func TestQueryTenantResolver_QueryParamWins(t *testing.T) {
	r := httptest.NewRequest("GET", "/?tenant_id=from-query", nil)
	r.Header.Set(TenantHeader, "from-header")

	tc, err := QueryTenantResolver{}.Resolve(r)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if tc.TenantID != "from-query" {
		t.Errorf("TenantID = %q, want %q", tc.TenantID, "from-query")
	}
}

func TestQueryTenantResolver_Missing(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)

	_, err := QueryTenantResolver{}.Resolve(r)
	if err == nil {
		t.Fatal("expected error for missing tenant_id")
	}
	if !strings.Contains(err.Error(), "tenant_id is required") {
		t.Errorf("error %q does not mention missing tenant_id", err)
	}
}

func TestQueryTenantResolver_Invalid(t *testing.T) {
	cases := []string{
		"has space",
		"-leading-hyphen",
		strings.Repeat("a", maxTenantIDLen+1),
		"semi;colon",
	}
	for _, id := range cases {
		r := httptest.NewRequest("GET", "/", nil)
		r.Header.Set(TenantHeader, id)
		if _, err := (QueryTenantResolver{}).Resolve(r); err == nil {
			t.Errorf("expected error for tenant id %q", id)
		}
	}
}

func TestQueryTenantResolver_UUID(t *testing.T) {
	r := httptest.NewRequest("GET", "/?tenant_id=6ba7b810-9dad-11d1-80b4-00c04fd430c8", nil)
	tc, err := QueryTenantResolver{}.Resolve(r)
	if err != nil {
		t.Fatalf("Resolve returned error for UUID tenant id: %v", err)
	}
	if tc.TenantID != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("unexpected TenantID %q", tc.TenantID)
	}
}
