package audit

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/hotspotlabs/viewgate/pkg/tenancy"
)

// adminPrefix marks the routes whose mutations are audited.
const adminPrefix = "/api/admin/"

// responseCapture wraps http.ResponseWriter to capture the status code.
type responseCapture struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (rc *responseCapture) WriteHeader(code int) {
	if !rc.written {
		rc.statusCode = code
		rc.written = true
	}
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	if !rc.written {
		rc.statusCode = http.StatusOK
		rc.written = true
	}
	return rc.ResponseWriter.Write(b)
}

// Middleware records admin mutations as audit events after the handler
// completes. Reads and visitor traffic pass through unrecorded, and an
// audit write failure never fails the request.
func Middleware(store *Store, cfg *Config, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg == nil || !cfg.Enabled || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			if !isAuditedRequest(r.Method, r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			startTime := time.Now()
			capture := &responseCapture{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			// Resolved before the handler runs: the body peek must
			// happen while the body is still unread.
			tenantID := resolveTenant(r)

			next.ServeHTTP(capture, r)

			resource, resourceID := parseResource(r.Method, r.URL.Path)
			requestID := middleware.GetReqID(r.Context())

			event := &AuditEvent{
				ID:         uuid.New().String(),
				TenantID:   tenantID,
				Action:     actionVerb(r.Method),
				Resource:   resource,
				ResourceID: resourceID,
				Outcome:    outcomeFromStatus(capture.statusCode),
				StatusCode: capture.statusCode,
				Method:     r.Method,
				Path:       r.URL.Path,
				RequestID:  requestID,
				CreatedAt:  startTime,
			}

			// Best-effort write: don't fail the request if audit write fails.
			if err := store.Append(event); err != nil {
				logger.Error("failed to write audit event", "error", err, "requestID", requestID)
			}
		})
	}
}

// maxTenantPeekBytes bounds how large a request body is buffered when
// looking for the tenant id.
const maxTenantPeekBytes = 1 << 20

// resolveTenant finds the tenant for an audited request. The tenancy
// middleware lives inside the mounted routers, after this one, and config
// upserts carry the tenant in the request body rather than the URL.
func resolveTenant(r *http.Request) string {
	if id := r.URL.Query().Get(tenancy.TenantQueryParam); id != "" {
		return id
	}
	if id := r.Header.Get(tenancy.TenantHeader); id != "" {
		return id
	}
	return tenantFromBody(r)
}

// tenantFromBody peeks tenant_id out of a JSON request body, restoring the
// body for the handler. Bodies of unknown or oversized length are left alone.
func tenantFromBody(r *http.Request) string {
	if r.Body == nil || r.ContentLength <= 0 || r.ContentLength > maxTenantPeekBytes {
		return ""
	}

	data, err := io.ReadAll(r.Body)
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var payload struct {
		TenantID string `json:"tenant_id"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	return payload.TenantID
}

// isAuditedRequest reports whether a request is an admin mutation.
func isAuditedRequest(method, path string) bool {
	if !strings.HasPrefix(path, adminPrefix) {
		return false
	}
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// parseResource extracts the resource name and, for deletes, the target id
// from an admin path like /api/admin/v1alpha1/configs/{id}.
func parseResource(method, path string) (resource, resourceID string) {
	rest := strings.TrimPrefix(path, adminPrefix)
	parts := strings.Split(strings.Trim(rest, "/"), "/")
	// parts[0] is the API version segment.
	if len(parts) > 1 {
		resource = parts[1]
	}
	if method == http.MethodDelete && len(parts) > 2 {
		resourceID = parts[len(parts)-1]
	}
	return resource, resourceID
}

func actionVerb(method string) string {
	switch method {
	case http.MethodDelete:
		return "delete"
	default:
		return "write"
	}
}

// outcomeFromStatus maps HTTP status codes to audit outcomes.
func outcomeFromStatus(code int) string {
	if code >= 200 && code < 300 {
		return OutcomeSuccess
	}
	return OutcomeFailure
}
