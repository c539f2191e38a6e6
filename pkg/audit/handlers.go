package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hotspotlabs/viewgate/pkg/tenancy"
)

// eventResponse is the JSON shape of one audit event.
type eventResponse struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID string    `json:"resource_id,omitempty"`
	Outcome    string    `json:"outcome"`
	StatusCode int       `json:"status_code"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	RequestID  string    `json:"request_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// ListEventsHandler handles GET /audit?tenant_id=...&limit=...
func ListEventsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := tenancy.TenantIDFromContext(r.Context())
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_id is required")
			return
		}

		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, _ = strconv.Atoi(v)
		}

		events, err := store.ListByTenant(tenantID, limit)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list audit events: %v", err))
			return
		}

		out := make([]eventResponse, 0, len(events))
		for _, e := range events {
			out = append(out, eventResponse{
				ID:         e.ID,
				TenantID:   e.TenantID,
				Action:     e.Action,
				Resource:   e.Resource,
				ResourceID: e.ResourceID,
				Outcome:    e.Outcome,
				StatusCode: e.StatusCode,
				Method:     e.Method,
				Path:       e.Path,
				RequestID:  e.RequestID,
				CreatedAt:  e.CreatedAt,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// NewRouter creates a chi router with the audit routes, tenant-scoped.
func NewRouter(store *Store) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(tenancy.NewMiddleware())
		r.Get("/", ListEventsHandler(store))
	})
	return r
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
