package analytics

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hotspotlabs/viewgate/pkg/tenancy"
)

// StatsHandler handles GET /stats?tenant_id=...&from=...&to=...
func StatsHandler(engine *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := tenancy.TenantIDFromContext(r.Context())
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_id is required")
			return
		}

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")

		report, err := engine.Compute(tenantID, from, to)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, ErrInvalidDate) {
				status = http.StatusBadRequest
			}
			writeError(w, status, fmt.Sprintf("failed to compute stats: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

// NewRouter creates a chi router with the stats route, tenant-scoped.
func NewRouter(engine *Engine) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(tenancy.NewMiddleware())
		r.Get("/", StatsHandler(engine))
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
