package areas

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hotspotlabs/viewgate/pkg/tenancy"
)

// ListAreasHandler handles GET /areas?tenant_id=...
func ListAreasHandler(dir Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := tenancy.TenantIDFromContext(r.Context())
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_id is required")
			return
		}

		areas, err := dir.ListAreas(r.Context(), tenantID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list areas: %v", err))
			return
		}
		if areas == nil {
			areas = []Area{}
		}

		writeJSON(w, http.StatusOK, areas)
	}
}

// NewRouter creates a chi router with the area routes, tenant-scoped.
func NewRouter(dir Directory) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(tenancy.NewMiddleware())
		r.Get("/", ListAreasHandler(dir))
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
