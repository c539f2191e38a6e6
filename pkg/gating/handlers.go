package gating

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/hotspotlabs/viewgate/pkg/tenancy"
)

// ListConfigsHandler handles GET /configs?tenant_id=...
// Returns all config rows for the tenant, newest first.
func ListConfigsHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID := tenancy.TenantIDFromContext(r.Context())
		if tenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_id is required")
			return
		}

		rows, err := store.ListByTenant(tenantID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to list configs: %v", err))
			return
		}

		out := make([]ConfigResponse, len(rows))
		for i := range rows {
			out[i] = configToResponse(&rows[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// upsertRequest is the admin save payload. min_duration tolerates numeric
// strings and garbage input; anything unparseable (or zero) falls back to
// DefaultMinDuration rather than failing the save.
type upsertRequest struct {
	TenantID    string     `json:"tenant_id"`
	AreaID      string     `json:"area_id"`
	Label       string     `json:"label"`
	VideoURL    string     `json:"video_url"`
	VideoLabel  string     `json:"video_label"`
	MinDuration lenientInt `json:"min_duration"`
	Active      *bool      `json:"active"`
}

// UpsertConfigHandler handles POST /configs.
// Creates or updates the row for the (tenant, area) scope; an empty or
// missing area_id targets the tenant-wide default scope.
func UpsertConfigHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req upsertRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		if req.TenantID == "" || req.VideoURL == "" {
			writeError(w, http.StatusBadRequest, "tenant_id and video_url are required")
			return
		}

		active := true
		if req.Active != nil {
			active = *req.Active
		}

		cfg := &GateConfig{
			TenantID:    req.TenantID,
			AreaID:      strings.TrimSpace(req.AreaID),
			Label:       req.Label,
			VideoURL:    req.VideoURL,
			VideoLabel:  req.VideoLabel,
			MinDuration: int(req.MinDuration),
			Active:      active,
		}

		saved, err := store.Upsert(cfg)
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to save config: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data":    configToResponse(saved),
		})
	}
}

// DeleteConfigHandler handles DELETE /configs/{id}.
func DeleteConfigHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "missing config id")
			return
		}

		if err := store.Delete(id); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to delete config: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// lenientInt decodes JSON numbers, numeric strings, and anything else into an
// int, mapping undecodable input to zero instead of an error. Numeric strings
// are read like parseInt: an optional sign followed by leading digits, with
// any trailing garbage ignored.
type lenientInt int

// UnmarshalJSON implements json.Unmarshaler.
func (n *lenientInt) UnmarshalJSON(data []byte) error {
	*n = 0

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	switch t := v.(type) {
	case float64:
		*n = lenientInt(int(t))
	case string:
		*n = lenientInt(parseLeadingInt(t))
	}
	return nil
}

// parseLeadingInt reads an optional sign and leading decimal digits from s,
// ignoring surrounding whitespace and trailing non-digits. Returns 0 when no
// digits are found.
func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	i := 0
	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}
	v := 0
	start := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		v = v*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0
	}
	if neg {
		return -v
	}
	return v
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
