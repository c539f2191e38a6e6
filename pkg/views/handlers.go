package views

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// recordRequest is the portal client's view report. Everything except the
// tenant is optional and independently defaulted: seconds_watched tolerates
// numeric strings and garbage (defaulting to 0), completed coerces any
// truthy value. Leniency here is a contract — a half-broken client must
// still produce a usable event rather than an error.
type recordRequest struct {
	TenantID       string     `json:"tenant_id"`
	AreaID         string     `json:"area_id"`
	AreaName       string     `json:"area_name"`
	CustomerID     string     `json:"customer_id"`
	CustomerEmail  string     `json:"customer_email"`
	VideoURL       string     `json:"video_url"`
	VideoLabel     string     `json:"video_label"`
	SessionKey     string     `json:"session_key"`
	SecondsWatched lenientInt `json:"seconds_watched"`
	Completed      truthyBool `json:"completed"`
}

// RecordHandler handles POST /views: validates, normalizes, and appends
// exactly one event.
func RecordHandler(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req recordRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
			return
		}

		if req.TenantID == "" {
			writeError(w, http.StatusBadRequest, "tenant_id is required")
			return
		}

		event := &ViewEvent{
			TenantID:       req.TenantID,
			AreaID:         req.AreaID,
			AreaName:       req.AreaName,
			CustomerID:     req.CustomerID,
			CustomerEmail:  req.CustomerEmail,
			VideoURL:       req.VideoURL,
			VideoLabel:     req.VideoLabel,
			SessionKey:     req.SessionKey,
			SecondsWatched: int(req.SecondsWatched),
			Completed:      bool(req.Completed),
		}

		if err := store.Append(event); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("failed to record view: %v", err))
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}
}

// lenientInt decodes JSON numbers and numeric strings into an int, mapping
// anything undecodable to zero. Numeric strings are read parseInt-style:
// optional sign, leading digits, trailing garbage ignored.
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

// truthyBool coerces any JSON value to a bool: false, 0, "", and null are
// false; everything else — including the string "false" — is true.
type truthyBool bool

// UnmarshalJSON implements json.Unmarshaler.
func (b *truthyBool) UnmarshalJSON(data []byte) error {
	*b = false

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}

	switch t := v.(type) {
	case bool:
		*b = truthyBool(t)
	case float64:
		*b = t != 0
	case string:
		*b = t != ""
	case map[string]any, []any:
		*b = true
	}
	return nil
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
