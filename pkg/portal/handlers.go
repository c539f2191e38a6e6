package portal

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hotspotlabs/viewgate/pkg/gating"
	"github.com/hotspotlabs/viewgate/pkg/views"
)

// journeyContext mirrors the identity context back to the portal client.
// Absent values serialize as null.
type journeyContext struct {
	TenantID      string  `json:"tenantId"`
	AreaID        *string `json:"areaId"`
	AreaName      *string `json:"areaName"`
	CustomerID    *string `json:"customerId"`
	CustomerEmail *string `json:"customerEmail"`
}

type journeyResponse struct {
	Skip        bool            `json:"skip"`
	VideoURL    string          `json:"videoUrl,omitempty"`
	MinDuration int             `json:"minDuration,omitempty"`
	VideoLabel  *string         `json:"videoLabel,omitempty"`
	Context     *journeyContext `json:"context,omitempty"`
}

// JourneyHandler handles GET /journey?sk=...
//
// Every failure on this path answers {"skip": true} with 200: a missing
// session key, an unreachable identity provider, an unknown session, a
// tenant with no applicable config. Skipping means "do not gate".
func JourneyHandler(identity IdentityClient, configs *gating.Store) http.HandlerFunc {
	skip := func(w http.ResponseWriter) {
		writeJSON(w, http.StatusOK, journeyResponse{Skip: true})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		sessionKey := r.URL.Query().Get("sk")
		if sessionKey == "" {
			skip(w)
			return
		}

		sctx, err := identity.ResolveSession(r.Context(), sessionKey)
		if err != nil || sctx == nil || sctx.TenantID == "" {
			skip(w)
			return
		}

		cfg, err := configs.Resolve(sctx.TenantID, sctx.AreaID)
		if err != nil || cfg == nil {
			skip(w)
			return
		}

		writeJSON(w, http.StatusOK, journeyResponse{
			Skip:        false,
			VideoURL:    cfg.VideoURL,
			MinDuration: cfg.MinDuration,
			VideoLabel:  optString(cfg.VideoLabel),
			Context: &journeyContext{
				TenantID:      sctx.TenantID,
				AreaID:        optString(sctx.AreaID),
				AreaName:      optString(sctx.AreaName),
				CustomerID:    optString(sctx.CustomerID),
				CustomerEmail: optString(sctx.CustomerEmail),
			},
		})
	}
}

// NewRouter creates a chi router with the visitor-facing routes.
func NewRouter(identity IdentityClient, configs *gating.Store, events *views.Store) chi.Router {
	r := chi.NewRouter()
	r.Get("/journey", JourneyHandler(identity, configs))
	r.Post("/views", views.RecordHandler(events))
	return r
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
