package gating

import (
	"github.com/go-chi/chi/v5"

	"github.com/hotspotlabs/viewgate/pkg/tenancy"
)

// NewRouter creates a chi router with the gating config admin routes.
// Listing is tenant-scoped via the tenancy middleware; writes carry the
// tenant in the request body and validate it themselves.
func NewRouter(store *Store) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(tenancy.NewMiddleware())
		r.Get("/", ListConfigsHandler(store))
	})

	r.Post("/", UpsertConfigHandler(store))
	r.Delete("/{id}", DeleteConfigHandler(store))

	return r
}
