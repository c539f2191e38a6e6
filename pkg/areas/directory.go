// Package areas lists the WiFi areas known for a tenant, either inferred
// from local history or fetched from the external directory.
package areas

import (
	"context"
	"fmt"
	"sort"

	"github.com/hotspotlabs/viewgate/pkg/directory"
	"github.com/hotspotlabs/viewgate/pkg/gating"
	"github.com/hotspotlabs/viewgate/pkg/views"
)

// Area is one WiFi area a tenant can scope a gate config to.
type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Directory lists a tenant's areas. A tenant with no known areas yields an
// empty list, not an error.
type Directory interface {
	ListAreas(ctx context.Context, tenantID string) ([]Area, error)
}

// HistoryDirectory infers areas from what the service has already seen:
// area-scoped gate configs plus areas observed on recorded view events.
type HistoryDirectory struct {
	events  *views.Store
	configs *gating.Store
}

// NewHistoryDirectory creates a HistoryDirectory over the given stores.
func NewHistoryDirectory(events *views.Store, configs *gating.Store) *HistoryDirectory {
	return &HistoryDirectory{events: events, configs: configs}
}

// ListAreas merges event and config area observations. Display names
// prefer the freshest event snapshot, then the config label, then the id.
func (d *HistoryDirectory) ListAreas(_ context.Context, tenantID string) ([]Area, error) {
	samples, err := d.events.RecentAreas(tenantID)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	configs, err := d.configs.ListByTenant(tenantID)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}

	names := map[string]string{}
	// RecentAreas is newest-first, so the first non-empty name per area is
	// the freshest snapshot.
	for _, sample := range samples {
		if _, seen := names[sample.AreaID]; !seen {
			names[sample.AreaID] = sample.AreaName
		}
	}
	for _, cfg := range configs {
		if cfg.AreaID == gating.TenantWideArea {
			continue
		}
		if names[cfg.AreaID] == "" {
			names[cfg.AreaID] = cfg.Label
		}
	}

	areas := make([]Area, 0, len(names))
	for id, name := range names {
		if name == "" {
			name = id
		}
		areas = append(areas, Area{ID: id, Name: name})
	}
	sort.Slice(areas, func(i, j int) bool {
		if areas[i].Name != areas[j].Name {
			return areas[i].Name < areas[j].Name
		}
		return areas[i].ID < areas[j].ID
	})
	return areas, nil
}

// ExternalDirectory lists areas from the directory API.
type ExternalDirectory struct {
	client *directory.Client
}

// NewExternalDirectory creates an ExternalDirectory over the given client.
func NewExternalDirectory(client *directory.Client) *ExternalDirectory {
	return &ExternalDirectory{client: client}
}

// ListAreas fetches the tenant's locations from the directory.
func (d *ExternalDirectory) ListAreas(ctx context.Context, tenantID string) ([]Area, error) {
	locations, err := d.client.ListLocations(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list areas: %w", err)
	}
	areas := make([]Area, 0, len(locations))
	for _, loc := range locations {
		name := loc.Name
		if name == "" {
			name = loc.ID
		}
		areas = append(areas, Area{ID: loc.ID, Name: name})
	}
	return areas, nil
}
