package gating

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store provides database operations for gating configuration rows.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the gate_configs table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&GateConfig{}); err != nil {
		return fmt.Errorf("auto-migrate gate_configs: %w", err)
	}
	return nil
}

// Resolve returns the single applicable active config for a visitor scope.
// An area-scoped row wins; otherwise the tenant-wide default applies.
// Returns nil, nil when the tenant has no applicable config at all — that is
// a normal steady state, not an error, and callers must skip gating.
//
// Duplicate rows per scope are prevented by the upsert, but the read stays
// defensive: the most recently updated row wins.
func (s *Store) Resolve(tenantID, areaID string) (*GateConfig, error) {
	if tenantID == "" {
		return nil, nil
	}

	if areaID != TenantWideArea {
		cfg, err := s.lookup(tenantID, areaID)
		if err != nil {
			return nil, err
		}
		if cfg != nil {
			return cfg, nil
		}
	}

	return s.lookup(tenantID, TenantWideArea)
}

// lookup fetches the active config for one exact scope, nil if absent.
func (s *Store) lookup(tenantID, areaID string) (*GateConfig, error) {
	var cfg GateConfig
	err := s.db.
		Where("tenant_id = ? AND area_id = ? AND active = ?", tenantID, areaID, true).
		Order("updated_at DESC").
		First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("resolve gating config: %w", err)
	}
	return &cfg, nil
}

// GetByScope fetches the config row for an exact (tenant, area) scope without
// fallback, regardless of active state. Returns nil, nil if absent.
func (s *Store) GetByScope(tenantID, areaID string) (*GateConfig, error) {
	var cfg GateConfig
	err := s.db.
		Where("tenant_id = ? AND area_id = ?", tenantID, areaID).
		Order("updated_at DESC").
		First(&cfg).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get gating config: %w", err)
	}
	return &cfg, nil
}

// Upsert creates or updates the config row for the (tenant_id, area_id)
// natural key as a single atomic write. An existing row keeps its id and
// created_at; only the payload columns are reassigned. The operation is
// idempotent under retries with identical scope, and concurrent writers to
// the same scope cannot produce duplicate rows.
func (s *Store) Upsert(cfg *GateConfig) (*GateConfig, error) {
	if cfg.TenantID == "" {
		return nil, fmt.Errorf("upsert gating config: tenant id is required")
	}
	if cfg.VideoURL == "" {
		return nil, fmt.Errorf("upsert gating config: video url is required")
	}
	if cfg.ID == "" {
		cfg.ID = uuid.New().String()
	}
	if cfg.MinDuration == 0 {
		cfg.MinDuration = DefaultMinDuration
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tenant_id"}, {Name: "area_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label", "video_url", "video_label", "min_duration", "active",
			"updated_at",
		}),
	}).Create(cfg).Error
	if err != nil {
		return nil, fmt.Errorf("upsert gating config: %w", err)
	}

	// Re-read by natural key: when the write hit the conflict path the stored
	// row kept its original id and created_at, not the candidate's.
	stored, err := s.GetByScope(cfg.TenantID, cfg.AreaID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, fmt.Errorf("upsert gating config: row vanished after write")
	}
	return stored, nil
}

// Delete removes a config row by id. Deleting an absent id is not an error.
// Already-written view events keep their denormalized snapshots.
func (s *Store) Delete(id string) error {
	if err := s.db.Where("id = ?", id).Delete(&GateConfig{}).Error; err != nil {
		return fmt.Errorf("delete gating config: %w", err)
	}
	return nil
}

// ListByTenant returns all config rows for a tenant, newest first.
func (s *Store) ListByTenant(tenantID string) ([]GateConfig, error) {
	var rows []GateConfig
	err := s.db.
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list gating configs: %w", err)
	}
	return rows, nil
}

// VideoLabels returns a video_url -> video_label lookup built from the
// tenant's config rows, used to backfill labels on events that were recorded
// without one. The first non-empty label per URL wins.
func (s *Store) VideoLabels(tenantID string) (map[string]string, error) {
	rows, err := s.ListByTenant(tenantID)
	if err != nil {
		return nil, err
	}

	labels := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.VideoURL == "" || row.VideoLabel == "" {
			continue
		}
		if _, ok := labels[row.VideoURL]; !ok {
			labels[row.VideoURL] = row.VideoLabel
		}
	}
	return labels, nil
}
