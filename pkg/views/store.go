package views

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store provides append and read operations for view events. There is no
// update or delete path.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the view_events table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&ViewEvent{}); err != nil {
		return fmt.Errorf("auto-migrate view_events: %w", err)
	}
	return nil
}

// Append writes a single immutable view event. No dedup is attempted here;
// uniqueness metrics are computed at read time.
func (s *Store) Append(event *ViewEvent) error {
	if event.TenantID == "" {
		return fmt.Errorf("append view event: tenant id is required")
	}
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.SecondsWatched < 0 {
		event.SecondsWatched = 0
	}

	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("append view event: %w", err)
	}
	return nil
}

// EventsInRange returns a tenant's events in recording order, optionally
// bounded by [from, to] on created_at. Both bounds are inclusive.
func (s *Store) EventsInRange(tenantID string, from, to *time.Time) ([]ViewEvent, error) {
	query := s.db.Where("tenant_id = ?", tenantID)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var events []ViewEvent
	if err := query.Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list view events: %w", err)
	}
	return events, nil
}

// AreaSample is one (area id, display name) observation from the event log.
type AreaSample struct {
	AreaID   string
	AreaName string
}

// RecentAreas returns the tenant's event area observations, most recent
// first, skipping events recorded without an area. Callers dedupe; keeping
// recency order here lets the first occurrence win as the freshest name.
func (s *Store) RecentAreas(tenantID string) ([]AreaSample, error) {
	var samples []AreaSample
	err := s.db.Model(&ViewEvent{}).
		Select("area_id, area_name").
		Where("tenant_id = ? AND area_id <> ''", tenantID).
		Order("created_at DESC").
		Find(&samples).Error
	if err != nil {
		return nil, fmt.Errorf("list event areas: %w", err)
	}
	return samples, nil
}
