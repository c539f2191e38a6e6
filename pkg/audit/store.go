package audit

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// defaultListLimit caps audit listings when the caller gives no limit.
const defaultListLimit = 100

// Store provides append and read operations for audit events.
type Store struct {
	db *gorm.DB
}

// NewStore creates a new Store.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// AutoMigrate creates or updates the audit_events table.
func (s *Store) AutoMigrate() error {
	if err := s.db.AutoMigrate(&AuditEvent{}); err != nil {
		return fmt.Errorf("auto-migrate audit_events: %w", err)
	}
	return nil
}

// Append writes a single audit event.
func (s *Store) Append(event *AuditEvent) error {
	if err := s.db.Create(event).Error; err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}
	return nil
}

// ListByTenant returns the tenant's audit events, newest first.
func (s *Store) ListByTenant(tenantID string, limit int) ([]AuditEvent, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var events []AuditEvent
	err := s.db.
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	return events, nil
}

// DeleteOlderThan removes events created before the cutoff and returns the
// number of rows deleted.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := s.db.Where("created_at < ?", cutoff).Delete(&AuditEvent{})
	if result.Error != nil {
		return 0, fmt.Errorf("delete audit events: %w", result.Error)
	}
	return result.RowsAffected, nil
}
