// Package audit records administrative mutations (config writes and
// deletes) as an append-only trail, with a retention worker that prunes
// old entries.
package audit

import (
	"time"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEvent is one recorded admin mutation.
type AuditEvent struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	TenantID   string    `gorm:"column:tenant_id;index:idx_audit_tenant_time,priority:1"`
	Action     string    `gorm:"column:action;not null"`
	Resource   string    `gorm:"column:resource;not null"`
	ResourceID string    `gorm:"column:resource_id"`
	Outcome    string    `gorm:"column:outcome;not null"`
	StatusCode int       `gorm:"column:status_code"`
	Method     string    `gorm:"column:method"`
	Path       string    `gorm:"column:path"`
	RequestID  string    `gorm:"column:request_id;index"`
	CreatedAt  time.Time `gorm:"column:created_at;index:idx_audit_tenant_time,priority:2;autoCreateTime"`
}

// TableName returns the GORM table name.
func (AuditEvent) TableName() string { return "audit_events" }
