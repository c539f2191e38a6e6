// Package views implements the append-only view event log. An event is
// written once per playback attempt reported by the portal client and is
// never updated or deleted; analytics integrity depends on that.
package views

import (
	"time"
)

// ViewEvent is one recorded playback attempt. Area and video names are
// denormalized snapshots taken at event time and may go stale relative to
// the current gating configuration; that is intentional.
type ViewEvent struct {
	ID             string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	TenantID       string    `gorm:"column:tenant_id;index:idx_view_tenant_time,priority:1;not null"`
	AreaID         string    `gorm:"column:area_id"`
	AreaName       string    `gorm:"column:area_name"`
	CustomerID     string    `gorm:"column:customer_id"`
	CustomerEmail  string    `gorm:"column:customer_email"`
	VideoURL       string    `gorm:"column:video_url"`
	VideoLabel     string    `gorm:"column:video_label"`
	SessionKey     string    `gorm:"column:session_key"`
	SecondsWatched int       `gorm:"column:seconds_watched;default:0;not null"`
	Completed      bool      `gorm:"column:completed;default:false;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;index:idx_view_tenant_time,priority:2;autoCreateTime"`
}

// TableName returns the GORM table name.
func (ViewEvent) TableName() string { return "view_events" }
