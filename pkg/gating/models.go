// Package gating implements the video gating configuration model and its
// resolution rules. A configuration row is scoped to a tenant and optionally
// to one area within that tenant; the empty area scope is the tenant-wide
// default that area-scoped lookups fall back to.
package gating

import (
	"time"
)

// DefaultMinDuration is the minimum watch time, in seconds, applied when an
// admin save omits the duration or supplies something unparseable.
const DefaultMinDuration = 10

// TenantWideArea is the stored area id of a tenant-wide default config.
// Storing the empty string instead of NULL keeps the (tenant_id, area_id)
// unique index effective for tenant-wide rows as well.
const TenantWideArea = ""

// GateConfig is a video gating configuration row. At most one active row
// exists per (tenant_id, area_id) scope, enforced by the unique index and
// the ON CONFLICT upsert in Store.Upsert.
type GateConfig struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	TenantID    string    `gorm:"column:tenant_id;uniqueIndex:idx_gate_scope,priority:1;not null"`
	AreaID      string    `gorm:"column:area_id;uniqueIndex:idx_gate_scope,priority:2;not null;default:''"`
	Label       string    `gorm:"column:label"`
	VideoURL    string    `gorm:"column:video_url;not null"`
	VideoLabel  string    `gorm:"column:video_label"`
	MinDuration int       `gorm:"column:min_duration;default:10;not null"`
	Active      bool      `gorm:"column:active;default:true;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName returns the GORM table name.
func (GateConfig) TableName() string { return "gate_configs" }

// ConfigResponse is the JSON representation of a config row. Optional fields
// are pointers so that unset values serialize as null, matching the scope
// semantics (null area_id means tenant-wide).
type ConfigResponse struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenant_id"`
	AreaID      *string   `json:"area_id"`
	Label       *string   `json:"label"`
	VideoURL    string    `json:"video_url"`
	VideoLabel  *string   `json:"video_label"`
	MinDuration int       `json:"min_duration"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// configToResponse maps a stored row onto its JSON shape.
func configToResponse(c *GateConfig) ConfigResponse {
	return ConfigResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		AreaID:      optString(c.AreaID),
		Label:       optString(c.Label),
		VideoURL:    c.VideoURL,
		VideoLabel:  optString(c.VideoLabel),
		MinDuration: c.MinDuration,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// optString returns nil for the empty string, so optional columns render as
// JSON null rather than "".
func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
