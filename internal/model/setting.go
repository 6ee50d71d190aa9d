package model

import (
	"time"

	"github.com/google/uuid"
)

// Well-known setting keys
const (
	SettingReportDeadline = "report_deadline"
)

// AdminSetting is a key-value pair with a last-updated audit trail.
type AdminSetting struct {
	Key       string     `gorm:"type:varchar(100);primaryKey" json:"key"`
	Value     string     `gorm:"type:text" json:"value"`
	UpdatedBy *uuid.UUID `gorm:"type:uuid" json:"updated_by,omitempty"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
