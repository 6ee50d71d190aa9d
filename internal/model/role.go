package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Page permission names a role can grant. Compared by set containment.
const (
	PageDashboard  = "dashboard"
	PageSubmit     = "submit"
	PageReports    = "reports"
	PageStatistics = "statistics"
	PageUsers      = "users"
	PageTemplates  = "templates"
	PageLocations  = "locations"
	PageSettings   = "settings"
)

// AllPagePermissions enumerates every valid page permission.
var AllPagePermissions = []string{
	PageDashboard,
	PageSubmit,
	PageReports,
	PageStatistics,
	PageUsers,
	PageTemplates,
	PageLocations,
	PageSettings,
}

// UserRole is a named permission set. System roles (IsSystemRole) cannot be
// deleted; their display name and permissions stay editable but the name is fixed.
type UserRole struct {
	ID           uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string                      `gorm:"type:varchar(50);uniqueIndex;not null" json:"name"`
	DisplayName  string                      `gorm:"type:varchar(255);not null" json:"display_name"`
	Permissions  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"permissions"`
	IsSystemRole bool                        `gorm:"default:false" json:"is_system_role"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidPagePermission reports whether p names a known page permission.
func ValidPagePermission(p string) bool {
	for _, known := range AllPagePermissions {
		if p == known {
			return true
		}
	}
	return false
}
