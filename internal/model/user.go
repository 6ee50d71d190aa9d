package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// User account statuses
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusActive   = "active"
)

// Built-in role names
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleDataEntry    = "data_entry"
	RoleStatistician = "statistician"
)

// User represents a platform account. Accounts are never hard-deleted: DeletedAt/DeletedBy
// mark removal so the record stays listable under /admin/deleted-users and restorable.
type User struct {
	ID               uuid.UUID                   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username         string                      `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	PasswordHash     string                      `gorm:"type:varchar(255);not null" json:"-"`
	Role             string                      `gorm:"type:varchar(50);not null" json:"role"`
	AssignedLocation string                      `gorm:"type:varchar(255)" json:"assigned_location"`
	PagePermissions  datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"page_permissions"`
	IsActive         bool                        `gorm:"default:true" json:"is_active"`
	Status           string                      `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	ApprovedBy       *uuid.UUID                  `gorm:"type:uuid" json:"approved_by,omitempty"`
	ApprovedAt       *time.Time                  `json:"approved_at,omitempty"`
	DeletedAt        *time.Time                  `gorm:"index" json:"deleted_at,omitempty"`
	DeletedBy        *uuid.UUID                  `gorm:"type:uuid" json:"deleted_by,omitempty"`
	RestoredAt       *time.Time                  `json:"restored_at,omitempty"`
	RestoredBy       *uuid.UUID                  `gorm:"type:uuid" json:"restored_by,omitempty"`
	CreatedAt        time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

// HasPermission reports whether the user's page permission set contains page.
func (u *User) HasPermission(page string) bool {
	for _, p := range u.PagePermissions {
		if p == page {
			return true
		}
	}
	return false
}

// Reset request statuses
const (
	ResetPending = "pending"
	ResetUsed    = "used"
)

// PasswordResetRequest is a one-time numeric code tied to an account. The code is
// handed back to the caller directly ("contact your admin" delivery), expires after
// a short window and flips to used on the first successful reset.
type PasswordResetRequest struct {
	ID        uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string     `gorm:"type:varchar(255);not null;index" json:"username"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null" json:"user_id"`
	Code      string     `gorm:"type:varchar(10);not null" json:"code"`
	Status    string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
