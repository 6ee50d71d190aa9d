package model

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	ActionApproveUser      = "APPROVE_USER"
	ActionRejectUser       = "REJECT_USER"
	ActionDeleteUser       = "DELETE_USER"
	ActionRestoreUser      = "RESTORE_USER"
	ActionDeleteSubmission = "DELETE_SUBMISSION"
	ActionDeleteRole       = "DELETE_ROLE"
	ActionUpdateSetting    = "UPDATE_SETTING"
)

// AuditLog tracks who did what and when for sensitive changes. Details carries a
// serialized snapshot of the affected record where the change is destructive
// (submission hard delete keeps its prior state here).
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index;autoCreateTime" json:"created_at"`
}
