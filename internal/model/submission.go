package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Submission statuses. Any authorized editor may set any status: the workflow
// submitted -> reviewed -> approved (or rejected) is conventional, not enforced.
const (
	SubmissionSubmitted = "submitted"
	SubmissionReviewed  = "reviewed"
	SubmissionApproved  = "approved"
	SubmissionRejected  = "rejected"
)

// SubmissionStatuses lists every valid status, in workflow order.
var SubmissionStatuses = []string{
	SubmissionSubmitted,
	SubmissionReviewed,
	SubmissionApproved,
	SubmissionRejected,
}

// DataSubmission is one filled-in instance of a template for a location and a
// "YYYY-MM" reporting period. FormData is schema-less jsonb shaped by the
// referenced template's field list; the server does not validate it against the
// template.
type DataSubmission struct {
	ID              uuid.UUID                          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TemplateID      uuid.UUID                          `gorm:"type:uuid;not null;index" json:"template_id"`
	SubmittedBy     uuid.UUID                          `gorm:"type:uuid;not null;index" json:"submitted_by"`
	ServiceLocation string                             `gorm:"type:varchar(255);not null;index" json:"service_location"`
	MonthYear       string                             `gorm:"type:varchar(7);not null;index" json:"month_year"`
	FormData        datatypes.JSONType[map[string]any] `gorm:"type:jsonb" json:"form_data"`
	Attachments     datatypes.JSONSlice[string]        `gorm:"type:jsonb" json:"attachments"`
	Status          string                             `gorm:"type:varchar(20);not null;default:'submitted';index" json:"status"`
	SubmittedAt     time.Time                          `gorm:"autoCreateTime" json:"submitted_at"`
	UpdatedAt       time.Time                          `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidSubmissionStatus reports whether s is one of the recognized statuses.
func ValidSubmissionStatus(s string) bool {
	for _, known := range SubmissionStatuses {
		if s == known {
			return true
		}
	}
	return false
}
