package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Form field types accepted in template definitions
const (
	FieldText     = "text"
	FieldTextarea = "textarea"
	FieldNumber   = "number"
	FieldDate     = "date"
	FieldSelect   = "select"
	FieldFile     = "file"
)

// TemplateField is one entry of a template's ordered field list.
type TemplateField struct {
	Name     string   `json:"name"`
	Type     string   `json:"type"`
	Label    string   `json:"label"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

// FormTemplate is an admin-authored schema of form fields that submissions
// populate. Fields are stored as an ordered jsonb list; AssignedLocations holds
// the location names the template is offered to.
type FormTemplate struct {
	ID                uuid.UUID                          `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name              string                             `gorm:"type:varchar(255);not null" json:"name"`
	Description       string                             `gorm:"type:text" json:"description"`
	Fields            datatypes.JSONSlice[TemplateField] `gorm:"type:jsonb" json:"fields"`
	AssignedLocations datatypes.JSONSlice[string]        `gorm:"type:jsonb" json:"assigned_locations"`
	CreatedBy         uuid.UUID                          `gorm:"type:uuid" json:"created_by"`
	UpdatedBy         *uuid.UUID                         `gorm:"type:uuid" json:"updated_by,omitempty"`
	IsActive          bool                               `gorm:"default:true;index" json:"is_active"`
	CreatedAt         time.Time                          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time                          `gorm:"autoUpdateTime" json:"updated_at"`
}
