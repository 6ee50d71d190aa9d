package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateTemplateRequest struct {
	Name              string                `json:"name" binding:"required"`
	Description       string                `json:"description"`
	Fields            []model.TemplateField `json:"fields" binding:"required"`
	AssignedLocations []string              `json:"assigned_locations"`
}

type TemplateResponse struct {
	ID                string                `json:"id"`
	Name              string                `json:"name"`
	Description       string                `json:"description"`
	Fields            []model.TemplateField `json:"fields"`
	AssignedLocations []string              `json:"assigned_locations"`
	CreatedBy         string                `json:"created_by"`
	IsActive          bool                  `json:"is_active"`
	CreatedAt         time.Time             `json:"created_at"`
}

// TemplateService manages form templates. Listing is location-scoped for
// non-admin callers.
type TemplateService interface {
	CreateTemplate(ctx context.Context, req CreateTemplateRequest, createdBy string) (*TemplateResponse, error)
	GetTemplate(ctx context.Context, id string) (*TemplateResponse, error)
	ListTemplates(ctx context.Context, role, assignedLocation string) ([]TemplateResponse, error)
	ListDeletedTemplates(ctx context.Context) ([]TemplateResponse, error)
	UpdateTemplate(ctx context.Context, id string, req CreateTemplateRequest, updatedBy string) (*TemplateResponse, error)
	DeleteTemplate(ctx context.Context, id string) error
	RestoreTemplate(ctx context.Context, id string) (*TemplateResponse, error)
}

type templateService struct {
	templates repository.TemplateRepository
}

// NewTemplateService returns a new instance of TemplateService.
func NewTemplateService(templates repository.TemplateRepository) TemplateService {
	return &templateService{templates: templates}
}

func toTemplateResponse(template *model.FormTemplate) *TemplateResponse {
	fields := []model.TemplateField(template.Fields)
	if fields == nil {
		fields = []model.TemplateField{}
	}
	locations := []string(template.AssignedLocations)
	if locations == nil {
		locations = []string{}
	}
	return &TemplateResponse{
		ID:                template.ID.String(),
		Name:              template.Name,
		Description:       template.Description,
		Fields:            fields,
		AssignedLocations: locations,
		CreatedBy:         template.CreatedBy.String(),
		IsActive:          template.IsActive,
		CreatedAt:         template.CreatedAt,
	}
}

func validateFields(fields []model.TemplateField) error {
	if len(fields) == 0 {
		return apperror.BadRequest("Template must define at least one field")
	}
	for _, f := range fields {
		if f.Name == "" {
			return apperror.BadRequest("Every template field needs a name")
		}
		switch f.Type {
		case model.FieldText, model.FieldTextarea, model.FieldNumber, model.FieldDate, model.FieldSelect, model.FieldFile:
		default:
			return apperror.Newf(apperror.ErrBadRequest, "Unknown field type '%s'", f.Type)
		}
		if f.Type == model.FieldSelect && len(f.Options) == 0 {
			return apperror.Newf(apperror.ErrBadRequest, "Select field '%s' needs options", f.Name)
		}
	}
	return nil
}

func (s *templateService) CreateTemplate(ctx context.Context, req CreateTemplateRequest, createdBy string) (*TemplateResponse, error) {
	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}

	creator, err := uuid.Parse(createdBy)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid user id")
	}

	template := &model.FormTemplate{
		Name:              req.Name,
		Description:       req.Description,
		Fields:            req.Fields,
		AssignedLocations: req.AssignedLocations,
		CreatedBy:         creator,
		IsActive:          true,
	}
	if err := s.templates.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}
	return toTemplateResponse(template), nil
}

func (s *templateService) GetTemplate(ctx context.Context, id string) (*TemplateResponse, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Template not found")
	}
	return toTemplateResponse(template), nil
}

// ListTemplates shows admins everything; other roles only see templates assigned
// to their location.
func (s *templateService) ListTemplates(ctx context.Context, role, assignedLocation string) ([]TemplateResponse, error) {
	var templates []model.FormTemplate
	var err error
	if role == model.RoleAdmin {
		templates, err = s.templates.ListActive(ctx)
	} else {
		templates, err = s.templates.ListActiveForLocation(ctx, assignedLocation)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	return mapTemplates(templates), nil
}

func (s *templateService) ListDeletedTemplates(ctx context.Context) ([]TemplateResponse, error) {
	templates, err := s.templates.ListDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted templates: %w", err)
	}
	return mapTemplates(templates), nil
}

func mapTemplates(templates []model.FormTemplate) []TemplateResponse {
	responses := make([]TemplateResponse, 0, len(templates))
	for i := range templates {
		responses = append(responses, *toTemplateResponse(&templates[i]))
	}
	return responses
}

func (s *templateService) UpdateTemplate(ctx context.Context, id string, req CreateTemplateRequest, updatedBy string) (*TemplateResponse, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Template not found")
	}
	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}

	template.Name = req.Name
	template.Description = req.Description
	template.Fields = req.Fields
	template.AssignedLocations = req.AssignedLocations
	if updater, parseErr := uuid.Parse(updatedBy); parseErr == nil {
		template.UpdatedBy = &updater
	}

	if err := s.templates.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to update template: %w", err)
	}
	return toTemplateResponse(template), nil
}

func (s *templateService) DeleteTemplate(ctx context.Context, id string) error {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Template not found")
	}
	template.IsActive = false
	if err := s.templates.Update(ctx, template); err != nil {
		return fmt.Errorf("failed to delete template: %w", err)
	}
	return nil
}

func (s *templateService) RestoreTemplate(ctx context.Context, id string) (*TemplateResponse, error) {
	template, err := s.templates.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Template not found")
	}
	if template.IsActive {
		return nil, apperror.BadRequest("Template is not deleted")
	}
	template.IsActive = true
	if err := s.templates.Update(ctx, template); err != nil {
		return nil, fmt.Errorf("failed to restore template: %w", err)
	}
	return toTemplateResponse(template), nil
}
