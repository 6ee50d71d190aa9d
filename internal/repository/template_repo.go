package repository

import (
	"context"
	"encoding/json"

	"backend/internal/model"

	"gorm.io/gorm"
)

// TemplateRepository defines data access for FormTemplate entities.
type TemplateRepository interface {
	Create(ctx context.Context, template *model.FormTemplate) error
	GetByID(ctx context.Context, id string) (*model.FormTemplate, error)
	ListActive(ctx context.Context) ([]model.FormTemplate, error)
	ListActiveForLocation(ctx context.Context, location string) ([]model.FormTemplate, error)
	ListDeleted(ctx context.Context) ([]model.FormTemplate, error)
	Update(ctx context.Context, template *model.FormTemplate) error
}

type templateRepository struct {
	db *gorm.DB
}

// NewTemplateRepository returns a new instance of TemplateRepository.
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) Create(ctx context.Context, template *model.FormTemplate) error {
	return r.db.WithContext(ctx).Create(template).Error
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*model.FormTemplate, error) {
	var template model.FormTemplate
	if err := r.db.WithContext(ctx).First(&template, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *templateRepository) ListActive(ctx context.Context) ([]model.FormTemplate, error) {
	var templates []model.FormTemplate
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&templates).Error
	return templates, err
}

// ListActiveForLocation returns active templates whose assigned_locations jsonb
// array contains the given location name.
func (r *templateRepository) ListActiveForLocation(ctx context.Context, location string) ([]model.FormTemplate, error) {
	needle, err := json.Marshal([]string{location})
	if err != nil {
		return nil, err
	}
	var templates []model.FormTemplate
	err = r.db.WithContext(ctx).
		Where("is_active = ? AND assigned_locations @> ?", true, string(needle)).
		Order("name ASC").
		Find(&templates).Error
	return templates, err
}

func (r *templateRepository) ListDeleted(ctx context.Context) ([]model.FormTemplate, error) {
	var templates []model.FormTemplate
	err := r.db.WithContext(ctx).Where("is_active = ?", false).Order("name ASC").Find(&templates).Error
	return templates, err
}

func (r *templateRepository) Update(ctx context.Context, template *model.FormTemplate) error {
	return r.db.WithContext(ctx).Save(template).Error
}
