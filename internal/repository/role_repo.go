package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// RoleRepository defines data access for UserRole entities.
type RoleRepository interface {
	Create(ctx context.Context, role *model.UserRole) error
	GetByID(ctx context.Context, id string) (*model.UserRole, error)
	GetByName(ctx context.Context, name string) (*model.UserRole, error)
	List(ctx context.Context) ([]model.UserRole, error)
	Update(ctx context.Context, role *model.UserRole) error
	Delete(ctx context.Context, id string) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository returns a new instance of RoleRepository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.UserRole) error {
	return r.db.WithContext(ctx).Create(role).Error
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*model.UserRole, error) {
	var role model.UserRole
	if err := r.db.WithContext(ctx).First(&role, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) GetByName(ctx context.Context, name string) (*model.UserRole, error) {
	var role model.UserRole
	if err := r.db.WithContext(ctx).First(&role, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepository) List(ctx context.Context) ([]model.UserRole, error) {
	var roles []model.UserRole
	err := r.db.WithContext(ctx).Order("name ASC").Find(&roles).Error
	return roles, err
}

func (r *roleRepository) Update(ctx context.Context, role *model.UserRole) error {
	return r.db.WithContext(ctx).Save(role).Error
}

func (r *roleRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.UserRole{}).Error
}
