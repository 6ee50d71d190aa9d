package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// LocationRepository defines data access for ServiceLocation entities.
type LocationRepository interface {
	Create(ctx context.Context, location *model.ServiceLocation) error
	GetByID(ctx context.Context, id string) (*model.ServiceLocation, error)
	GetByName(ctx context.Context, name string) (*model.ServiceLocation, error)
	ListActive(ctx context.Context) ([]model.ServiceLocation, error)
	ListDeleted(ctx context.Context) ([]model.ServiceLocation, error)
	Update(ctx context.Context, location *model.ServiceLocation) error
	CountAll(ctx context.Context) (int64, error)
}

type locationRepository struct {
	db *gorm.DB
}

// NewLocationRepository returns a new instance of LocationRepository.
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *model.ServiceLocation) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*model.ServiceLocation, error) {
	var location model.ServiceLocation
	if err := r.db.WithContext(ctx).First(&location, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) GetByName(ctx context.Context, name string) (*model.ServiceLocation, error) {
	var location model.ServiceLocation
	if err := r.db.WithContext(ctx).First(&location, "name = ?", name).Error; err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) ListActive(ctx context.Context) ([]model.ServiceLocation, error) {
	var locations []model.ServiceLocation
	err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepository) ListDeleted(ctx context.Context) ([]model.ServiceLocation, error) {
	var locations []model.ServiceLocation
	err := r.db.WithContext(ctx).Where("is_active = ?", false).Order("name ASC").Find(&locations).Error
	return locations, err
}

func (r *locationRepository) Update(ctx context.Context, location *model.ServiceLocation) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *locationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.ServiceLocation{}).Count(&count).Error
	return count, err
}
