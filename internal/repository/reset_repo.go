package repository

import (
	"context"

	"backend/internal/model"

	"gorm.io/gorm"
)

// ResetRepository defines data access for PasswordResetRequest records.
type ResetRepository interface {
	Create(ctx context.Context, req *model.PasswordResetRequest) error
	GetPending(ctx context.Context, username, code string) (*model.PasswordResetRequest, error)
	Update(ctx context.Context, req *model.PasswordResetRequest) error
}

type resetRepository struct {
	db *gorm.DB
}

// NewResetRepository returns a new instance of ResetRepository.
func NewResetRepository(db *gorm.DB) ResetRepository {
	return &resetRepository{db: db}
}

func (r *resetRepository) Create(ctx context.Context, req *model.PasswordResetRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

// GetPending finds the newest pending reset request matching username and code.
func (r *resetRepository) GetPending(ctx context.Context, username, code string) (*model.PasswordResetRequest, error) {
	var req model.PasswordResetRequest
	err := r.db.WithContext(ctx).
		Where("username = ? AND code = ? AND status = ?", username, code, model.ResetPending).
		Order("created_at DESC").
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *resetRepository) Update(ctx context.Context, req *model.PasswordResetRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
