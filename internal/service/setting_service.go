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

type UpdateSettingRequest struct {
	Value string `json:"value" binding:"required"`
}

type SettingResponse struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingService manages admin key-value settings.
type SettingService interface {
	ListSettings(ctx context.Context) ([]SettingResponse, error)
	GetSetting(ctx context.Context, key string) (*SettingResponse, error)
	UpdateSetting(ctx context.Context, key, value, updatedBy string) (*SettingResponse, error)
}

type settingService struct {
	settings repository.SettingRepository
	audit    repository.AuditRepository
}

// NewSettingService returns a new instance of SettingService.
func NewSettingService(settings repository.SettingRepository, audit repository.AuditRepository) SettingService {
	return &settingService{settings: settings, audit: audit}
}

func toSettingResponse(setting *model.AdminSetting) *SettingResponse {
	return &SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt,
	}
}

func (s *settingService) ListSettings(ctx context.Context) ([]SettingResponse, error) {
	settings, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	responses := make([]SettingResponse, 0, len(settings))
	for i := range settings {
		responses = append(responses, *toSettingResponse(&settings[i]))
	}
	return responses, nil
}

func (s *settingService) GetSetting(ctx context.Context, key string) (*SettingResponse, error) {
	setting, err := s.settings.Get(ctx, key)
	if err != nil {
		return nil, apperror.NotFound("Setting not found")
	}
	return toSettingResponse(setting), nil
}

func (s *settingService) UpdateSetting(ctx context.Context, key, value, updatedBy string) (*SettingResponse, error) {
	setting := &model.AdminSetting{Key: key, Value: value}
	if actorID, err := uuid.Parse(updatedBy); err == nil {
		setting.UpdatedBy = &actorID
	}
	if err := s.settings.Upsert(ctx, setting); err != nil {
		return nil, fmt.Errorf("failed to update setting: %w", err)
	}

	entry := &model.AuditLog{
		Action:     model.ActionUpdateSetting,
		EntityID:   key,
		EntityName: key,
		Details:    fmt.Sprintf(`{"value":%q}`, value),
	}
	entry.UserID = setting.UpdatedBy
	_ = s.audit.Create(ctx, entry)

	return toSettingResponse(setting), nil
}
