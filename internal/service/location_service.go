package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"
)

// --- DTOs ---

type CreateLocationRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type UpdateLocationRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type LocationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// LocationService manages service locations with soft delete and restore.
type LocationService interface {
	CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error)
	GetLocation(ctx context.Context, id string) (*LocationResponse, error)
	ListLocations(ctx context.Context) ([]LocationResponse, error)
	ListDeletedLocations(ctx context.Context) ([]LocationResponse, error)
	UpdateLocation(ctx context.Context, id string, req UpdateLocationRequest) (*LocationResponse, error)
	DeleteLocation(ctx context.Context, id string) error
	RestoreLocation(ctx context.Context, id string) (*LocationResponse, error)
}

type locationService struct {
	locations repository.LocationRepository
}

// NewLocationService returns a new instance of LocationService.
func NewLocationService(locations repository.LocationRepository) LocationService {
	return &locationService{locations: locations}
}

func toLocationResponse(location *model.ServiceLocation) *LocationResponse {
	return &LocationResponse{
		ID:          location.ID.String(),
		Name:        location.Name,
		Description: location.Description,
		IsActive:    location.IsActive,
		CreatedAt:   location.CreatedAt,
	}
}

func (s *locationService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResponse, error) {
	if _, err := s.locations.GetByName(ctx, req.Name); err == nil {
		return nil, apperror.BadRequest("Location name already exists")
	}

	location := &model.ServiceLocation{
		Name:        req.Name,
		Description: req.Description,
		IsActive:    true,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return toLocationResponse(location), nil
}

func (s *locationService) GetLocation(ctx context.Context, id string) (*LocationResponse, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Location not found")
	}
	return toLocationResponse(location), nil
}

func (s *locationService) ListLocations(ctx context.Context) ([]LocationResponse, error) {
	locations, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	return mapLocations(locations), nil
}

func (s *locationService) ListDeletedLocations(ctx context.Context) ([]LocationResponse, error) {
	locations, err := s.locations.ListDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted locations: %w", err)
	}
	return mapLocations(locations), nil
}

func mapLocations(locations []model.ServiceLocation) []LocationResponse {
	responses := make([]LocationResponse, 0, len(locations))
	for i := range locations {
		responses = append(responses, *toLocationResponse(&locations[i]))
	}
	return responses
}

func (s *locationService) UpdateLocation(ctx context.Context, id string, req UpdateLocationRequest) (*LocationResponse, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Location not found")
	}

	if req.Name != nil && *req.Name != location.Name {
		if _, err := s.locations.GetByName(ctx, *req.Name); err == nil {
			return nil, apperror.BadRequest("Location name already exists")
		}
		location.Name = *req.Name
	}
	if req.Description != nil {
		location.Description = *req.Description
	}

	if err := s.locations.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to update location: %w", err)
	}
	return toLocationResponse(location), nil
}

func (s *locationService) DeleteLocation(ctx context.Context, id string) error {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Location not found")
	}
	location.IsActive = false
	if err := s.locations.Update(ctx, location); err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	return nil
}

func (s *locationService) RestoreLocation(ctx context.Context, id string) (*LocationResponse, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Location not found")
	}
	if location.IsActive {
		return nil, apperror.BadRequest("Location is not deleted")
	}
	location.IsActive = true
	if err := s.locations.Update(ctx, location); err != nil {
		return nil, fmt.Errorf("failed to restore location: %w", err)
	}
	return toLocationResponse(location), nil
}
