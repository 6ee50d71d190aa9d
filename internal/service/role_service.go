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

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	DisplayName string   `json:"display_name" binding:"required"`
	Permissions []string `json:"permissions"`
}

type UpdateRoleRequest struct {
	Name        *string  `json:"name"`
	DisplayName *string  `json:"display_name"`
	Permissions []string `json:"permissions"`
}

type RoleResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	DisplayName  string    `json:"display_name"`
	Permissions  []string  `json:"permissions"`
	IsSystemRole bool      `json:"is_system_role"`
	CreatedAt    time.Time `json:"created_at"`
}

// RoleService manages named permission sets. System roles cannot be deleted and
// keep their name, though display name and permissions stay editable.
type RoleService interface {
	ListRoles(ctx context.Context) ([]RoleResponse, error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, id string, deletedBy string) error
}

type roleService struct {
	roles repository.RoleRepository
	users repository.UserRepository
	audit repository.AuditRepository
}

// NewRoleService returns a new instance of RoleService.
func NewRoleService(roles repository.RoleRepository, users repository.UserRepository, audit repository.AuditRepository) RoleService {
	return &roleService{roles: roles, users: users, audit: audit}
}

func toRoleResponse(role *model.UserRole) *RoleResponse {
	perms := []string(role.Permissions)
	if perms == nil {
		perms = []string{}
	}
	return &RoleResponse{
		ID:           role.ID.String(),
		Name:         role.Name,
		DisplayName:  role.DisplayName,
		Permissions:  perms,
		IsSystemRole: role.IsSystemRole,
		CreatedAt:    role.CreatedAt,
	}
}

func (s *roleService) ListRoles(ctx context.Context) ([]RoleResponse, error) {
	roles, err := s.roles.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}

	responses := make([]RoleResponse, 0, len(roles))
	for i := range roles {
		responses = append(responses, *toRoleResponse(&roles[i]))
	}
	return responses, nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Role not found")
	}
	return toRoleResponse(role), nil
}

func (s *roleService) CreateRole(ctx context.Context, req CreateRoleRequest) (*RoleResponse, error) {
	if err := validatePermissions(req.Permissions); err != nil {
		return nil, err
	}
	if _, err := s.roles.GetByName(ctx, req.Name); err == nil {
		return nil, apperror.BadRequest("Role name already exists")
	}

	role := &model.UserRole{
		Name:         req.Name,
		DisplayName:  req.DisplayName,
		Permissions:  req.Permissions,
		IsSystemRole: false,
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to create role: %w", err)
	}
	return toRoleResponse(role), nil
}

func (s *roleService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("Role not found")
	}

	if req.Name != nil && *req.Name != role.Name {
		if role.IsSystemRole {
			return nil, apperror.Forbidden("Cannot rename a system role")
		}
		if _, err := s.roles.GetByName(ctx, *req.Name); err == nil {
			return nil, apperror.BadRequest("Role name already exists")
		}
		role.Name = *req.Name
	}
	if req.DisplayName != nil {
		role.DisplayName = *req.DisplayName
	}
	if req.Permissions != nil {
		if err := validatePermissions(req.Permissions); err != nil {
			return nil, err
		}
		role.Permissions = req.Permissions
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}
	return toRoleResponse(role), nil
}

// DeleteRole refuses system roles unconditionally, and custom roles while any
// active user still holds them.
func (s *roleService) DeleteRole(ctx context.Context, id string, deletedBy string) error {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("Role not found")
	}
	if role.IsSystemRole {
		return apperror.Forbidden("System roles cannot be deleted")
	}

	holders, err := s.users.CountActiveByRole(ctx, role.Name)
	if err != nil {
		return fmt.Errorf("failed to count role holders: %w", err)
	}
	if holders > 0 {
		return apperror.Newf(apperror.ErrBadRequest, "Role '%s' is still assigned to %d active user(s)", role.Name, holders)
	}

	if err := s.roles.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete role: %w", err)
	}

	entry := &model.AuditLog{
		Action:     model.ActionDeleteRole,
		EntityID:   role.ID.String(),
		EntityName: role.Name,
	}
	if actorID, parseErr := uuid.Parse(deletedBy); parseErr == nil {
		entry.UserID = &actorID
	}
	_ = s.audit.Create(ctx, entry)
	return nil
}
