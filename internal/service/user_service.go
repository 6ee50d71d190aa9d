package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type CreateUserRequest struct {
	Username         string   `json:"username" binding:"required"`
	Password         string   `json:"password" binding:"required,min=6"`
	Role             string   `json:"role" binding:"required"`
	AssignedLocation string   `json:"assigned_location"`
	PagePermissions  []string `json:"page_permissions"`
}

type UpdateUserRequest struct {
	Username         *string  `json:"username"`
	Password         *string  `json:"password"`
	Role             *string  `json:"role"`
	AssignedLocation *string  `json:"assigned_location"`
	PagePermissions  []string `json:"page_permissions"`
	IsActive         *bool    `json:"is_active"`
}

type ApproveUserRequest struct {
	UserID           string   `json:"user_id" binding:"required"`
	Status           string   `json:"status" binding:"required,oneof=approved rejected"`
	Role             string   `json:"role"`
	AssignedLocation string   `json:"assigned_location"`
	PagePermissions  []string `json:"page_permissions"`
}

type UserResponse struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Role             string     `json:"role"`
	AssignedLocation string     `json:"assigned_location"`
	PagePermissions  []string   `json:"page_permissions"`
	IsActive         bool       `json:"is_active"`
	Status           string     `json:"status"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	DeletedAt        *time.Time `json:"deleted_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// UserService is the admin-facing account management surface.
type UserService interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error)
	UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, id string, deletedBy string) error
	ListPendingUsers(ctx context.Context) ([]UserResponse, error)
	ApproveUser(ctx context.Context, req ApproveUserRequest, approvedBy string) (*UserResponse, error)
	ListDeletedUsers(ctx context.Context) ([]UserResponse, error)
	RestoreUser(ctx context.Context, id string, restoredBy string) (*UserResponse, error)
}

type userService struct {
	users repository.UserRepository
	roles repository.RoleRepository
	audit repository.AuditRepository
	now   func() time.Time
}

// NewUserService returns a new instance of UserService.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, audit repository.AuditRepository) UserService {
	return &userService{users: users, roles: roles, audit: audit, now: time.Now}
}

func toUserResponse(user *model.User) *UserResponse {
	perms := []string(user.PagePermissions)
	if perms == nil {
		perms = []string{}
	}
	return &UserResponse{
		ID:               user.ID.String(),
		Username:         user.Username,
		Role:             user.Role,
		AssignedLocation: user.AssignedLocation,
		PagePermissions:  perms,
		IsActive:         user.IsActive,
		Status:           user.Status,
		ApprovedAt:       user.ApprovedAt,
		DeletedAt:        user.DeletedAt,
		CreatedAt:        user.CreatedAt,
	}
}

// validateRole accepts built-in role names and any custom role on record.
func (s *userService) validateRole(ctx context.Context, role string) error {
	switch role {
	case model.RoleAdmin, model.RoleManager, model.RoleDataEntry, model.RoleStatistician:
		return nil
	}
	if _, err := s.roles.GetByName(ctx, role); err != nil {
		return apperror.Newf(apperror.ErrBadRequest, "Unknown role '%s'", role)
	}
	return nil
}

func validatePermissions(perms []string) error {
	for _, p := range perms {
		if !model.ValidPagePermission(p) {
			return apperror.Newf(apperror.ErrBadRequest, "Unknown page permission '%s'", p)
		}
	}
	return nil
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	if err := s.validateRole(ctx, req.Role); err != nil {
		return nil, err
	}
	if err := validatePermissions(req.PagePermissions); err != nil {
		return nil, err
	}
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperror.BadRequest("Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password")
	}

	user := &model.User{
		Username:         req.Username,
		PasswordHash:     string(hash),
		Role:             req.Role,
		AssignedLocation: req.AssignedLocation,
		PagePermissions:  req.PagePermissions,
		IsActive:         true,
		Status:           model.StatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	return toUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.users.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, total, nil
}

func (s *userService) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}

	if req.Role != nil {
		if err := s.validateRole(ctx, *req.Role); err != nil {
			return nil, err
		}
		user.Role = *req.Role
	}
	if req.Username != nil && *req.Username != user.Username {
		if _, err := s.users.GetByUsername(ctx, *req.Username); err == nil {
			return nil, apperror.BadRequest("Username already exists")
		}
		user.Username = *req.Username
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, apperror.BadRequest("Password must be at least 6 characters")
		}
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, apperror.Internal("Failed to hash password")
		}
		user.PasswordHash = string(hash)
	}
	if req.AssignedLocation != nil {
		user.AssignedLocation = *req.AssignedLocation
	}
	if req.PagePermissions != nil {
		if err := validatePermissions(req.PagePermissions); err != nil {
			return nil, err
		}
		user.PagePermissions = req.PagePermissions
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return toUserResponse(user), nil
}

// DeleteUser soft-deletes: the record stays on file, excluded from default
// listings and blocked from login.
func (s *userService) DeleteUser(ctx context.Context, id string, deletedBy string) error {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return apperror.NotFound("User not found")
	}
	if user.DeletedAt != nil {
		return apperror.BadRequest("User is already deleted")
	}

	now := s.now()
	user.DeletedAt = &now
	if actor, parseErr := uuid.Parse(deletedBy); parseErr == nil {
		user.DeletedBy = &actor
	}
	user.IsActive = false

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.writeAudit(ctx, deletedBy, model.ActionDeleteUser, user.ID.String(), user.Username, nil)
	return nil
}

func (s *userService) ListPendingUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.ListByStatus(ctx, model.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, nil
}

// ApproveUser resolves a pending registration. Approval activates the account and
// assigns role, location and page permissions; rejection leaves it inactive.
func (s *userService) ApproveUser(ctx context.Context, req ApproveUserRequest, approvedBy string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	if user.Status != model.StatusPending {
		return nil, apperror.BadRequest("User is not pending approval")
	}

	now := s.now()
	action := model.ActionRejectUser

	switch req.Status {
	case model.StatusApproved:
		if req.Role != "" {
			if err := s.validateRole(ctx, req.Role); err != nil {
				return nil, err
			}
			user.Role = req.Role
		}
		if err := validatePermissions(req.PagePermissions); err != nil {
			return nil, err
		}
		user.AssignedLocation = req.AssignedLocation
		if req.PagePermissions != nil {
			user.PagePermissions = req.PagePermissions
		}
		user.Status = model.StatusApproved
		user.IsActive = true
		user.ApprovedAt = &now
		action = model.ActionApproveUser
	case model.StatusRejected:
		user.Status = model.StatusRejected
		user.IsActive = false
	default:
		return nil, apperror.BadRequest("Status must be 'approved' or 'rejected'")
	}

	if actor, parseErr := uuid.Parse(approvedBy); parseErr == nil {
		user.ApprovedBy = &actor
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.writeAudit(ctx, approvedBy, action, user.ID.String(), user.Username, map[string]any{
		"status":            req.Status,
		"role":              user.Role,
		"assigned_location": user.AssignedLocation,
	})
	return toUserResponse(user), nil
}

func (s *userService) ListDeletedUsers(ctx context.Context) ([]UserResponse, error) {
	users, err := s.users.ListDeleted(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list deleted users: %w", err)
	}

	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, *toUserResponse(&users[i]))
	}
	return responses, nil
}

func (s *userService) RestoreUser(ctx context.Context, id string, restoredBy string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.NotFound("User not found")
	}
	if user.DeletedAt == nil {
		return nil, apperror.BadRequest("User is not deleted")
	}

	now := s.now()
	user.DeletedAt = nil
	user.DeletedBy = nil
	user.RestoredAt = &now
	if actor, parseErr := uuid.Parse(restoredBy); parseErr == nil {
		user.RestoredBy = &actor
	}
	user.IsActive = true

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to restore user: %w", err)
	}

	s.writeAudit(ctx, restoredBy, model.ActionRestoreUser, user.ID.String(), user.Username, nil)
	return toUserResponse(user), nil
}

// writeAudit records the action without failing the caller; a missed audit row is
// logged at the repository layer at worst.
func (s *userService) writeAudit(ctx context.Context, actor, action, entityID, entityName string, details map[string]any) {
	entry := &model.AuditLog{
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
	}
	if actorID, err := uuid.Parse(actor); err == nil {
		entry.UserID = &actorID
	}
	if details != nil {
		raw, _ := json.Marshal(details)
		entry.Details = string(raw)
	}
	_ = s.audit.Create(ctx, entry)
}
