package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// --- DTOs ---

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Username string `json:"username" binding:"required"`
}

type ResetPasswordRequest struct {
	Username    string `json:"username" binding:"required"`
	ResetCode   string `json:"reset_code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type UserInfo struct {
	ID               string   `json:"id"`
	Username         string   `json:"username"`
	Role             string   `json:"role"`
	AssignedLocation string   `json:"assigned_location"`
	PagePermissions  []string `json:"page_permissions"`
}

type LoginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	User        UserInfo `json:"user"`
}

type ForgotPasswordResponse struct {
	Message   string `json:"message"`
	ResetCode string `json:"reset_code,omitempty"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// AuthService covers login, self-registration and the password lifecycle.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*UserInfo, error)
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error)
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
	CurrentUser(ctx context.Context, userID string) (*UserInfo, error)
}

type authService struct {
	users  repository.UserRepository
	resets repository.ResetRepository
	cfg    *config.Config
	now    func() time.Time
}

// NewAuthService returns a new instance of AuthService.
func NewAuthService(users repository.UserRepository, resets repository.ResetRepository, cfg *config.Config) AuthService {
	return &authService{users: users, resets: resets, cfg: cfg, now: time.Now}
}

func toUserInfo(user *model.User) UserInfo {
	perms := []string(user.PagePermissions)
	if perms == nil {
		perms = []string{}
	}
	return UserInfo{
		ID:               user.ID.String(),
		Username:         user.Username,
		Role:             user.Role,
		AssignedLocation: user.AssignedLocation,
		PagePermissions:  perms,
	}
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid credentials")
	}

	switch user.Status {
	case model.StatusPending:
		return nil, apperror.Unauthorized("Account pending approval")
	case model.StatusRejected:
		return nil, apperror.Unauthorized("Account has been rejected")
	}
	if !user.IsActive || user.DeletedAt != nil {
		return nil, apperror.Unauthorized("Account is disabled")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, apperror.Internal("Failed to generate token")
	}

	return &LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        toUserInfo(user),
	}, nil
}

// signToken issues a signed, time-bound bearer token carrying id/username/role.
func (s *authService) signToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      s.now().Add(s.cfg.TokenTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.cfg.JWTSecret)
}

// Register creates a pending, inactive account. An admin must approve it before
// login succeeds.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserInfo, error) {
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return nil, apperror.BadRequest("Username already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("Failed to hash password")
	}

	user := &model.User{
		Username:     req.Username,
		PasswordHash: string(hash),
		Role:         model.RoleDataEntry,
		IsActive:     false,
		Status:       model.StatusPending,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	info := toUserInfo(user)
	return &info, nil
}

// ForgotPassword issues a one-time numeric code. The code is returned in the
// response body: the operator hands it to the user out of band. Unknown usernames
// still get a success-shaped response so the endpoint cannot be used to probe for
// accounts.
func (s *authService) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (*ForgotPasswordResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil || user.DeletedAt != nil {
		return &ForgotPasswordResponse{Message: "If the account exists, a reset code has been generated"}, nil
	}

	code, err := generateResetCode()
	if err != nil {
		return nil, apperror.Internal("Failed to generate reset code")
	}

	expiresAt := s.now().Add(s.cfg.ResetCodeTTL)
	reset := &model.PasswordResetRequest{
		Username:  user.Username,
		UserID:    user.ID,
		Code:      code,
		Status:    model.ResetPending,
		ExpiresAt: expiresAt,
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		return nil, fmt.Errorf("failed to store reset request: %w", err)
	}

	return &ForgotPasswordResponse{
		Message:   "Reset code generated",
		ResetCode: code,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// ResetPassword consumes a pending, unexpired code exactly once.
func (s *authService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	reset, err := s.resets.GetPending(ctx, req.Username, req.ResetCode)
	if err != nil {
		return apperror.BadRequest("Invalid or expired reset code")
	}
	if s.now().After(reset.ExpiresAt) {
		return apperror.BadRequest("Invalid or expired reset code")
	}

	user, err := s.users.GetByID(ctx, reset.UserID.String())
	if err != nil {
		return apperror.BadRequest("Invalid or expired reset code")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("Failed to hash password")
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	usedAt := s.now()
	reset.Status = model.ResetUsed
	reset.UsedAt = &usedAt
	if err := s.resets.Update(ctx, reset); err != nil {
		return fmt.Errorf("failed to mark reset code used: %w", err)
	}

	return nil
}

// ChangePassword re-verifies the current password and rejects reuse.
func (s *authService) ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperror.Unauthorized("User not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperror.Unauthorized("Current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return apperror.BadRequest("New password must differ from the current password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.Internal("Failed to hash password")
	}

	user.PasswordHash = string(hash)
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, userID string) (*UserInfo, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}
	info := toUserInfo(user)
	return &info, nil
}

// generateResetCode returns a 6-digit numeric code.
func generateResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
