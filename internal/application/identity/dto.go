package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/identity"
)

// ============================================================================
// Auth DTOs
// ============================================================================

// LoginInput contains the input for user login
type LoginInput struct {
	Username string
	Password string
	IP       string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID          uuid.UUID
	Username    string
	DisplayName string
	Role        string
	EngineerID  *uuid.UUID
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string        // access token ID to revoke
	TokenTTL     time.Duration // remaining access token lifetime
	RefreshToken string        // optional, revoked as well when present
}

// ChangePasswordInput contains the input for a password change
type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// ============================================================================
// User DTOs
// ============================================================================

// CreateUserRequest represents a request to create a login account
type CreateUserRequest struct {
	Username    string     `json:"username" binding:"required,min=3,max=100"`
	Password    string     `json:"password" binding:"required,min=8,max=72"`
	DisplayName string     `json:"display_name" binding:"max=200"`
	Role        string     `json:"role" binding:"required,oneof=admin engineer"`
	EngineerID  *uuid.UUID `json:"engineer_id"`
}

// UpdateUserRequest represents a request to update a login account
type UpdateUserRequest struct {
	DisplayName *string    `json:"display_name" binding:"omitempty,max=200"`
	Role        *string    `json:"role" binding:"omitempty,oneof=admin engineer"`
	EngineerID  *uuid.UUID `json:"engineer_id"`
	Active      *bool      `json:"active"`
}

// ResetPasswordRequest sets a new password for another user
type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// UserListFilter represents filter options for the user list
type UserListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"page_size,default=20" binding:"min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"display_name"`
	Role        string     `json:"role"`
	EngineerID  *uuid.UUID `json:"engineer_id,omitempty"`
	Active      bool       `json:"active"`
	Locked      bool       `json:"locked"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserInfo converts a domain user to the login summary
func ToUserInfo(u *identity.User) UserInfo {
	return UserInfo{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayNameOrUsername(),
		Role:        u.Role.String(),
		EngineerID:  u.EngineerID,
	}
}

// ToUserResponse converts a domain user to a response DTO
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role.String(),
		EngineerID:  u.EngineerID,
		Active:      u.Active,
		Locked:      u.IsLocked(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of domain users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
