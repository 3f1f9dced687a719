package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role determines what a user may change
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEngineer Role = "engineer"
)

// IsValid checks if the role is a known value
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEngineer
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// bcryptCost is a var so tests can lower it
var bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber       = regexp.MustCompile(`[0-9]`)
)

// User is a login account for the dashboard
type User struct {
	shared.BaseEntity
	Username       string
	PasswordHash   string
	DisplayName    string
	Role           Role
	EngineerID     *uuid.UUID
	Active         bool
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(username, password string, role Role) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be 'admin' or 'engineer'")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}, nil
}

// LinkEngineer ties the account to an engineer record
func (u *User) LinkEngineer(engineerID *uuid.UUID) {
	u.EngineerID = engineerID
	u.Touch()
}

// ChangePassword replaces the password after validating it
func (u *User) ChangePassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	hash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = hash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsAdmin returns true for admin accounts
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsLocked reports whether the account is temporarily locked
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin reports whether the account may authenticate now
func (u *User) CanLogin() bool {
	return u.Active && !u.IsLocked()
}

// RecordLoginSuccess clears failure tracking
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// RecordLoginFailure counts a failed attempt and locks the account once
// maxAttempts is reached. It returns true when the account became locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockFor time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockFor)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		return true
	}
	return false
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.Touch()
}

// Activate re-enables the account and clears any lock
func (u *User) Activate() {
	u.Active = true
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// SetDisplayName sets the name shown in the dashboard
func (u *User) SetDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_DISPLAY_NAME", "Display name cannot exceed 200 characters")
	}
	u.DisplayName = name
	u.Touch()
	return nil
}

// ChangeRole switches between admin and engineer
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Role must be 'admin' or 'engineer'")
	}
	u.Role = role
	u.Touch()
	return nil
}

// DisplayNameOrUsername returns the display name when set
func (u *User) DisplayNameOrUsername() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

func validateUsername(username string) error {
	if username == "" {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if len(username) < 3 {
		return shared.NewDomainError("INVALID_USERNAME", "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError("INVALID_USERNAME", "Username cannot exceed 100 characters")
	}
	if !usernamePattern.MatchString(username) {
		return shared.NewDomainError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
