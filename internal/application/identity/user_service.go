package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/opsboard/backend/internal/domain/identity"
	"github.com/opsboard/backend/internal/domain/partner"
	"github.com/opsboard/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService manages login accounts
type UserService struct {
	userRepo     identity.UserRepository
	engineerRepo partner.EngineerRepository
	logger       *zap.Logger
}

// NewUserService creates a new UserService
func NewUserService(userRepo identity.UserRepository, engineerRepo partner.EngineerRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		userRepo:     userRepo,
		engineerRepo: engineerRepo,
		logger:       logger,
	}
}

// Create creates a new user
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	exists, err := s.userRepo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}

	user, err := identity.NewUser(req.Username, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := user.SetDisplayName(req.DisplayName); err != nil {
		return nil, err
	}
	if err := s.linkEngineer(ctx, user, req.EngineerID); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("role", user.Role.String()))

	resp := ToUserResponse(user)
	return &resp, nil
}

// GetByID retrieves a user by ID
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// List retrieves a list of users with filtering and pagination
func (s *UserService) List(ctx context.Context, filter UserListFilter) ([]UserResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	users, total, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToUserResponses(users), total, nil
}

// Update updates a user's profile, role, engineer link or active flag
func (s *UserService) Update(ctx context.Context, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if err := user.SetDisplayName(*req.DisplayName); err != nil {
			return nil, err
		}
	}
	if req.Role != nil {
		if err := user.ChangeRole(identity.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.EngineerID != nil {
		if err := s.linkEngineer(ctx, user, req.EngineerID); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		if *req.Active {
			user.Activate()
		} else {
			user.Deactivate()
		}
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	return &resp, nil
}

// ResetPassword sets a new password without checking the old one
func (s *UserService) ResetPassword(ctx context.Context, id uuid.UUID, req ResetPasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.Password); err != nil {
		return err
	}
	user.Activate()
	if err := s.userRepo.Save(ctx, user); err != nil {
		return err
	}
	s.logger.Info("User password reset", zap.String("user_id", id.String()))
	return nil
}

// linkEngineer attaches an engineer record. uuid.Nil removes the link.
func (s *UserService) linkEngineer(ctx context.Context, user *identity.User, engineerID *uuid.UUID) error {
	if engineerID == nil || *engineerID == uuid.Nil {
		user.LinkEngineer(nil)
		return nil
	}
	if _, err := s.engineerRepo.FindByID(ctx, *engineerID); err != nil {
		return err
	}
	id := *engineerID
	user.LinkEngineer(&id)
	return nil
}
