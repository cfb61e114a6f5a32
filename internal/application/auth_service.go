package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	apperrors "github.com/his-platform/inventory-service/pkg/errors"
	"github.com/his-platform/inventory-service/pkg/logging"

	"github.com/his-platform/inventory-service/internal/domain"
)

// AuthService handles account registration and login.
type AuthService struct {
	users  domain.UserRepository
	tokens *TokenManager
	logger *logging.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(users domain.UserRepository, tokens *TokenManager, logger *logging.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// Register creates a user account and returns a fresh token for it.
// Self-registration only produces staff accounts; elevated roles are
// provisioned out of band.
func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (*AuthResultDTO, error) {
	if cmd.Role != "" && cmd.Role != domain.RoleStaff {
		return nil, apperrors.ErrForbidden("elevated roles are provisioned by an administrator")
	}

	user, err := domain.NewUser(cmd.Username, cmd.Email, cmd.Password, cmd.FullName, cmd.Role, cmd.DepartmentID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, apperrors.ErrValidation("unknown role").Wrap(err)
		}
		return nil, apperrors.ErrValidation(err.Error()).Wrap(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil, apperrors.ErrConflict("username or email already exists").Wrap(err)
		}
		s.logger.Error("Failed to create user", "username", cmd.Username, "error", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("Registered user", "username", user.Username, "role", user.Role)
	return s.issueToken(user)
}

// Login verifies credentials and returns a token.
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*AuthResultDTO, error) {
	if cmd.Username == "" || cmd.Password == "" {
		return nil, apperrors.ErrValidation("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, cmd.Username)
	if err != nil {
		s.logger.Error("Failed to load user", "username", cmd.Username, "error", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	// A missing user and a wrong password produce the same response.
	if user == nil || !user.Active || !user.CheckPassword(cmd.Password) {
		return nil, apperrors.ErrUnauthorized("invalid username or password")
	}

	s.logger.Info("User logged in", "username", user.Username)
	return s.issueToken(user)
}

// ListUsers returns every account. Restricted to actors that may manage
// users.
func (s *AuthService) ListUsers(ctx context.Context, actor Actor) ([]*UserDTO, error) {
	if !actor.Role.CanManageUsers() {
		return nil, apperrors.ErrForbidden("role may not list users")
	}

	users, err := s.users.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list users", "error", err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return ToUserDTOs(users), nil
}

// CurrentUser returns the account behind a verified actor.
func (s *AuthService) CurrentUser(ctx context.Context, actor Actor) (*UserDTO, error) {
	id, err := primitive.ObjectIDFromHex(actor.UserID)
	if err != nil {
		return nil, apperrors.ErrUnauthorized("")
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to load user", "userId", actor.UserID, "error", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperrors.ErrUnauthorized("")
	}

	return ToUserDTO(user), nil
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResultDTO, error) {
	now := time.Now().UTC()
	token, err := s.tokens.Generate(user.ID.Hex(), user.Username, user.Role, now)
	if err != nil {
		s.logger.Error("Failed to sign token", "username", user.Username, "error", err)
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &AuthResultDTO{
		Token:     token,
		ExpiresAt: now.Add(s.tokens.TTL()),
		User:      ToUserDTO(user),
	}, nil
}
