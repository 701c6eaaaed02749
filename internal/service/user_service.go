package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// UserService manages user accounts and their role-specific profiles.
type UserService struct {
	users       repository.UserRepository
	clients     repository.ClientRepository
	technicians repository.TechnicianRepository
	bcryptCost  int
}

// UserDependencies bundles repositories for the user service.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	ClientRepo     repository.ClientRepository
	TechnicianRepo repository.TechnicianRepository
}

// UserCreateInput describes a new account with its profile fields.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.UserRole
	// Client profile fields, used when Role is client.
	Company      string
	ContactEmail string
	// Technician profile fields, used when Role is technician.
	Specialty string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies, bcryptCost int) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		clients:     deps.ClientRepo,
		technicians: deps.TechnicianRepo,
		bcryptCost:  bcryptCost,
	}
}

// CreateUser creates an account and, for client/technician roles, the
// matching profile.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" || strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if len(input.Password) < 6 {
		return nil, apperrors.NewValidationError("password must be at least 6 characters", nil)
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         input.Role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}

	switch user.Role {
	case domain.UserRoleClient:
		profile := &domain.ClientProfile{
			UserID:       user.ID,
			Company:      strings.TrimSpace(input.Company),
			ContactEmail: strings.TrimSpace(input.ContactEmail),
		}
		if profile.ContactEmail == "" {
			profile.ContactEmail = email
		}
		if err := s.clients.Create(ctx, profile); err != nil {
			return nil, apperrors.MapError(err)
		}
	case domain.UserRoleTechnician:
		profile := &domain.TechnicianProfile{
			UserID:    user.ID,
			Specialty: strings.TrimSpace(input.Specialty),
			Available: true,
		}
		if err := s.technicians.Create(ctx, profile); err != nil {
			return nil, apperrors.MapError(err)
		}
	}
	return user, nil
}

// GetUser fetches a user by id.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// ListUsers returns all accounts.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}
