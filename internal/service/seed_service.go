package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// SeedService creates demo users and default categories at startup when
// enabled. Seeding is idempotent: existing rows are left untouched.
type SeedService struct {
	users      repository.UserRepository
	categories repository.CategoryRepository
	userSvc    *UserService
	cfg        config.SeedConfig
	logger     *zap.Logger
}

// NewSeedService constructs the seeder.
func NewSeedService(users repository.UserRepository, categories repository.CategoryRepository, userSvc *UserService, cfg config.SeedConfig, logger *zap.Logger) *SeedService {
	return &SeedService{
		users:      users,
		categories: categories,
		userSvc:    userSvc,
		cfg:        cfg,
		logger:     logger,
	}
}

// Run seeds demo data when enabled.
func (s *SeedService) Run(ctx context.Context) error {
	if !s.cfg.Enabled {
		return nil
	}
	if err := s.seedUsers(ctx); err != nil {
		return err
	}
	return s.seedCategories(ctx)
}

func (s *SeedService) seedUsers(ctx context.Context) error {
	seeds := []UserCreateInput{
		{
			Name:     "Admin User",
			Email:    s.cfg.AdminEmail,
			Password: s.cfg.AdminPassword,
			Role:     domain.UserRoleAdmin,
		},
		{
			Name:      "Technician User",
			Email:     "tech@techhelpdesk.com",
			Password:  "tech123",
			Role:      domain.UserRoleTechnician,
			Specialty: "General IT",
		},
		{
			Name:         "Client User",
			Email:        "client@techhelpdesk.com",
			Password:     "client123",
			Role:         domain.UserRoleClient,
			Company:      "Acme Corp",
			ContactEmail: "contact@acme.com",
		},
	}

	for _, seed := range seeds {
		if _, err := s.users.GetByEmail(ctx, seed.Email); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		if _, err := s.userSvc.CreateUser(ctx, seed); err != nil {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == "CONFLICT" {
				continue
			}
			return err
		}
		s.logger.Info("seeded user", zap.String("email", seed.Email), zap.String("role", string(seed.Role)))
	}
	return nil
}

func (s *SeedService) seedCategories(ctx context.Context) error {
	seeds := []domain.Category{
		{Name: "Solicitud", Description: "General request"},
		{Name: "Incidente de Hardware", Description: "Hardware issues"},
		{Name: "Incidente de Software", Description: "Software issues"},
	}

	for _, seed := range seeds {
		if _, err := s.categories.GetByName(ctx, seed.Name); err == nil {
			continue
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		category := seed
		if err := s.categories.Create(ctx, &category); err != nil {
			return err
		}
		s.logger.Info("seeded category", zap.String("name", category.Name))
	}
	return nil
}
