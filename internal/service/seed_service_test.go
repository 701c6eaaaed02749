package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/config"
)

func newSeedFixture(enabled bool) (*SeedService, *fakeUserRepo, *fakeCategoryRepo) {
	users := newFakeUserRepo()
	clients := newFakeClientRepo()
	technicians := newFakeTechnicianRepo()
	categories := newFakeCategoryRepo()

	userSvc := NewUserService(UserDependencies{
		UserRepo:       users,
		ClientRepo:     clients,
		TechnicianRepo: technicians,
	}, bcrypt.MinCost)

	cfg := config.SeedConfig{
		Enabled:       enabled,
		AdminEmail:    "admin@techhelpdesk.com",
		AdminPassword: "admin123",
	}
	return NewSeedService(users, categories, userSvc, cfg, zap.NewNop()), users, categories
}

func TestSeedService(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled seeder does nothing", func(t *testing.T) {
		seeder, users, categories := newSeedFixture(false)
		require.NoError(t, seeder.Run(ctx))

		all, err := users.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
		allCategories, err := categories.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, allCategories)
	})

	t.Run("seeds demo users and default categories", func(t *testing.T) {
		seeder, users, categories := newSeedFixture(true)
		require.NoError(t, seeder.Run(ctx))

		for _, email := range []string{"admin@techhelpdesk.com", "tech@techhelpdesk.com", "client@techhelpdesk.com"} {
			_, err := users.GetByEmail(ctx, email)
			assert.NoError(t, err, email)
		}
		for _, name := range []string{"Solicitud", "Incidente de Hardware", "Incidente de Software"} {
			_, err := categories.GetByName(ctx, name)
			assert.NoError(t, err, name)
		}
	})

	t.Run("running twice leaves existing rows untouched", func(t *testing.T) {
		seeder, users, categories := newSeedFixture(true)
		require.NoError(t, seeder.Run(ctx))

		admin, err := users.GetByEmail(ctx, "admin@techhelpdesk.com")
		require.NoError(t, err)

		require.NoError(t, seeder.Run(ctx))

		all, err := users.List(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 3)
		allCategories, err := categories.List(ctx)
		require.NoError(t, err)
		assert.Len(t, allCategories, 3)

		again, err := users.GetByEmail(ctx, "admin@techhelpdesk.com")
		require.NoError(t, err)
		assert.Equal(t, admin.ID, again.ID)
	})
}
