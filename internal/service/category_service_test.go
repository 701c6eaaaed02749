package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// The cache degrades to direct reads when no Redis client is wired, so the
// service must behave identically with a nil cache.
func TestCategoryServiceWithoutCache(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCategoryRepo()
	svc := NewCategoryService(repo, nil, 0, zap.NewNop())

	t.Run("create trims and rejects blank names", func(t *testing.T) {
		category, err := svc.CreateCategory(ctx, "  Solicitud  ", " General request ")
		require.NoError(t, err)
		assert.Equal(t, "Solicitud", category.Name)
		assert.Equal(t, "General request", category.Description)

		_, err = svc.CreateCategory(ctx, "   ", "")
		assertDomainError(t, err, "VALIDATION_FAILED")
	})

	t.Run("get and list round-trip", func(t *testing.T) {
		created, err := svc.CreateCategory(ctx, "Incidente de Hardware", "Hardware issues")
		require.NoError(t, err)

		fetched, err := svc.GetCategory(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, fetched.Name)

		categories, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, len(categories), 2)

		_, err = svc.GetCategory(ctx, "missing")
		assertDomainError(t, err, "NOT_FOUND")
	})

	t.Run("delete removes the category", func(t *testing.T) {
		created, err := svc.CreateCategory(ctx, "Temporal", "")
		require.NoError(t, err)

		require.NoError(t, svc.DeleteCategory(ctx, created.ID))
		_, err = svc.GetCategory(ctx, created.ID)
		assertDomainError(t, err, "NOT_FOUND")

		err = svc.DeleteCategory(ctx, created.ID)
		assertDomainError(t, err, "NOT_FOUND")
	})
}
