package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func rolesTestApp(principal *Principal, guard fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	}, guard, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func TestRequireRoles(t *testing.T) {
	admin := &Principal{User: &domain.User{ID: "u1", Role: domain.UserRoleAdmin}}
	client := &Principal{User: &domain.User{ID: "u2", Role: domain.UserRoleClient}}

	t.Run("unauthenticated request gets 401", func(t *testing.T) {
		app := rolesTestApp(nil, RequireRoles(domain.UserRoleAdmin))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong role gets 403", func(t *testing.T) {
		app := rolesTestApp(client, RequireRoles(domain.UserRoleAdmin, domain.UserRoleTechnician))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("allowed role passes", func(t *testing.T) {
		app := rolesTestApp(admin, RequireRoles(domain.UserRoleAdmin))
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("no roles means authentication only", func(t *testing.T) {
		app := rolesTestApp(client, RequireRoles())
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
