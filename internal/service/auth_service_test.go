package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func newAuthFixture() (*AuthService, *userFixture) {
	users := newUserFixture()
	cfg := config.Config{}
	cfg.Auth.JWTSecret = "test-secret"
	cfg.Auth.AccessTokenTTLMinutes = 60
	cfg.Auth.BcryptCost = bcrypt.MinCost
	return NewAuthService(cfg, users.users, users.svc), users
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc, f := newAuthFixture()

	user, token, _, err := svc.Register(ctx, "Jordan", "jordan@acme.com", "secret1", "Acme Corp")
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleClient, user.Role, "self-registration always yields a client")
	assert.NotEmpty(t, token)

	profile, err := f.clients.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", profile.Company)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAuthFixture()

	_, _, _, err := svc.Register(ctx, "Jordan", "jordan@acme.com", "secret1", "")
	require.NoError(t, err)

	t.Run("valid credentials issue a token", func(t *testing.T) {
		user, token, _, err := svc.Login(ctx, "jordan@acme.com", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "jordan@acme.com", user.Email)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "jordan@acme.com", "wrong")
		assertDomainError(t, err, "UNAUTHORIZED")
	})

	t.Run("unknown email is unauthorized, not not-found", func(t *testing.T) {
		_, _, _, err := svc.Login(ctx, "nobody@acme.com", "secret1")
		assertDomainError(t, err, "UNAUTHORIZED")
	})
}
