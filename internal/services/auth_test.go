package services

import (
	"testing"

	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthHarness() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	svc := NewAuthService(users, config.JWTConfig{Secret: "test-secret", TTLHours: 1})
	return svc, users
}

func TestRegister(t *testing.T) {
	t.Run("creates the account and returns a usable token", func(t *testing.T) {
		svc, _ := newAuthHarness()

		user, token, err := svc.Register(RegisterInput{
			Email:    "Ana@Example.com",
			Password: "secret123!",
			Name:     "  Ana Quispe  ",
		})
		require.NoError(t, err)

		assert.Equal(t, "ana@example.com", user.Email)
		assert.Equal(t, "Ana Quispe", user.Name)
		assert.Equal(t, models.RoleStudent, user.Role)
		assert.NotEqual(t, "secret123!", user.PasswordHash)

		userID, role, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, userID)
		assert.Equal(t, models.RoleStudent, role)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _ := newAuthHarness()

		_, _, err := svc.Register(RegisterInput{Email: "ana@example.com", Password: "secret123!", Name: "Ana"})
		require.NoError(t, err)

		_, _, err = svc.Register(RegisterInput{Email: "ANA@example.com", Password: "otherpass1", Name: "Otra"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("admin role cannot be self-assigned", func(t *testing.T) {
		svc, _ := newAuthHarness()

		_, _, err := svc.Register(RegisterInput{Email: "x@example.com", Password: "secret123!", Name: "X", Role: "admin"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthHarness()
	registered, _, err := svc.Register(RegisterInput{Email: "ana@example.com", Password: "secret123!", Name: "Ana"})
	require.NoError(t, err)

	t.Run("valid credentials", func(t *testing.T) {
		user, token, err := svc.Login("ana@example.com", "secret123!")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.NotEmpty(t, token)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, _, err := svc.Login("ana@example.com", "wrong")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown email looks like bad credentials", func(t *testing.T) {
		_, _, err := svc.Login("nobody@example.com", "secret123!")
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestValidateToken(t *testing.T) {
	svc, _ := newAuthHarness()

	t.Run("garbage token", func(t *testing.T) {
		_, _, err := svc.ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := NewAuthService(newFakeUserRepo(), config.JWTConfig{Secret: "other-secret", TTLHours: 1})
		token, err := other.GenerateToken(&models.User{ID: "u1", Role: models.RoleStudent})
		require.NoError(t, err)

		_, _, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}
