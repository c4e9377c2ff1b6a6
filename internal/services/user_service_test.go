package services

import (
	"context"
	"testing"

	"pizzeria/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	user := &models.User{Username: "mario", Email: "mario@example.com", IsActive: true}
	require.NoError(t, svc.CreateUser(context.Background(), user, "margherita"))

	assert.Equal(t, models.RoleCustomer, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "margherita", user.PasswordHash)
}

func TestCreateUserRejectsShortPassword(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())
	err := svc.CreateUser(context.Background(), &models.User{Username: "mario"}, "short")
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newFakeUserRepo())
	require.NoError(t, svc.CreateUser(ctx, &models.User{Username: "luigi", Role: models.RoleDelivery, IsActive: true}, "quattro-stagioni"))
	require.NoError(t, svc.CreateUser(ctx, &models.User{Username: "old", IsActive: false}, "quattro-stagioni"))

	user, err := svc.Authenticate(ctx, "luigi", "quattro-stagioni")
	require.NoError(t, err)
	assert.Equal(t, models.RoleDelivery, user.Role)

	_, err = svc.Authenticate(ctx, "luigi", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "quattro-stagioni")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "old", "quattro-stagioni")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
