package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isdelr/booking-api/internal/models"
	"github.com/isdelr/booking-api/internal/services"
)

func TestUserService_Register(t *testing.T) {
	svc := services.NewUserService(newTestDB(t))
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "pw1", user.PasswordHash, "stored credential must never equal the plaintext")
	assert.False(t, user.CreatedAt.IsZero())
}

func TestUserService_Register_MissingFields(t *testing.T) {
	svc := services.NewUserService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "a@x.com", "pw1")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Register(ctx, "alice", "", "pw1")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, err = svc.Register(ctx, "alice", "a@x.com", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc := services.NewUserService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	// Same email, different username.
	_, err = svc.Register(ctx, "bob", "a@x.com", "pw2")
	assert.ErrorIs(t, err, models.ErrDuplicateEmail)

	// Usernames may coincide as long as emails differ.
	_, err = svc.Register(ctx, "alice", "other@x.com", "pw3")
	assert.NoError(t, err)
}

func TestUserService_Authenticate(t *testing.T) {
	svc := services.NewUserService(newTestDB(t))
	ctx := context.Background()

	registered, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestUserService_Authenticate_IdenticalFailures(t *testing.T) {
	svc := services.NewUserService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	// Wrong password and unknown username come back as the same error, so a
	// caller cannot probe which usernames exist.
	_, wrongPassword := svc.Authenticate(ctx, "alice", "wrong")
	_, unknownUser := svc.Authenticate(ctx, "nobody", "pw1")

	assert.ErrorIs(t, wrongPassword, models.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownUser, models.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownUser.Error())
}

func TestUserService_GetUserByUsername(t *testing.T) {
	svc := services.NewUserService(newTestDB(t))
	ctx := context.Background()

	_, err := svc.GetUserByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Register(ctx, "alice", "a@x.com", "pw1")
	require.NoError(t, err)

	user, err := svc.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", user.Email)
}
