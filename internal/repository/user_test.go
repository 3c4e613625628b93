package repository_test

import (
	"context"
	"testing"

	"slotkeeper/internal/models"
	"slotkeeper/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndAuthenticate(t *testing.T) {
	r := setup(t)
	ctx := context.Background()

	created, err := r.users.Create(ctx, "alice", "s3cret-pass", "alice@example.com", models.RoleUser)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEqual(t, "s3cret-pass", created.PasswordHash)
	assert.False(t, created.CreatedAt.IsZero())

	user, err := r.users.Authenticate(ctx, "alice", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, models.RoleUser, user.Role)

	_, err = r.users.Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)

	_, err = r.users.Authenticate(ctx, "nobody", "s3cret-pass")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestUserRepository_NoBypassCredential(t *testing.T) {
	r := setup(t)

	_, err := r.users.Authenticate(context.Background(), "onkar", "onkar123")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)
}

func TestUserRepository_CreateDuplicate(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	mustUser(t, r, "bob")

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "bob", "other@example.com"},
		{"same email", "robert", "bob@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.users.Create(ctx, tt.username, "password1", tt.email, models.RoleUser)
			assert.ErrorIs(t, err, repository.ErrDuplicate)

			count, err := r.users.Count(ctx)
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})
	}
}

func TestUserRepository_CreateInvalidRole(t *testing.T) {
	r := setup(t)

	_, err := r.users.Create(context.Background(), "carol", "password1", "carol@example.com", "superuser")
	assert.ErrorIs(t, err, repository.ErrValidation)
}

func TestUserRepository_Lookups(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u := mustUser(t, r, "dave")

	byID, err := r.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "dave", byID.Username)

	byName, err := r.users.GetByUsername(ctx, "dave")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byName.ID)

	byEmail, err := r.users.GetByEmail(ctx, "dave@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	_, err = r.users.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_UpdateEmail(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	erin := mustUser(t, r, "erin")
	mustUser(t, r, "frank")

	require.NoError(t, r.users.UpdateEmail(ctx, erin.ID, "erin@new.example.com"))
	got, err := r.users.GetByID(ctx, erin.ID)
	require.NoError(t, err)
	assert.Equal(t, "erin@new.example.com", got.Email)

	// повторная запись своего же адреса допустима
	assert.NoError(t, r.users.UpdateEmail(ctx, erin.ID, "erin@new.example.com"))

	err = r.users.UpdateEmail(ctx, erin.ID, "frank@example.com")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestUserRepository_UpdatePassword(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u := mustUser(t, r, "grace")

	err := r.users.UpdatePassword(ctx, u.ID, "not-current", "new-password")
	assert.ErrorIs(t, err, repository.ErrInvalidCredentials)

	require.NoError(t, r.users.UpdatePassword(ctx, u.ID, "password1", "new-password"))

	ok, err := r.users.VerifyPassword(ctx, u.ID, "new-password")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.users.VerifyPassword(ctx, u.ID, "password1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUserRepository_UpdateRole(t *testing.T) {
	r := setup(t)
	ctx := context.Background()
	u := mustUser(t, r, "heidi")

	require.NoError(t, r.users.UpdateRole(ctx, u.ID, models.RoleAdmin))
	got, err := r.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin())

	assert.ErrorIs(t, r.users.UpdateRole(ctx, u.ID, "owner"), repository.ErrValidation)
	assert.ErrorIs(t, r.users.UpdateRole(ctx, 9999, models.RoleUser), repository.ErrNotFound)

	users, err := r.users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
