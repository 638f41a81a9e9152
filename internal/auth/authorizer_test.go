package auth

import (
	"context"
	"testing"

	"dashstack/internal/models"
	"dashstack/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedAccount(t *testing.T, profiles repository.ProfileRepository, credentials repository.CredentialRepository, email, password string) *models.Profile {
	t.Helper()
	ctx := context.Background()

	profile := &models.Profile{
		ID:    uuid.New().String(),
		Email: email,
		Role:  models.RoleUser,
	}
	require.NoError(t, profiles.Create(ctx, profile))

	hash, err := HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, credentials.Upsert(ctx, &models.Credential{
		UserID:       profile.ID,
		PasswordHash: hash,
	}))
	return profile
}

func TestAuthorize(t *testing.T) {
	db := testDB(t)
	profiles := repository.NewProfileRepository(db)
	credentials := repository.NewCredentialRepository(db)
	a := NewAuthorizer(profiles, credentials)
	ctx := context.Background()

	account := seedAccount(t, profiles, credentials, "valid@example.com", "correct-horse")

	t.Run("valid pair", func(t *testing.T) {
		identity := a.Authorize(ctx, "valid@example.com", "correct-horse")
		require.NotNil(t, identity)
		assert.Equal(t, account.ID, identity.ID)
		assert.Equal(t, "valid@example.com", identity.Email)
	})

	t.Run("all failures collapse to nil", func(t *testing.T) {
		tests := []struct {
			name     string
			email    string
			password string
		}{
			{"empty email", "", "correct-horse"},
			{"empty password", "valid@example.com", ""},
			{"unknown email", "nobody@example.com", "correct-horse"},
			{"wrong password", "valid@example.com", "wrong-horse"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Nil(t, a.Authorize(ctx, tt.email, tt.password))
			})
		}
	})

	t.Run("profile without credential", func(t *testing.T) {
		require.NoError(t, profiles.Create(ctx, &models.Profile{
			ID:    uuid.New().String(),
			Email: "oauth-only@example.com",
			Role:  models.RoleUser,
		}))
		assert.Nil(t, a.Authorize(ctx, "oauth-only@example.com", "any-password"))
	})
}

func TestAuthorize_IdentityOmitsHash(t *testing.T) {
	db := testDB(t)
	profiles := repository.NewProfileRepository(db)
	credentials := repository.NewCredentialRepository(db)
	a := NewAuthorizer(profiles, credentials)

	seedAccount(t, profiles, credentials, "safe@example.com", "correct-horse")

	identity := a.Authorize(context.Background(), "safe@example.com", "correct-horse")
	require.NotNil(t, identity)
	// Identity carries only display fields; there is no hash field to leak.
	assert.Equal(t, "safe@example.com", identity.Email)
	assert.NotEmpty(t, identity.ID)
}
