package auth

import (
	"context"
	"errors"
	"log/slog"

	"dashstack/internal/middleware"
	"dashstack/internal/models"
	"dashstack/internal/repository"

	"gorm.io/gorm"
)

// Bootstrapper reconciles profiles: create-if-missing, used both during
// sign-up and as a self-healing fallback when an expected provisioning
// step did not run.
type Bootstrapper struct {
	profiles repository.ProfileRepository
}

// NewBootstrapper creates a Bootstrapper over the given profile store.
func NewBootstrapper(profiles repository.ProfileRepository) *Bootstrapper {
	return &Bootstrapper{profiles: profiles}
}

// EnsureProfileExists returns the profile for id, creating it with the
// default role when absent. The call is idempotent: an existing profile is
// returned unchanged even if a different email or name is supplied later.
// Concurrent calls are safe through the store's uniqueness constraint on
// id: the loser of a create race observes the conflict and re-reads.
// Returns nil on any underlying store error; callers must treat nil as
// "cannot proceed".
func (b *Bootstrapper) EnsureProfileExists(ctx context.Context, id, email, fullName string) *models.Profile {
	existing, err := b.profiles.GetByID(ctx, id)
	if err != nil {
		middleware.Logger.Error("profile bootstrap: lookup failed",
			slog.String("user_id", id),
			slog.String("error", err.Error()))
		return nil
	}
	if existing != nil {
		return existing
	}

	profile := &models.Profile{
		ID:       id,
		Email:    email,
		FullName: fullName,
		Role:     models.DefaultRole,
	}

	if err := b.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost a create race; the winner's row is authoritative.
			winner, rerr := b.profiles.GetByID(ctx, id)
			if rerr != nil || winner == nil {
				middleware.Logger.Error("profile bootstrap: re-read after conflict failed",
					slog.String("user_id", id))
				return nil
			}
			return winner
		}
		middleware.Logger.Error("profile bootstrap: create failed",
			slog.String("user_id", id),
			slog.String("error", err.Error()))
		return nil
	}

	middleware.Logger.Info("profile created",
		slog.String("user_id", id),
		slog.String("role", string(profile.Role)))
	return profile
}
