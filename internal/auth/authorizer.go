package auth

import (
	"context"
	"log/slog"

	"dashstack/internal/middleware"
	"dashstack/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Identity is the minimal result of a successful credential check.
// It never carries the password hash.
type Identity struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Authorizer validates email/password pairs against the profile and
// credential stores.
type Authorizer struct {
	profiles    repository.ProfileRepository
	credentials repository.CredentialRepository
}

// NewAuthorizer creates an Authorizer over the given stores.
func NewAuthorizer(profiles repository.ProfileRepository, credentials repository.CredentialRepository) *Authorizer {
	return &Authorizer{profiles: profiles, credentials: credentials}
}

// Authorize validates the pair and returns the identity, or nil on any
// failure. Callers must not distinguish causes: unknown email, account
// without a password, and wrong password all collapse to nil so upstream
// surfaces one uniform invalid-credentials error. Each branch logs its own
// server-side diagnostic.
func (a *Authorizer) Authorize(ctx context.Context, email, password string) *Identity {
	if email == "" || password == "" {
		middleware.Logger.Info("authorize rejected: missing email or password")
		return nil
	}

	profile, err := a.profiles.GetByEmail(ctx, email)
	if err != nil {
		middleware.Logger.Error("authorize failed: profile lookup error",
			slog.String("error", err.Error()))
		return nil
	}
	if profile == nil {
		middleware.Logger.Info("authorize rejected: no profile for email")
		return nil
	}

	credential, err := a.credentials.GetByUserID(ctx, profile.ID)
	if err != nil {
		middleware.Logger.Error("authorize failed: credential lookup error",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
		return nil
	}
	if credential == nil {
		// Provider-only accounts have no password set.
		middleware.Logger.Info("authorize rejected: no credential row",
			slog.String("user_id", profile.ID))
		return nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(credential.PasswordHash), []byte(password)); err != nil {
		middleware.Logger.Info("authorize rejected: password mismatch",
			slog.String("user_id", profile.ID))
		return nil
	}

	return &Identity{
		ID:        profile.ID,
		Email:     profile.Email,
		Name:      profile.FullName,
		AvatarURL: profile.AvatarURL,
	}
}
