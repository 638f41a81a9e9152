package auth

import (
	"context"
	"log/slog"

	"dashstack/internal/email"
	"dashstack/internal/middleware"
	"dashstack/internal/models"
	"dashstack/internal/observability"
	"dashstack/internal/repository"

	"github.com/google/uuid"
)

// Service orchestrates the auth flows: sign-up, sign-in, sign-out, password
// reset, and password update. Every method returns a tagged result instead
// of an error; handlers map results onto the response envelope unchanged.
type Service struct {
	profiles     repository.ProfileRepository
	credentials  repository.CredentialRepository
	settings     repository.SettingsRepository
	bootstrapper *Bootstrapper
	authorizer   *Authorizer
	issuer       *SessionIssuer
	tokens       *TokenStore
	mailer       email.Mailer

	appURL            string
	verificationEmail bool
}

// NewService wires the auth service from its collaborators.
func NewService(
	profiles repository.ProfileRepository,
	credentials repository.CredentialRepository,
	settings repository.SettingsRepository,
	issuer *SessionIssuer,
	tokens *TokenStore,
	mailer email.Mailer,
	appURL string,
	verificationEmail bool,
) *Service {
	return &Service{
		profiles:          profiles,
		credentials:       credentials,
		settings:          settings,
		bootstrapper:      NewBootstrapper(profiles),
		authorizer:        NewAuthorizer(profiles, credentials),
		issuer:            issuer,
		tokens:            tokens,
		mailer:            mailer,
		appURL:            appURL,
		verificationEmail: verificationEmail,
	}
}

// Bootstrapper exposes the profile bootstrapper for callers that reconcile
// profiles outside the sign-up flow.
func (s *Service) Bootstrapper() *Bootstrapper {
	return s.bootstrapper
}

// SignUpResult is the outcome of a sign-up attempt. Success with an empty
// Token means the account was created but auto-sign-in did not complete;
// the caller should direct the user to sign in manually.
type SignUpResult struct {
	Success    bool   `json:"success"`
	Email      string `json:"email,omitempty"`
	Token      string `json:"token,omitempty"`
	AutoSignIn bool   `json:"auto_sign_in"`
	Error      string `json:"error,omitempty"`
}

// SignUp registers a new account: one profile with the default role and one
// credential row. The welcome and verification emails are best-effort; a
// failed auto-sign-in degrades the result rather than failing it.
func (s *Service) SignUp(ctx context.Context, emailAddr, password string) SignUpResult {
	fail := func(msg string) SignUpResult {
		observability.RecordAuth("signup", false)
		return SignUpResult{Success: false, Error: msg}
	}

	if msg := ValidateEmailAndPassword(emailAddr, password); msg != "" {
		return fail(msg)
	}
	if msg := ValidateEmail(emailAddr); msg != "" {
		return fail(msg)
	}
	if msg := ValidatePasswordLength(password); msg != "" {
		return fail(msg)
	}

	existing, err := s.profiles.GetByEmail(ctx, emailAddr)
	if err != nil {
		middleware.Logger.Error("sign-up: duplicate check failed", slog.String("error", err.Error()))
		return fail(MsgGenericError)
	}
	if existing != nil {
		return fail(MsgEmailAlreadyRegistered)
	}

	hash, err := HashPassword(password)
	if err != nil {
		middleware.Logger.Error("sign-up: password hashing failed", slog.String("error", err.Error()))
		return fail(MsgGenericError)
	}

	userID := uuid.New().String()
	profile := s.bootstrapper.EnsureProfileExists(ctx, userID, emailAddr, "")
	if profile == nil {
		// Covers the lost duplicate-email race: a concurrent sign-up with
		// the same address won the unique index and this ID has no row.
		return fail(MsgGenericError)
	}

	if err := s.credentials.Upsert(ctx, &models.Credential{UserID: profile.ID, PasswordHash: hash}); err != nil {
		middleware.Logger.Error("sign-up: credential store failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
		return fail(MsgGenericError)
	}

	if err := s.settings.Upsert(ctx, models.DefaultSettings(profile.ID)); err != nil {
		// Settings are recreated on first read; sign-up proceeds.
		middleware.Logger.Warn("sign-up: default settings store failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
	}

	s.sendSignUpEmails(ctx, profile)

	result := SignUpResult{Success: true, Email: profile.Email}
	token, err := s.issuer.Mint(profile.ID)
	if err != nil {
		// Account exists; the user signs in manually.
		middleware.Logger.Error("sign-up: auto sign-in failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
	} else {
		result.Token = token
		result.AutoSignIn = true
	}

	observability.RecordAuth("signup", true)
	middleware.Logger.Info("user signed up",
		slog.String("user_id", profile.ID),
		slog.Bool("auto_sign_in", result.AutoSignIn))
	return result
}

func (s *Service) sendSignUpEmails(ctx context.Context, profile *models.Profile) {
	err := s.mailer.Send(ctx, profile.Email, email.SubjectWelcome, email.WelcomeEmail(profile.FullName))
	observability.RecordEmail("welcome", err)
	if err != nil {
		middleware.Logger.Warn("sign-up: welcome email failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
	}

	if !s.verificationEmail {
		return
	}
	token, err := s.tokens.IssueVerifyToken(ctx, profile.ID, profile.Email)
	if err != nil {
		observability.RecordEmail("verification", err)
		middleware.Logger.Warn("sign-up: verification token issue failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
		return
	}
	verifyURL := s.appURL + "/auth/callback?token=" + token
	err = s.mailer.Send(ctx, profile.Email, email.SubjectVerification, email.VerificationEmail(verifyURL))
	observability.RecordEmail("verification", err)
	if err != nil {
		middleware.Logger.Warn("sign-up: verification email failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
	}
}

// SignInResult is the outcome of a sign-in attempt.
type SignInResult struct {
	Success bool      `json:"success"`
	Email   string    `json:"email,omitempty"`
	Token   string    `json:"token,omitempty"`
	Error   string    `json:"error,omitempty"`
	User    *Identity `json:"user,omitempty"`
}

// SignIn validates the credential pair and mints a session token. All
// credential failures surface the same message.
func (s *Service) SignIn(ctx context.Context, emailAddr, password string) SignInResult {
	fail := func(msg string) SignInResult {
		observability.RecordAuth("signin", false)
		return SignInResult{Success: false, Error: msg}
	}

	if msg := ValidateEmailAndPassword(emailAddr, password); msg != "" {
		return fail(msg)
	}

	identity := s.authorizer.Authorize(ctx, emailAddr, password)
	if identity == nil {
		return fail(MsgInvalidCredentials)
	}

	token, err := s.issuer.Mint(identity.ID)
	if err != nil {
		middleware.Logger.Error("sign-in: token mint failed",
			slog.String("user_id", identity.ID),
			slog.String("error", err.Error()))
		return fail(MsgGenericError)
	}

	observability.RecordAuth("signin", true)
	middleware.Logger.Info("user signed in", slog.String("user_id", identity.ID))
	return SignInResult{Success: true, Email: identity.Email, Token: token, User: identity}
}

// SignOut invalidates the presented session by deny-listing its JTI until
// the token's natural expiry. Always succeeds from the caller's view.
func (s *Service) SignOut(ctx context.Context, session *Session) {
	if session != nil {
		s.tokens.DenyJTI(ctx, session.JTI, session.ExpiresAt)
		middleware.Logger.Info("user signed out", slog.String("user_id", session.UserID))
	}
}

// ResetResult is the outcome of a reset-password request.
type ResetResult struct {
	Success bool   `json:"success"`
	Email   string `json:"email,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ResetPassword issues a one-time reset token and emails the reset link.
// Unknown addresses still report success so the endpoint does not reveal
// which emails are registered.
func (s *Service) ResetPassword(ctx context.Context, emailAddr string) ResetResult {
	if msg := ValidateEmail(emailAddr); msg != "" {
		observability.RecordAuth("reset", false)
		return ResetResult{Success: false, Error: msg}
	}

	profile, err := s.profiles.GetByEmail(ctx, emailAddr)
	if err != nil {
		middleware.Logger.Error("reset: profile lookup failed", slog.String("error", err.Error()))
		observability.RecordAuth("reset", false)
		return ResetResult{Success: false, Error: MsgGenericError}
	}
	if profile == nil {
		middleware.Logger.Info("reset: no profile for email, reporting success")
		observability.RecordAuth("reset", true)
		return ResetResult{Success: true, Email: emailAddr}
	}

	token, err := s.tokens.IssueResetToken(ctx, profile.ID)
	if err != nil {
		middleware.Logger.Error("reset: token issue failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
		observability.RecordAuth("reset", false)
		return ResetResult{Success: false, Error: "Failed to send password reset email"}
	}

	resetURL := s.appURL + "/auth/update-password?token=" + token
	err = s.mailer.Send(ctx, profile.Email, email.SubjectPasswordReset, email.PasswordResetEmail(resetURL))
	observability.RecordEmail("password_reset", err)
	if err != nil {
		middleware.Logger.Error("reset: email send failed",
			slog.String("user_id", profile.ID),
			slog.String("error", err.Error()))
		observability.RecordAuth("reset", false)
		return ResetResult{Success: false, Error: "Failed to send password reset email"}
	}

	observability.RecordAuth("reset", true)
	middleware.Logger.Info("password reset email sent", slog.String("user_id", profile.ID))
	return ResetResult{Success: true, Email: profile.Email}
}

// UpdateResult is the outcome of a password update.
type UpdateResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// UpdatePassword replaces the credential for an authenticated user.
func (s *Service) UpdatePassword(ctx context.Context, userID, password, confirmPassword string) UpdateResult {
	if msg := ValidatePasswordUpdate(password, confirmPassword); msg != "" {
		observability.RecordAuth("update_password", false)
		return UpdateResult{Success: false, Error: msg}
	}
	return s.storePassword(ctx, userID, password)
}

// UpdatePasswordWithToken replaces the credential identified by a one-time
// reset token. The token is consumed on use, valid or not.
func (s *Service) UpdatePasswordWithToken(ctx context.Context, token, password, confirmPassword string) UpdateResult {
	if msg := ValidatePasswordUpdate(password, confirmPassword); msg != "" {
		observability.RecordAuth("update_password", false)
		return UpdateResult{Success: false, Error: msg}
	}

	userID, err := s.tokens.ConsumeResetToken(ctx, token)
	if err != nil {
		middleware.Logger.Error("password update: token consume failed", slog.String("error", err.Error()))
		observability.RecordAuth("update_password", false)
		return UpdateResult{Success: false, Error: MsgGenericError}
	}
	if userID == "" {
		observability.RecordAuth("update_password", false)
		return UpdateResult{Success: false, Error: "Invalid or expired reset link"}
	}
	return s.storePassword(ctx, userID, password)
}

func (s *Service) storePassword(ctx context.Context, userID, password string) UpdateResult {
	hash, err := HashPassword(password)
	if err != nil {
		middleware.Logger.Error("password update: hashing failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		observability.RecordAuth("update_password", false)
		return UpdateResult{Success: false, Error: MsgGenericError}
	}

	if err := s.credentials.Upsert(ctx, &models.Credential{UserID: userID, PasswordHash: hash}); err != nil {
		middleware.Logger.Error("password update: credential store failed",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		observability.RecordAuth("update_password", false)
		return UpdateResult{Success: false, Error: MsgGenericError}
	}

	observability.RecordAuth("update_password", true)
	middleware.Logger.Info("password updated", slog.String("user_id", userID))
	return UpdateResult{Success: true}
}

// VerifyResult is the outcome of an email verification attempt.
type VerifyResult struct {
	Success bool   `json:"success"`
	UserID  string `json:"user_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// VerifyEmail consumes a one-time verification token and marks the profile
// verified. When the profile row is missing (provisioning never completed)
// it is recreated from the token's embedded identity before being marked.
func (s *Service) VerifyEmail(ctx context.Context, token string) VerifyResult {
	fail := func(msg string) VerifyResult {
		observability.RecordAuth("verify", false)
		return VerifyResult{Success: false, Error: msg}
	}

	userID, emailAddr, err := s.tokens.ConsumeVerifyToken(ctx, token)
	if err != nil {
		middleware.Logger.Error("verify: token consume failed", slog.String("error", err.Error()))
		return fail(MsgGenericError)
	}
	if userID == "" {
		return fail("Invalid or expired verification link")
	}

	// Self-healing: recreate the profile if the sign-up provisioning step
	// never ran for this identity.
	profile := s.bootstrapper.EnsureProfileExists(ctx, userID, emailAddr, "")
	if profile == nil {
		return fail(MsgGenericError)
	}

	if !profile.EmailVerified {
		profile.EmailVerified = true
		if err := s.profiles.Update(ctx, profile); err != nil {
			middleware.Logger.Error("verify: profile update failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()))
			return fail(MsgGenericError)
		}
	}

	observability.RecordAuth("verify", true)
	middleware.Logger.Info("email verified", slog.String("user_id", userID))
	return VerifyResult{Success: true, UserID: userID}
}
