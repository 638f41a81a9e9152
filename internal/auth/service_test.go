package auth

import (
	"context"
	"strings"
	"sync"
	"testing"

	"dashstack/internal/models"
	"dashstack/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "test-secret-key-for-auth-service-tests"

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Profile{}, &models.Credential{}, &models.UserSettings{}))
	return db
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

type sentEmail struct {
	To      string
	Subject string
	HTML    string
}

// recordingMailer captures sent messages; FailWith makes every send fail.
type recordingMailer struct {
	mu       sync.Mutex
	Sent     []sentEmail
	FailWith error
}

func (m *recordingMailer) Send(_ context.Context, to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Sent = append(m.Sent, sentEmail{To: to, Subject: subject, HTML: html})
	return nil
}

type serviceFixture struct {
	svc         *Service
	db          *gorm.DB
	profiles    repository.ProfileRepository
	credentials repository.CredentialRepository
	mailer      *recordingMailer
	tokens      *TokenStore
	issuer      *SessionIssuer
}

func newServiceFixture(t *testing.T, rdb *redis.Client) *serviceFixture {
	t.Helper()
	db := testDB(t)
	profiles := repository.NewProfileRepository(db)
	credentials := repository.NewCredentialRepository(db)
	settings := repository.NewSettingsRepository(db)
	issuer := NewSessionIssuer(testSecret)
	tokens := NewTokenStore(rdb)
	mailer := &recordingMailer{}

	svc := NewService(profiles, credentials, settings, issuer, tokens, mailer,
		"http://localhost:3000", rdb != nil)
	return &serviceFixture{
		svc:         svc,
		db:          db,
		profiles:    profiles,
		credentials: credentials,
		mailer:      mailer,
		tokens:      tokens,
		issuer:      issuer,
	}
}

func TestSignUp_CreatesProfileCredentialAndSettings(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	result := f.svc.SignUp(ctx, "alice@example.com", "hunter22")
	require.True(t, result.Success, "sign-up should succeed: %s", result.Error)
	assert.Equal(t, "alice@example.com", result.Email)
	assert.True(t, result.AutoSignIn)
	assert.NotEmpty(t, result.Token)

	profile, err := f.profiles.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, models.RoleUser, profile.Role, "new accounts start as regular users")
	assert.False(t, profile.EmailVerified)

	credential, err := f.credentials.GetByUserID(ctx, profile.ID)
	require.NoError(t, err)
	require.NotNil(t, credential)
	assert.NotEqual(t, "hunter22", credential.PasswordHash, "plaintext must never be stored")

	var settings models.UserSettings
	require.NoError(t, f.db.Where("user_id = ?", profile.ID).First(&settings).Error)
	assert.Equal(t, "en", settings.Locale)

	// one profile, not two
	var count int64
	require.NoError(t, f.db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSignUp_TokenIsValidSession(t *testing.T) {
	f := newServiceFixture(t, nil)

	result := f.svc.SignUp(context.Background(), "bob@example.com", "hunter22")
	require.True(t, result.Success)

	session, err := f.issuer.Parse(result.Token)
	require.NoError(t, err)

	profile, err := f.profiles.GetByEmail(context.Background(), "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, session.UserID)
}

func TestSignUp_Validation(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  string
	}{
		{"missing email", "", "hunter22", MsgEmailAndPasswordRequired},
		{"missing password", "a@b.com", "", MsgEmailAndPasswordRequired},
		{"short password", "a@b.com", "12345", MsgPasswordTooShort},
		{"malformed email", "not-an-email", "hunter22", "Invalid email format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.svc.SignUp(ctx, tt.email, tt.password)
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantErr, result.Error)
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(0), count, "no profiles should exist after rejected sign-ups")
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	first := f.svc.SignUp(ctx, "carol@example.com", "hunter22")
	require.True(t, first.Success)

	second := f.svc.SignUp(ctx, "carol@example.com", "different-pass")
	assert.False(t, second.Success)
	assert.Equal(t, MsgEmailAlreadyRegistered, second.Error)

	var count int64
	require.NoError(t, f.db.Model(&models.Profile{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestSignUp_WelcomeEmailBestEffort(t *testing.T) {
	f := newServiceFixture(t, nil)
	f.mailer.FailWith = assert.AnError

	result := f.svc.SignUp(context.Background(), "dave@example.com", "hunter22")
	assert.True(t, result.Success, "email failure must not fail sign-up")
}

func TestSignUp_SendsWelcomeAndVerificationEmails(t *testing.T) {
	rdb := testRedis(t)
	f := newServiceFixture(t, rdb)

	result := f.svc.SignUp(context.Background(), "erin@example.com", "hunter22")
	require.True(t, result.Success)

	require.Len(t, f.mailer.Sent, 2)
	assert.Equal(t, "Welcome to our platform!", f.mailer.Sent[0].Subject)
	assert.Equal(t, "Verify your email address", f.mailer.Sent[1].Subject)
	assert.Contains(t, f.mailer.Sent[1].HTML, "/auth/callback?token=")
}

func TestSignIn_Success(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	require.True(t, f.svc.SignUp(ctx, "frank@example.com", "hunter22").Success)

	result := f.svc.SignIn(ctx, "frank@example.com", "hunter22")
	require.True(t, result.Success, result.Error)
	assert.Equal(t, "frank@example.com", result.Email)
	assert.NotEmpty(t, result.Token)
	require.NotNil(t, result.User)
	assert.Equal(t, "frank@example.com", result.User.Email)
}

func TestSignIn_AntiEnumeration(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	require.True(t, f.svc.SignUp(ctx, "grace@example.com", "hunter22").Success)

	unknownEmail := f.svc.SignIn(ctx, "nobody@example.com", "hunter22")
	wrongPassword := f.svc.SignIn(ctx, "grace@example.com", "wrong-pass")

	assert.False(t, unknownEmail.Success)
	assert.False(t, wrongPassword.Success)
	assert.Equal(t, unknownEmail.Error, wrongPassword.Error,
		"unknown email and wrong password must be indistinguishable")
	assert.Equal(t, MsgInvalidCredentials, unknownEmail.Error)
}

func TestSignIn_NoCredentialRow(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	// Profile without a credential (provider-only account).
	require.NoError(t, f.profiles.Create(ctx, &models.Profile{
		ID:    uuid.New().String(),
		Email: "heidi@example.com",
		Role:  models.RoleUser,
	}))

	result := f.svc.SignIn(ctx, "heidi@example.com", "anything-here")
	assert.False(t, result.Success)
	assert.Equal(t, MsgInvalidCredentials, result.Error)
}

func TestSignOut_DenyListsToken(t *testing.T) {
	rdb := testRedis(t)
	f := newServiceFixture(t, rdb)
	ctx := context.Background()

	signup := f.svc.SignUp(ctx, "ivan@example.com", "hunter22")
	require.True(t, signup.Success)

	session, err := f.issuer.Parse(signup.Token)
	require.NoError(t, err)
	require.NotEmpty(t, session.JTI)

	assert.False(t, f.tokens.IsJTIDenied(ctx, session.JTI))
	f.svc.SignOut(ctx, session)
	assert.True(t, f.tokens.IsJTIDenied(ctx, session.JTI))
}

func TestResetPassword_FullRoundTrip(t *testing.T) {
	rdb := testRedis(t)
	f := newServiceFixture(t, rdb)
	ctx := context.Background()

	require.True(t, f.svc.SignUp(ctx, "judy@example.com", "old-password").Success)
	f.mailer.Sent = nil

	reset := f.svc.ResetPassword(ctx, "judy@example.com")
	require.True(t, reset.Success, reset.Error)
	require.Len(t, f.mailer.Sent, 1)
	assert.Equal(t, "Reset your password", f.mailer.Sent[0].Subject)

	// Pull the token out of the emailed link.
	html := f.mailer.Sent[0].HTML
	idx := strings.Index(html, "token=")
	require.GreaterOrEqual(t, idx, 0)
	token := html[idx+len("token="):]
	token = token[:strings.IndexAny(token, `"&`)]

	update := f.svc.UpdatePasswordWithToken(ctx, token, "new-password", "new-password")
	require.True(t, update.Success, update.Error)

	assert.False(t, f.svc.SignIn(ctx, "judy@example.com", "old-password").Success)
	assert.True(t, f.svc.SignIn(ctx, "judy@example.com", "new-password").Success)

	// One-time: the same token cannot be used again.
	again := f.svc.UpdatePasswordWithToken(ctx, token, "third-password", "third-password")
	assert.False(t, again.Success)
	assert.Equal(t, "Invalid or expired reset link", again.Error)
}

func TestResetPassword_UnknownEmailReportsSuccess(t *testing.T) {
	rdb := testRedis(t)
	f := newServiceFixture(t, rdb)

	result := f.svc.ResetPassword(context.Background(), "ghost@example.com")
	assert.True(t, result.Success, "unknown addresses must not be distinguishable")
	assert.Empty(t, f.mailer.Sent, "no email goes out for unknown addresses")
}

func TestUpdatePassword_Validation(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	tests := []struct {
		name     string
		password string
		confirm  string
		wantErr  string
	}{
		{"missing", "", "", MsgPasswordRequired},
		{"too short", "12345", "12345", MsgPasswordTooShort},
		{"mismatch", "hunter22", "hunter23", MsgPasswordsDoNotMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := f.svc.UpdatePassword(ctx, "some-user", tt.password, tt.confirm)
			assert.False(t, result.Success)
			assert.Equal(t, tt.wantErr, result.Error)
		})
	}
}

func TestUpdatePassword_Authenticated(t *testing.T) {
	f := newServiceFixture(t, nil)
	ctx := context.Background()

	require.True(t, f.svc.SignUp(ctx, "kim@example.com", "old-password").Success)
	profile, err := f.profiles.GetByEmail(ctx, "kim@example.com")
	require.NoError(t, err)

	result := f.svc.UpdatePassword(ctx, profile.ID, "new-password", "new-password")
	require.True(t, result.Success, result.Error)

	assert.True(t, f.svc.SignIn(ctx, "kim@example.com", "new-password").Success)
	assert.False(t, f.svc.SignIn(ctx, "kim@example.com", "old-password").Success)
}

func TestVerifyEmail_MarksProfileVerified(t *testing.T) {
	rdb := testRedis(t)
	f := newServiceFixture(t, rdb)
	ctx := context.Background()

	require.True(t, f.svc.SignUp(ctx, "leo@example.com", "hunter22").Success)
	profile, err := f.profiles.GetByEmail(ctx, "leo@example.com")
	require.NoError(t, err)
	require.False(t, profile.EmailVerified)

	token, err := f.tokens.IssueVerifyToken(ctx, profile.ID, profile.Email)
	require.NoError(t, err)

	result := f.svc.VerifyEmail(ctx, token)
	require.True(t, result.Success, result.Error)
	assert.Equal(t, profile.ID, result.UserID)

	refreshed, err := f.profiles.GetByID(ctx, profile.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.EmailVerified)

	// Consumed tokens are gone.
	again := f.svc.VerifyEmail(ctx, token)
	assert.False(t, again.Success)
}

func TestVerifyEmail_RecreatesMissingProfile(t *testing.T) {
	rdb := testRedis(t)
	f := newServiceFixture(t, rdb)
	ctx := context.Background()

	// Token for an identity whose profile row was never provisioned.
	orphanID := uuid.New().String()
	token, err := f.tokens.IssueVerifyToken(ctx, orphanID, "mallory@example.com")
	require.NoError(t, err)

	result := f.svc.VerifyEmail(ctx, token)
	require.True(t, result.Success, result.Error)

	profile, err := f.profiles.GetByID(ctx, orphanID)
	require.NoError(t, err)
	require.NotNil(t, profile, "verification should recreate the missing profile")
	assert.Equal(t, "mallory@example.com", profile.Email)
	assert.Equal(t, models.RoleUser, profile.Role)
	assert.True(t, profile.EmailVerified)
}

func TestVerifyEmail_UnknownToken(t *testing.T) {
	rdb := testRedis(t)
	f := newServiceFixture(t, rdb)

	result := f.svc.VerifyEmail(context.Background(), "no-such-token")
	assert.False(t, result.Success)
	assert.Equal(t, "Invalid or expired verification link", result.Error)
}
