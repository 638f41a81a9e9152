package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// One-time token lifetimes.
const (
	ResetTokenTTL  = time.Hour
	VerifyTokenTTL = 24 * time.Hour
)

// ErrTokensUnavailable is returned when Redis is not configured, so flows
// that require one-time tokens can surface a clear failure.
var ErrTokensUnavailable = fmt.Errorf("token store unavailable")

// TokenStore holds single-use tokens (password reset, email verification)
// and the sign-out JTI deny-list in Redis. All tokens expire server-side.
type TokenStore struct {
	rdb *redis.Client
}

// NewTokenStore creates a TokenStore. A nil client is allowed; issuing
// then fails with ErrTokensUnavailable and the deny-list degrades to a
// no-op (client-side token discard only).
func NewTokenStore(rdb *redis.Client) *TokenStore {
	return &TokenStore{rdb: rdb}
}

func resetKey(token string) string  { return "pwreset:" + token }
func verifyKey(token string) string { return "verify:" + token }
func denyKey(jti string) string     { return "jti:denied:" + jti }

// IssueResetToken stores a fresh single-use reset token mapped to the user.
func (s *TokenStore) IssueResetToken(ctx context.Context, userID string) (string, error) {
	return s.issue(ctx, resetKey, userID, ResetTokenTTL)
}

// ConsumeResetToken resolves and deletes the token. Returns ("", nil) for
// unknown or expired tokens.
func (s *TokenStore) ConsumeResetToken(ctx context.Context, token string) (string, error) {
	return s.consume(ctx, resetKey(token))
}

// IssueVerifyToken stores a fresh single-use email-verification token. The
// value carries both the user ID and the address so the callback can
// recreate a missing profile.
func (s *TokenStore) IssueVerifyToken(ctx context.Context, userID, email string) (string, error) {
	if s.rdb == nil {
		return "", ErrTokensUnavailable
	}
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, verifyKey(token), userID+"|"+email, VerifyTokenTTL).Err(); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// ConsumeVerifyToken resolves and deletes the token, returning the user ID
// and email it was issued for. Returns ("", "", nil) for unknown or expired
// tokens.
func (s *TokenStore) ConsumeVerifyToken(ctx context.Context, token string) (string, string, error) {
	value, err := s.consume(ctx, verifyKey(token))
	if err != nil || value == "" {
		return "", "", err
	}
	userID, email, _ := strings.Cut(value, "|")
	return userID, email, nil
}

func (s *TokenStore) issue(ctx context.Context, key func(string) string, userID string, ttl time.Duration) (string, error) {
	if s.rdb == nil {
		return "", ErrTokensUnavailable
	}
	token := uuid.New().String()
	if err := s.rdb.Set(ctx, key(token), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

func (s *TokenStore) consume(ctx context.Context, key string) (string, error) {
	if s.rdb == nil {
		return "", ErrTokensUnavailable
	}
	userID, err := s.rdb.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume token: %w", err)
	}
	return userID, nil
}

// DenyJTI records a signed-out token's JTI until its natural expiry.
// Best-effort: without Redis sign-out degrades to client-side discard.
func (s *TokenStore) DenyJTI(ctx context.Context, jti string, expiresAt time.Time) {
	if s.rdb == nil || jti == "" {
		return
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	s.rdb.Set(ctx, denyKey(jti), "1", ttl)
}

// IsJTIDenied reports whether the JTI was deny-listed by a sign-out.
// Fail-open on Redis errors, matching the rate limiter's posture.
func (s *TokenStore) IsJTIDenied(ctx context.Context, jti string) bool {
	if s.rdb == nil || jti == "" {
		return false
	}
	n, err := s.rdb.Exists(ctx, denyKey(jti)).Result()
	if err != nil {
		return false
	}
	return n > 0
}
