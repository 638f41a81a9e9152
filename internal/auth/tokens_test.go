package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tokenStoreFixture(t *testing.T) (*TokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewTokenStore(rdb), mr
}

func TestResetToken_SingleUse(t *testing.T) {
	store, _ := tokenStoreFixture(t)
	ctx := context.Background()

	token, err := store.IssueResetToken(ctx, "user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.ConsumeResetToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Second consume finds nothing.
	userID, err = store.ConsumeResetToken(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestResetToken_Expires(t *testing.T) {
	store, mr := tokenStoreFixture(t)
	ctx := context.Background()

	token, err := store.IssueResetToken(ctx, "user-123")
	require.NoError(t, err)

	mr.FastForward(ResetTokenTTL + time.Second)

	userID, err := store.ConsumeResetToken(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestVerifyToken_CarriesIdentity(t *testing.T) {
	store, _ := tokenStoreFixture(t)
	ctx := context.Background()

	token, err := store.IssueVerifyToken(ctx, "user-123", "a@example.com")
	require.NoError(t, err)

	userID, email, err := store.ConsumeVerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
	assert.Equal(t, "a@example.com", email)

	userID, email, err = store.ConsumeVerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Empty(t, userID)
	assert.Empty(t, email)
}

func TestTokens_UnknownToken(t *testing.T) {
	store, _ := tokenStoreFixture(t)

	userID, err := store.ConsumeResetToken(context.Background(), "never-issued")
	require.NoError(t, err)
	assert.Empty(t, userID)
}

func TestTokens_NilRedis(t *testing.T) {
	store := NewTokenStore(nil)
	ctx := context.Background()

	_, err := store.IssueResetToken(ctx, "user-123")
	assert.ErrorIs(t, err, ErrTokensUnavailable)

	// Deny-list degrades to no-op instead of locking everyone out.
	store.DenyJTI(ctx, "some-jti", time.Now().Add(time.Hour))
	assert.False(t, store.IsJTIDenied(ctx, "some-jti"))
}

func TestDenyJTI(t *testing.T) {
	store, mr := tokenStoreFixture(t)
	ctx := context.Background()

	assert.False(t, store.IsJTIDenied(ctx, "jti-1"))

	store.DenyJTI(ctx, "jti-1", time.Now().Add(time.Hour))
	assert.True(t, store.IsJTIDenied(ctx, "jti-1"))

	// The entry lives only until the token's natural expiry.
	mr.FastForward(2 * time.Hour)
	assert.False(t, store.IsJTIDenied(ctx, "jti-1"))
}

func TestDenyJTI_ExpiredTokenIsNoop(t *testing.T) {
	store, _ := tokenStoreFixture(t)
	ctx := context.Background()

	store.DenyJTI(ctx, "jti-old", time.Now().Add(-time.Minute))
	assert.False(t, store.IsJTIDenied(ctx, "jti-old"))
}
