package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssuer_MintAndParse(t *testing.T) {
	issuer := NewSessionIssuer(testSecret)

	token, err := issuer.Mint("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	session, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", session.UserID)
	assert.NotEmpty(t, session.JTI, "every token carries a unique JTI")
	assert.WithinDuration(t, time.Now().Add(SessionTTL), session.ExpiresAt, time.Minute)
}

func TestSessionIssuer_UniqueJTIs(t *testing.T) {
	issuer := NewSessionIssuer(testSecret)

	first, err := issuer.Mint("user-123")
	require.NoError(t, err)
	second, err := issuer.Mint("user-123")
	require.NoError(t, err)

	s1, err := issuer.Parse(first)
	require.NoError(t, err)
	s2, err := issuer.Parse(second)
	require.NoError(t, err)
	assert.NotEqual(t, s1.JTI, s2.JTI)
}

func TestSessionIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := NewSessionIssuer(testSecret).Mint("user-123")
	require.NoError(t, err)

	_, err = NewSessionIssuer("a-completely-different-secret").Parse(token)
	assert.Error(t, err)
}

func TestSessionIssuer_RejectsEmptySecret(t *testing.T) {
	_, err := NewSessionIssuer("").Mint("user-123")
	assert.Error(t, err)
}

func TestSessionIssuer_RejectsForeignClaims(t *testing.T) {
	issuer := NewSessionIssuer(testSecret)
	now := time.Now()

	mint := func(claims jwt.MapClaims) string {
		t.Helper()
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)
		return token
	}

	base := func() jwt.MapClaims {
		return jwt.MapClaims{
			"sub": "user-123",
			"iss": TokenIssuer,
			"aud": TokenAudience,
			"exp": now.Add(time.Hour).Unix(),
			"iat": now.Unix(),
		}
	}

	t.Run("wrong issuer", func(t *testing.T) {
		claims := base()
		claims["iss"] = "someone-else"
		_, err := issuer.Parse(mint(claims))
		assert.Error(t, err)
	})

	t.Run("wrong audience", func(t *testing.T) {
		claims := base()
		claims["aud"] = "someone-else"
		_, err := issuer.Parse(mint(claims))
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := base()
		delete(claims, "sub")
		_, err := issuer.Parse(mint(claims))
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		claims := base()
		claims["exp"] = now.Add(-time.Hour).Unix()
		_, err := issuer.Parse(mint(claims))
		assert.Error(t, err)
	})
}

func TestSessionIssuer_RoleNeverEmbedded(t *testing.T) {
	issuer := NewSessionIssuer(testSecret)

	tokenString, err := issuer.Mint("user-123")
	require.NoError(t, err)

	token, _, err := jwt.NewParser().ParseUnverified(tokenString, jwt.MapClaims{})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)

	_, hasRole := claims["role"]
	assert.False(t, hasRole, "role must be re-fetched from the store, never trusted from the token")
}
