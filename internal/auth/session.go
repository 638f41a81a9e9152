package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token issuer/audience identifiers validated on every parse.
const (
	TokenIssuer   = "dashstack-api"
	TokenAudience = "dashstack-web"
)

// SessionTTL is the lifetime of an issued session token.
const SessionTTL = 7 * 24 * time.Hour

// Session is the parsed, validated content of a session token. It carries
// only the subject; the token's presence does not guarantee the profile
// still exists, and role is never trusted from the token.
type Session struct {
	UserID    string
	JTI       string
	ExpiresAt time.Time
}

// SessionIssuer exchanges a validated identity for a signed session token
// and validates presented tokens. Tokens are HS256 JWTs.
type SessionIssuer struct {
	secret []byte
}

// NewSessionIssuer creates a SessionIssuer signing with the given secret.
func NewSessionIssuer(secret string) *SessionIssuer {
	return &SessionIssuer{secret: []byte(secret)}
}

// Mint creates a session token for the given profile ID. The role is
// deliberately not embedded; consumers re-fetch it per request.
func (i *SessionIssuer) Mint(userID string) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,                    // Subject (profile ID)
		"iss": TokenIssuer,               // Issuer
		"aud": TokenAudience,             // Audience
		"exp": now.Add(SessionTTL).Unix(),
		"iat": now.Unix(),
		"nbf": now.Unix(),
		"jti": newJTI(),                  // Unique token ID for the sign-out deny-list
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse validates the token signature, method, issuer, and audience, and
// returns the session content. Any failure collapses to a single error.
func (i *SessionIssuer) Parse(tokenString string) (*Session, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != TokenIssuer {
		return nil, fmt.Errorf("invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != TokenAudience {
		return nil, fmt.Errorf("invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("invalid subject claim")
	}

	session := &Session{UserID: sub}
	if jti, ok := claims["jti"].(string); ok {
		session.JTI = jti
	}
	if exp, ok := claims["exp"].(float64); ok {
		session.ExpiresAt = time.Unix(int64(exp), 0)
	}

	return session, nil
}

// newJTI creates a unique JWT ID to prevent replay attacks.
func newJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}
