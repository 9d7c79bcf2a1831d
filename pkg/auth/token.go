package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTokenTTL is the lifetime of tokens minted by IssueToken when ttl is zero.
const DefaultTokenTTL = 24 * time.Hour

// IssueToken mints an HS256 token for username signed with secret.
func IssueToken(secret, username string, isAdmin bool, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("secret key is required to issue tokens")
	}
	if username == "" {
		return "", errors.New("username is required")
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}

	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Username: username,
		IsAdmin:  isAdmin,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
