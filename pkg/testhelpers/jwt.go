// Package testhelpers provides utilities for testing commodity-api components.
package testhelpers

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestSecret is the HS256 secret used by tests that exercise signature verification.
const TestSecret = "test-secret-key"

// GenerateTestJWT creates an unsigned token (alg: none) for use when
// verification is disabled.
func GenerateTestJWT(username string, isAdmin bool) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
	payload := fmt.Sprintf(`{"sub":"%s","username":"%s","isAdmin":%t}`, username, username, isAdmin)
	encodedPayload := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return fmt.Sprintf("%s.%s.", header, encodedPayload)
}

// GenerateSignedTestJWT creates an HS256 token signed with secret that
// expires after ttl. A negative ttl produces an already expired token.
func GenerateSignedTestJWT(secret, username string, isAdmin bool, ttl time.Duration) string {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      username,
		"username": username,
		"isAdmin":  isAdmin,
		"iat":      now.Add(-time.Minute).Unix(),
		"exp":      now.Add(ttl).Unix(),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		panic(fmt.Sprintf("failed to sign test token: %v", err))
	}
	return signed
}

// GenerateTestJWTWithBearer returns token with "Bearer " prefix for Authorization header.
func GenerateTestJWTWithBearer(username string, isAdmin bool) string {
	return "Bearer " + GenerateSignedTestJWT(TestSecret, username, isAdmin, time.Hour)
}
