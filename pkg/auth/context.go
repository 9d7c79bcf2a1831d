package auth

import "context"

// GetUsernameFromContext returns the authenticated username, falling back to
// the subject claim. Returns empty string if not authenticated.
func GetUsernameFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	if claims.Username != "" {
		return claims.Username
	}
	return claims.Subject
}

// IsAdminFromContext reports whether the authenticated user is an admin.
func IsAdminFromContext(ctx context.Context) bool {
	claims, ok := GetClaims(ctx)
	return ok && claims != nil && claims.IsAdmin
}
