package auth

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It is thin and delegates authentication logic to AuthService.
type Middleware struct {
	authService AuthService
	recorder    SecurityRecorder
	logger      *zap.Logger
}

// SecurityRecorder receives rejected requests for audit logging.
type SecurityRecorder interface {
	AuthFailed(r *http.Request, reason error)
	AdminDenied(r *http.Request, username string)
}

// NewMiddleware creates a new auth middleware with the given AuthService.
func NewMiddleware(authService AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{
		authService: authService,
		logger:      logger,
	}
}

// WithRecorder reports authentication failures and admin denials to recorder.
func (m *Middleware) WithRecorder(recorder SecurityRecorder) *Middleware {
	m.recorder = recorder
	return m
}

// RequireAuth validates the JWT and sets claims and token in context for
// downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateRequest(r)
		if err != nil {
			if m.recorder != nil {
				m.recorder.AuthFailed(r, err)
			}
			m.writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims, token)))
	}
}

// RequireAdmin validates the JWT and requires the isAdmin claim.
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, token, err := m.authService.ValidateRequest(r)
		if err != nil {
			if m.recorder != nil {
				m.recorder.AuthFailed(r, err)
			}
			m.writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		if err := m.authService.RequireAdmin(claims); err != nil {
			m.logger.Warn("Non-admin user attempted to access admin endpoint",
				zap.String("username", claims.Username),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
			if m.recorder != nil {
				m.recorder.AdminDenied(r, claims.Username)
			}
			m.writeError(w, http.StatusForbidden, "Admin privileges required")
			return
		}

		next(w, r.WithContext(WithClaims(r.Context(), claims, token)))
	}
}

func (m *Middleware) writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{
			"message": message,
			"status":  statusCode,
		},
	})
}
