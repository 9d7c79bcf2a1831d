// Package audit provides security audit logging for SIEM consumption.
// It logs authentication failures, refused admin access and successful admin
// data changes in structured JSON format.
package audit

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/windham/commodity-api/pkg/auth"
)

// SecurityEventType categorizes security-relevant events for filtering and alerting.
type SecurityEventType string

const (
	// EventAuthFailure is logged when a protected route receives no usable token.
	EventAuthFailure SecurityEventType = "auth_failure"
	// EventAdminAccessDenied is logged when a non-admin calls an admin route.
	EventAdminAccessDenied SecurityEventType = "admin_access_denied"
	// EventDataChange is logged after an admin create, update or delete succeeds.
	EventDataChange SecurityEventType = "data_change"
)

// SecurityEvent represents an auditable security event with all relevant context
// for SIEM ingestion and analysis.
type SecurityEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType SecurityEventType `json:"event_type"`
	Username  string            `json:"username,omitempty"`
	ClientIP  string            `json:"client_ip,omitempty"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Details   any               `json:"details,omitempty"`
	Severity  string            `json:"severity"` // info, warning
}

// SecurityAuditor logs security events for SIEM consumption.
type SecurityAuditor struct {
	logger *zap.Logger
}

// NewSecurityAuditor creates a new security auditor logging under the
// "security_audit" namespace.
func NewSecurityAuditor(logger *zap.Logger) *SecurityAuditor {
	return &SecurityAuditor{logger: logger.Named("security_audit")}
}

// AuthFailed records a rejected or missing token.
func (a *SecurityAuditor) AuthFailed(r *http.Request, reason error) {
	details := map[string]string{}
	if reason != nil {
		details["reason"] = reason.Error()
	}
	a.record(zap.WarnLevel, "Authentication failed", a.newEvent(r, EventAuthFailure, "", "warning", details))
}

// AdminDenied records an authenticated non-admin calling an admin route.
func (a *SecurityAuditor) AdminDenied(r *http.Request, username string) {
	a.record(zap.WarnLevel, "Admin access denied", a.newEvent(r, EventAdminAccessDenied, username, "warning", nil))
}

// LogDataChange records a successful mutation. The username comes from the
// claims that auth middleware placed in ctx.
func (a *SecurityAuditor) LogDataChange(ctx context.Context, r *http.Request, status int) {
	event := a.newEvent(r, EventDataChange, auth.GetUsernameFromContext(ctx), "info",
		map[string]any{"status": status, "route": r.Pattern})
	a.record(zap.InfoLevel, "Data changed", event)
}

// AuditChanges wraps an admin handler and logs every create, update or
// delete that completes with a success status. Reads pass through unrecorded.
func (a *SecurityAuditor) AuditChanges(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isMutation(r.Method) {
			next(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		if rec.status < http.StatusBadRequest {
			a.LogDataChange(r.Context(), r, rec.status)
		}
	}
}

func (a *SecurityAuditor) newEvent(r *http.Request, eventType SecurityEventType, username, severity string, details any) SecurityEvent {
	return SecurityEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Username:  username,
		ClientIP:  clientIP(r),
		Method:    r.Method,
		Path:      r.URL.Path,
		Details:   details,
		Severity:  severity,
	}
}

func (a *SecurityAuditor) record(level zapcore.Level, msg string, event SecurityEvent) {
	// Marshaling known types cannot fail.
	eventJSON, _ := json.Marshal(event)

	a.logger.Log(level, msg,
		zap.String("event_json", string(eventJSON)),
		zap.String("event_type", string(event.EventType)),
		zap.String("username", event.Username),
		zap.String("client_ip", event.ClientIP),
		zap.String("method", event.Method),
		zap.String("path", event.Path),
		zap.String("severity", event.Severity),
	)
}

func isMutation(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// clientIP prefers the first X-Forwarded-For hop, falling back to RemoteAddr.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

var _ auth.SecurityRecorder = (*SecurityAuditor)(nil)
