package api

import (
	"log/slog"
	"net/http"

	"github.com/rwk-einbeck/rwk-server/internal/auth"
)

// auditLog emits a structured log entry for a state-changing action. The
// durable audit trail lives in the audit store; this is the operator-facing
// mirror in the server log.
func auditLog(r *http.Request, action string, entityType string, entityID string, detail ...any) {
	attrs := []any{
		"action", action,
		"entity_type", entityType,
		"entity_id", entityID,
		"ip", clientIP(r),
		"request_id", RequestIDFromContext(r.Context()),
	}

	if u := auth.UserFromContext(r.Context()); u != nil {
		attrs = append(attrs, "user_id", u.ID, "user_email", u.Email)
	}

	attrs = append(attrs, detail...)
	slog.Info("audit", attrs...)
}

// userID returns the authenticated user's id, or empty for anonymous requests.
func userID(r *http.Request) string {
	if u := auth.UserFromContext(r.Context()); u != nil {
		return u.ID
	}
	return ""
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
