package rbac

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/auth"
)

// AssignmentLookup is the interface for loading a user's role assignment.
// It exists to allow testing the middleware without a real database.
type AssignmentLookup interface {
	GetByUserID(ctx context.Context, userID string) (*Assignment, error)
}

type contextKey int

const decisionContextKey contextKey = iota

// DecisionFromContext extracts the permission decision recorded by
// RequireCapability, or a zero Decision if not present.
func DecisionFromContext(ctx context.Context) Decision {
	d, _ := ctx.Value(decisionContextKey).(Decision)
	return d
}

// RequireCapability returns middleware that loads the authenticated user's
// role assignment and denies the request unless the resolver allows the given
// capability for the scope id found in the named chi URL parameter.
//
// The check is fail-closed: a missing user, a missing assignment row, or a
// deny decision all end the request with 403. The decision is stored in the
// request context for handlers that want the matched role. Any onDeny
// callbacks run on every denied request; they exist for metrics wiring.
func RequireCapability(lookup AssignmentLookup, resolver *Resolver, cap Capability, scopeParam string, onDeny ...func(Capability)) func(http.Handler) http.Handler {
	deny := func(w http.ResponseWriter, status int, code, message string) {
		for _, fn := range onDeny {
			fn(cap)
		}
		writeDenied(w, status, code, message)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := auth.UserFromContext(r.Context())
			if u == nil {
				deny(w, http.StatusUnauthorized, "unauthorized", "not authenticated")
				return
			}

			scopeID := chi.URLParam(r, scopeParam)
			if scopeID == "" {
				deny(w, http.StatusBadRequest, "invalid_scope", "scope id is required")
				return
			}

			assignment, err := lookup.GetByUserID(r.Context(), u.ID)
			if err != nil || assignment == nil {
				deny(w, http.StatusForbidden, "forbidden", "access denied")
				return
			}

			decision := resolver.Decide(*assignment, cap, scopeID)
			if !decision.Allowed {
				deny(w, http.StatusForbidden, "forbidden", "access denied")
				return
			}

			ctx := context.WithValue(r.Context(), decisionContextKey, decision)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeDenied(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
