package rbac

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rwk-einbeck/rwk-server/internal/auth"
)

type mockLookup struct {
	assignments map[string]*Assignment
}

func (m *mockLookup) GetByUserID(ctx context.Context, userID string) (*Assignment, error) {
	a, ok := m.assignments[userID]
	if !ok {
		return nil, errors.New("not found")
	}
	return a, nil
}

func TestRequireCapability(t *testing.T) {
	lookup := &mockLookup{
		assignments: map[string]*Assignment{
			"sportleiter": {
				UserID:    "sportleiter",
				IsActive:  true,
				ClubRoles: map[string]ClubRole{"club-1": RoleSportleiter},
			},
			"schuetze": {
				UserID:    "schuetze",
				IsActive:  true,
				ClubRoles: map[string]ClubRole{"club-1": RoleVereinsschuetze},
			},
			"admin": {UserID: "admin", IsSuperAdmin: true},
		},
	}
	resolver := NewResolver(DefaultTable())

	tests := []struct {
		name       string
		userID     string
		clubID     string
		wantStatus int
	}{
		{"sportleiter own club", "sportleiter", "club-1", http.StatusOK},
		{"sportleiter other club", "sportleiter", "club-2", http.StatusForbidden},
		{"schuetze denied", "schuetze", "club-1", http.StatusForbidden},
		{"no assignment row", "stranger", "club-1", http.StatusForbidden},
		{"super admin any club", "admin", "club-99", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := chi.NewRouter()
			r.With(RequireCapability(lookup, resolver, CapEnterResults, "clubID")).
				Post("/clubs/{clubID}/results", func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(http.StatusOK)
				})

			req := httptest.NewRequest(http.MethodPost, "/clubs/"+tt.clubID+"/results", nil)
			req = req.WithContext(auth.ContextWithUser(req.Context(), &auth.User{ID: tt.userID}))
			rr := httptest.NewRecorder()

			r.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
		})
	}
}

func TestRequireCapability_Unauthenticated(t *testing.T) {
	lookup := &mockLookup{assignments: map[string]*Assignment{}}
	resolver := NewResolver(DefaultTable())

	r := chi.NewRouter()
	r.With(RequireCapability(lookup, resolver, CapEnterResults, "clubID")).
		Post("/clubs/{clubID}/results", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})

	req := httptest.NewRequest(http.MethodPost, "/clubs/club-1/results", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without user in context, got %d", rr.Code)
	}
}
