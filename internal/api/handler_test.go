package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rwk-einbeck/rwk-server/internal/auth"
	"github.com/rwk-einbeck/rwk-server/internal/ratelimit"
	"github.com/rwk-einbeck/rwk-server/internal/rbac"
	"github.com/rwk-einbeck/rwk-server/internal/score"
	"github.com/rwk-einbeck/rwk-server/internal/standings"
)

// reqWithUser returns a copy of req with an authenticated user in the context.
func reqWithUser(req *http.Request, userID string) *http.Request {
	u := &auth.User{ID: userID, Email: userID + "@example.org"}
	return req.WithContext(auth.ContextWithUser(req.Context(), u))
}

func TestRequestIDMiddleware(t *testing.T) {
	var captured string
	handler := requestIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = RequestIDFromContext(r.Context())
	}))

	t.Run("generates id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		id := rec.Header().Get("X-Request-ID")
		if id == "" {
			t.Fatal("expected generated X-Request-ID header")
		}
		if len(id) != 32 {
			t.Errorf("generated id length = %d, want 32", len(id))
		}
		if captured != id {
			t.Errorf("context id = %q, header id = %q", captured, id)
		}
	})

	t.Run("keeps caller-provided id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
			t.Errorf("X-Request-ID = %q, want abc-123", got)
		}
	})
}

func TestSecureHeaders(t *testing.T) {
	handler := secureHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := corsMiddleware([]string{"https://rwk.example.org"})(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://rwk.example.org")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://rwk.example.org" {
			t.Errorf("Access-Control-Allow-Origin = %q", got)
		}
	})

	t.Run("unknown origin gets no allow header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "https://evil.example.org")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want empty", got)
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "https://rwk.example.org")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Errorf("preflight status = %d, want 204", rec.Code)
		}
	})
}

type fakeAssignmentLookup struct {
	assignments map[string]*rbac.Assignment
}

func (f *fakeAssignmentLookup) GetByUserID(ctx context.Context, userID string) (*rbac.Assignment, error) {
	a, ok := f.assignments[userID]
	if !ok {
		return nil, context.Canceled
	}
	return a, nil
}

func TestRequireSuperAdmin(t *testing.T) {
	lookup := &fakeAssignmentLookup{assignments: map[string]*rbac.Assignment{
		"u-admin":  {UserID: "u-admin", IsSuperAdmin: true, IsActive: true},
		"u-normal": {UserID: "u-normal", IsActive: true},
	}}
	handler := requireSuperAdmin(lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		userID     string
		wantStatus int
	}{
		{"no user", "", http.StatusUnauthorized},
		{"super admin", "u-admin", http.StatusOK},
		{"regular user", "u-normal", http.StatusForbidden},
		{"unknown user", "u-ghost", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.userID != "" {
				req = reqWithUser(req, tt.userID)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestWellKnownHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	WellKnownHandler(rec, httptest.NewRequest(http.MethodGet, "/.well-known/rwk.json", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var manifest struct {
		Name      string            `json:"name"`
		Endpoints map[string]string `json:"endpoints"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if manifest.Name != "RWK Einbeck" {
		t.Errorf("name = %q", manifest.Name)
	}
	if manifest.Endpoints["standings"] == "" {
		t.Error("manifest missing standings endpoint")
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc123", "abc123"},
		{"bearer abc123", ""},
		{"Basic abc123", ""},
		{"Bearer", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := extractBearerToken(req); got != tt.want {
			t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestReadJSONEnforcesLimit(t *testing.T) {
	big := `{"name":"` + strings.Repeat("x", maxBodySize) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))

	var v struct {
		Name string `json:"name"`
	}
	if err := readJSON(req, &v); err == nil {
		t.Error("expected error for oversized body")
	}
}

func TestToStandingsScores(t *testing.T) {
	records := []*score.Score{
		{ShooterID: "s1", TeamID: "t1", Round: 1, Rings: 370},
		{ShooterID: "s2", TeamID: "t1", Round: 2, Rings: 355},
	}

	got := toStandingsScores(records)
	want := []standings.Score{
		{ShooterID: "s1", TeamID: "t1", Round: 1, Rings: 370},
		{ShooterID: "s2", TeamID: "t1", Round: 2, Rings: 355},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("score[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHealthHandlerWithoutPool(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
	if body["database"] != "not_configured" {
		t.Errorf("database = %q, want not_configured", body["database"])
	}
}

// newTestRouter builds a router with just enough dependencies for routes that
// never reach a store.
func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(RouterDeps{
		Limiter:        ratelimit.New(100, time.Minute),
		Resolver:       rbac.NewResolver(rbac.DefaultTable()),
		Season:         SeasonInfo{Year: 2026},
		AllowedOrigins: []string{"*"},
	})
}

func TestRouterPublicRoutes(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"well-known", http.MethodGet, "/.well-known/rwk.json", http.StatusOK},
		{"unknown route", http.MethodGet, "/nope", http.StatusNotFound},
		{"clubs without session", http.MethodGet, "/api/v1/clubs", http.StatusUnauthorized},
		{"admin without session", http.MethodGet, "/api/v1/admin/users", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.wantStatus {
				t.Errorf("%s %s: status = %d, want %d", tt.method, tt.path, rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRouterLoginValidation(t *testing.T) {
	router := newTestRouter(t)

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnprocessableEntity {
			t.Errorf("status = %d, want 422", rec.Code)
		}
	})
}

func TestRouterRateLimitHeaders(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-RateLimit-Limit") == "" {
		t.Error("expected X-RateLimit-Limit header on login response")
	}
}
