package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rwk-einbeck/rwk-server/internal/ageclass"
	"github.com/rwk-einbeck/rwk-server/internal/audit"
	"github.com/rwk-einbeck/rwk-server/internal/auth"
	"github.com/rwk-einbeck/rwk-server/internal/club"
	"github.com/rwk-einbeck/rwk-server/internal/league"
	"github.com/rwk-einbeck/rwk-server/internal/metrics"
	"github.com/rwk-einbeck/rwk-server/internal/ratelimit"
	"github.com/rwk-einbeck/rwk-server/internal/rbac"
	"github.com/rwk-einbeck/rwk-server/internal/score"
	"github.com/rwk-einbeck/rwk-server/internal/shooter"
	"github.com/rwk-einbeck/rwk-server/internal/user"
)

// RouterDeps holds the dependencies needed to build the HTTP router.
type RouterDeps struct {
	Users    *user.Store
	Clubs    *club.Store
	Shooters *shooter.Store
	Scores   *score.Store
	Leagues  *league.Service

	RBAC     *rbac.Store
	Resolver *rbac.Resolver

	AuditStore *audit.Store
	Collector  *audit.Collector

	Sessions auth.SessionLookup
	Limiter  *ratelimit.Limiter
	Metrics  *metrics.Metrics

	Season     SeasonInfo
	AgeClasses ageclass.Table

	AllowedOrigins []string

	// DBPool is optional; when set the health endpoint pings it.
	DBPool *pgxpool.Pool
}

// NewRouter builds the chi router with all routes and middleware wired up.
func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(slogRequestLogger)
	r.Use(secureHeaders)
	r.Use(corsMiddleware(d.AllowedOrigins))
	r.Use(metricsMiddleware(d.Metrics))

	authH := newAuthHandler(d.Users, d.Metrics)
	clubsH := newClubsHandler(d.Clubs)
	shootersH := newShootersHandler(d.Shooters, d.Season.Year)
	scoresH := newScoresHandler(d.Scores, d.Leagues, d.Collector, d.Metrics, d.Season.Year)
	leaguesH := newLeaguesHandler(d.Leagues)
	standingsH := newStandingsHandler(d.Leagues, d.Scores, d.Shooters, d.Metrics, d.Season, d.AgeClasses)
	permissionsH := newPermissionsHandler(d.RBAC, d.Collector)
	usersH := newUsersHandler(d.Users)
	auditH := newAuditHandler(d.AuditStore)
	repairH := newRepairHandler(d.Scores, d.Shooters, d.Collector, d.Metrics, d.Season.Year)

	onRateLimitReject := func() {
		if d.Metrics != nil {
			d.Metrics.IncRateLimitRejection()
		}
	}
	onPermissionDeny := func(cap rbac.Capability) {
		if d.Metrics != nil {
			d.Metrics.IncPermissionDeny(string(cap))
		}
	}
	rateLimited := ratelimit.Middleware(d.Limiter, onRateLimitReject)
	requireCap := func(cap rbac.Capability, scopeParam string) func(http.Handler) http.Handler {
		return rbac.RequireCapability(d.RBAC, d.Resolver, cap, scopeParam, onPermissionDeny)
	}

	r.Get("/health", healthHandler(d.DBPool))
	r.Get("/.well-known/rwk.json", WellKnownHandler)
	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics.PrometheusHandler())
		r.Get("/metrics/summary", d.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Login is anonymous; the limiter keys it by remote address.
		r.With(rateLimited).Post("/auth/login", authH.Login)

		// League tables are the public face of the competition; no session
		// needed, but anonymous callers share the per-address rate bucket.
		r.Group(func(r chi.Router) {
			r.Use(rateLimited)

			r.Get("/leagues", leaguesH.List)
			r.Get("/leagues/{leagueID}", leaguesH.Get)
			r.Get("/leagues/{leagueID}/teams", leaguesH.ListTeams)
			r.Get("/leagues/{leagueID}/standings", standingsH.TeamStandings)
			r.Get("/leagues/{leagueID}/shooters", standingsH.ShooterStandings)
		})

		// Everything below requires a valid session.
		r.Group(func(r chi.Router) {
			r.Use(auth.SessionMiddleware(d.Sessions))
			r.Use(rateLimited)

			r.Get("/auth/me", authH.Me)
			r.Post("/auth/logout", authH.Logout)

			r.Get("/clubs", clubsH.ListClubs)
			r.Get("/clubs/{clubID}", clubsH.GetClub)

			// Member data is visible only to roles holding the
			// member-access capability for the club in the URL.
			r.Route("/clubs/{clubID}/shooters", func(r chi.Router) {
				r.Use(requireCap(rbac.CapAccessMembers, "clubID"))
				r.Get("/", shootersH.ListByClub)
				r.Post("/", shootersH.Create)
			})

			// Result entry is scoped the same way.
			r.With(requireCap(rbac.CapEnterResults, "clubID")).
				Post("/clubs/{clubID}/scores", scoresH.Enter)

			r.Get("/shooters/{shooterID}", shootersH.Get)
			r.Get("/shooters/{shooterID}/scores", scoresH.ListByShooter)
			r.Get("/teams/{teamID}/scores", scoresH.ListByTeam)

			r.Get("/leagues/{leagueID}/missing", standingsH.MissingReport)

			// District-wide administration.
			r.Route("/admin", func(r chi.Router) {
				r.Use(requireSuperAdmin(d.RBAC))

				r.Post("/clubs", clubsH.CreateClub)
				r.Put("/clubs/{clubID}", clubsH.UpdateClub)
				r.Delete("/clubs/{clubID}", clubsH.DeleteClub)

				r.Put("/shooters/{shooterID}", shootersH.Update)

				r.Post("/leagues", leaguesH.Create)
				r.Put("/leagues/{leagueID}", leaguesH.Update)
				r.Delete("/leagues/{leagueID}", leaguesH.Delete)
				r.Post("/leagues/{leagueID}/teams", leaguesH.CreateTeam)
				r.Delete("/teams/{teamID}", leaguesH.DeleteTeam)

				r.Get("/users", usersH.List)
				r.Post("/users", usersH.Create)
				r.Get("/users/{userID}", usersH.Get)
				r.Put("/users/{userID}", usersH.Update)
				r.Delete("/users/{userID}", usersH.Delete)

				r.Get("/permissions", permissionsH.List)
				r.Get("/permissions/{userID}", permissionsH.Get)
				r.Put("/permissions/{userID}", permissionsH.Upsert)
				r.Delete("/permissions/{userID}", permissionsH.Deactivate)
				r.Delete("/permissions/{userID}/clubs/{clubID}", permissionsH.RemoveClubRole)

				r.Get("/audit", auditH.List)

				r.Get("/repair/duplicates", repairH.DryRun)
				r.Post("/repair/duplicates", repairH.Apply)
			})
		})
	})

	return r
}

// healthHandler reports liveness and, when a pool is available, database
// reachability.
func healthHandler(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		database := "not_configured"
		if pool != nil {
			if err := pool.Ping(r.Context()); err != nil {
				status = http.StatusServiceUnavailable
				database = "unreachable"
			} else {
				database = "connected"
			}
		}

		body := map[string]string{"status": "ok", "database": database}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		writeJSON(w, status, body)
	}
}

// slogRequestLogger logs one line per request with method, path, status and
// latency.
func slogRequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}
