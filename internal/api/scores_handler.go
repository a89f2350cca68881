package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/audit"
	"github.com/rwk-einbeck/rwk-server/internal/league"
	"github.com/rwk-einbeck/rwk-server/internal/metrics"
	"github.com/rwk-einbeck/rwk-server/internal/score"
)

// scoresHandler groups score-entry HTTP handlers.
type scoresHandler struct {
	store     *score.Store
	leagues   *league.Service
	collector *audit.Collector
	metrics   *metrics.Metrics
	year      int
}

func newScoresHandler(store *score.Store, leagues *league.Service, collector *audit.Collector, m *metrics.Metrics, year int) *scoresHandler {
	return &scoresHandler{store: store, leagues: leagues, collector: collector, metrics: m, year: year}
}

// scoreEntryError cross-checks a parsed entry against the team and league it
// targets. The capability middleware only vouches for the club in the URL, so
// the team must belong to that club, and the round must fall inside the
// league's schedule. A zero status means the entry is acceptable.
func scoreEntryError(in score.EnterScoreInput, clubID string, team *league.Team, lg *league.League) (int, string, string) {
	if team.ClubID != clubID {
		return http.StatusForbidden, "forbidden", "team does not belong to this club"
	}
	if in.Round < 1 {
		return http.StatusUnprocessableEntity, "validation_error", "round must be positive"
	}
	if in.Round > lg.RoundCount {
		return http.StatusUnprocessableEntity, "validation_error",
			fmt.Sprintf("round must not exceed the league's %d rounds", lg.RoundCount)
	}
	if in.Rings < 0 {
		return http.StatusUnprocessableEntity, "validation_error", "rings must not be negative"
	}
	return 0, "", ""
}

// Enter handles POST /api/v1/clubs/{clubID}/scores. The route is guarded by
// the result-entry capability for the club in the URL; by the time this runs
// the caller is allowed to enter results for that club.
func (h *scoresHandler) Enter(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")

	var in score.EnterScoreInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	if in.ShooterID == "" || in.TeamID == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "shooter_id and team_id are required")
		return
	}

	team, err := h.leagues.GetTeamByID(r.Context(), in.TeamID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "team not found")
		return
	}
	lg, err := h.leagues.GetByID(r.Context(), team.LeagueID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load league")
		return
	}
	if status, code, msg := scoreEntryError(in, clubID, team, lg); status != 0 {
		writeError(w, status, code, msg)
		return
	}
	if in.Year == 0 {
		in.Year = h.year
	}

	sc, inserted, err := h.store.Upsert(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to store score")
		return
	}

	if h.metrics != nil {
		h.metrics.IncScoreEntered(sc.Discipline)
	}
	action := audit.ActionScoreEntered
	status := http.StatusCreated
	if !inserted {
		action = audit.ActionScoreCorrected
		status = http.StatusOK
	}
	h.record(r, audit.Entry{
		Action:     action,
		EntityType: "score",
		EntityID:   sc.ID,
		Detail: map[string]string{
			"shooter_id": sc.ShooterID,
			"team_id":    sc.TeamID,
			"round":      strconv.Itoa(sc.Round),
			"rings":      strconv.Itoa(sc.Rings),
		},
	})
	auditLog(r, action, "score", sc.ID, "round", sc.Round, "rings", sc.Rings)

	writeJSON(w, status, sc)
}

// ListByTeam handles GET /api/v1/teams/{teamID}/scores.
func (h *scoresHandler) ListByTeam(w http.ResponseWriter, r *http.Request) {
	teamID := chi.URLParam(r, "teamID")
	year := h.queryYear(r)

	scores, err := h.store.ListByTeam(r.Context(), teamID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list scores")
		return
	}
	if scores == nil {
		scores = []*score.Score{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scores": scores, "year": year})
}

// ListByShooter handles GET /api/v1/shooters/{shooterID}/scores.
func (h *scoresHandler) ListByShooter(w http.ResponseWriter, r *http.Request) {
	shooterID := chi.URLParam(r, "shooterID")
	year := h.queryYear(r)

	scores, err := h.store.ListByShooter(r.Context(), shooterID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list scores")
		return
	}
	if scores == nil {
		scores = []*score.Score{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"scores": scores, "year": year})
}

// queryYear reads the year query parameter, defaulting to the running season.
func (h *scoresHandler) queryYear(r *http.Request) int {
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 0 {
		return y
	}
	return h.year
}

func (h *scoresHandler) record(r *http.Request, e audit.Entry) {
	if h.collector == nil {
		return
	}
	if u := userID(r); u != "" {
		e.UserID = u
	}
	h.collector.Record(e)
}
