package api

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/ageclass"
	"github.com/rwk-einbeck/rwk-server/internal/league"
	"github.com/rwk-einbeck/rwk-server/internal/metrics"
	"github.com/rwk-einbeck/rwk-server/internal/score"
	"github.com/rwk-einbeck/rwk-server/internal/shooter"
	"github.com/rwk-einbeck/rwk-server/internal/standings"
)

// SeasonInfo carries the running season's parameters into the handlers.
type SeasonInfo struct {
	Year               int
	TrendThreshold     float64
	MissingRoundPolicy string
}

// standingsHandler computes league tables on demand. Nothing here is
// persisted; every request aggregates from the raw score records.
type standingsHandler struct {
	leagues  *league.Service
	scores   *score.Store
	shooters *shooter.Store
	metrics  *metrics.Metrics
	season   SeasonInfo
	ageTable ageclass.Table
}

func newStandingsHandler(leagues *league.Service, scores *score.Store, shooters *shooter.Store, m *metrics.Metrics, season SeasonInfo, ageTable ageclass.Table) *standingsHandler {
	return &standingsHandler{
		leagues:  leagues,
		scores:   scores,
		shooters: shooters,
		metrics:  m,
		season:   season,
		ageTable: ageTable,
	}
}

// teamRow is one row of the team table response, a standing joined with the
// team's display data.
type teamRow struct {
	standings.TeamStanding
	TeamName string `json:"team_name"`
	ClubID   string `json:"club_id"`
}

// TeamStandings handles GET /api/v1/leagues/{leagueID}/standings.
func (h *standingsHandler) TeamStandings(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")

	l, err := h.leagues.GetByID(r.Context(), leagueID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "league not found")
		return
	}

	year := h.queryYear(r, l.Year)
	teams, err := h.leagues.ListTeams(r.Context(), leagueID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}

	records, err := h.scores.ListByLeague(r.Context(), leagueID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load scores")
		return
	}
	scs := toStandingsScores(records)

	frontier, err := h.frontier(r, scs, l.RoundCount, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to determine current round")
		return
	}

	start := time.Now()
	table := make([]standings.TeamStanding, 0, len(teams))
	for _, t := range teams {
		table = append(table, standings.AggregateTeam(t.ID, scs, frontier))
	}
	ranked := standings.RankTeams(table)
	if h.metrics != nil {
		h.metrics.ObserveStandingsCompute(time.Since(start).Seconds())
	}

	// Join team display data back onto the ranked rows.
	byID := make(map[string]*league.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	rows := make([]teamRow, 0, len(ranked))
	for _, st := range ranked {
		row := teamRow{TeamStanding: st}
		if t := byID[st.TeamID]; t != nil {
			row.TeamName = t.Name
			row.ClubID = t.ClubID
		}
		rows = append(rows, row)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"league_id":     leagueID,
		"year":          year,
		"current_round": frontier,
		"standings":     rows,
	})
}

// missingRow reports a team still owing results for finished rounds.
type missingRow struct {
	TeamID        string `json:"team_id"`
	TeamName      string `json:"team_name"`
	ClubID        string `json:"club_id"`
	MissingRounds []int  `json:"missing_rounds"`
}

// MissingReport handles GET /api/v1/leagues/{leagueID}/missing. It lists the
// teams that still owe results for rounds the league has already reached, so
// club representatives can be chased before the deadline.
func (h *standingsHandler) MissingReport(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")

	l, err := h.leagues.GetByID(r.Context(), leagueID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "league not found")
		return
	}

	year := h.queryYear(r, l.Year)
	teams, err := h.leagues.ListTeams(r.Context(), leagueID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}

	records, err := h.scores.ListByLeague(r.Context(), leagueID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load scores")
		return
	}
	scs := toStandingsScores(records)

	frontier, err := h.frontier(r, scs, l.RoundCount, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to determine current round")
		return
	}

	rows := make([]missingRow, 0)
	for _, t := range teams {
		st := standings.AggregateTeam(t.ID, scs, frontier)
		if len(st.MissingRounds) == 0 {
			continue
		}
		rows = append(rows, missingRow{
			TeamID:        t.ID,
			TeamName:      t.Name,
			ClubID:        t.ClubID,
			MissingRounds: st.MissingRounds,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"league_id":     leagueID,
		"year":          year,
		"current_round": frontier,
		"missing":       rows,
	})
}

// shooterRow is one row of the individual table response.
type shooterRow struct {
	standings.ShooterStanding
	ShooterName string `json:"shooter_name"`
	TeamID      string `json:"team_id"`
}

// ShooterStandings handles GET /api/v1/leagues/{leagueID}/shooters.
func (h *standingsHandler) ShooterStandings(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")

	l, err := h.leagues.GetByID(r.Context(), leagueID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "league not found")
		return
	}

	year := h.queryYear(r, l.Year)
	records, err := h.scores.ListByLeague(r.Context(), leagueID, year)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load scores")
		return
	}
	scs := toStandingsScores(records)

	// Distinct shooters in score order, then load their master data.
	seen := map[string]string{} // shooter id -> team id of first appearance
	var ids []string
	for _, rec := range records {
		if _, ok := seen[rec.ShooterID]; !ok {
			seen[rec.ShooterID] = rec.TeamID
			ids = append(ids, rec.ShooterID)
		}
	}
	shooters, err := h.shooters.ListByIDs(r.Context(), ids)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load shooters")
		return
	}

	start := time.Now()
	rows := make([]shooterRow, 0, len(shooters))
	for _, sh := range shooters {
		birthYear := 0
		if sh.BirthYear != nil {
			birthYear = *sh.BirthYear
		}
		st := standings.AggregateShooter(sh.ID, scs, birthYear, ageclass.Sex(sh.Sex), h.ageTable, h.season.TrendThreshold)
		rows = append(rows, shooterRow{
			ShooterStanding: st,
			ShooterName:     sh.Name,
			TeamID:          seen[sh.ID],
		})
	}
	if h.metrics != nil {
		h.metrics.ObserveStandingsCompute(time.Since(start).Seconds())
	}

	// Order by average descending, unclassifiable-but-scored shooters by id.
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		switch {
		case a.Average == nil && b.Average == nil:
			return a.ShooterID < b.ShooterID
		case a.Average == nil:
			return false
		case b.Average == nil:
			return true
		case *a.Average != *b.Average:
			return *a.Average > *b.Average
		default:
			return a.ShooterID < b.ShooterID
		}
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"league_id": leagueID,
		"year":      year,
		"shooters":  rows,
	})
}

// frontier picks the current-round frontier per the configured policy:
// "league" derives it from the league's own scores, "group" from every score
// entered anywhere in the season.
func (h *standingsHandler) frontier(r *http.Request, leagueScores []standings.Score, roundCount, year int) (int, error) {
	if h.season.MissingRoundPolicy != "group" {
		return standings.CurrentRound(leagueScores, roundCount), nil
	}

	season, err := h.scores.SeasonSnapshot(r.Context(), year)
	if err != nil {
		return 0, err
	}
	all := make([]standings.Score, 0, len(season))
	for _, rec := range season {
		all = append(all, standings.Score{ShooterID: rec.ShooterID, TeamID: rec.TeamID, Round: rec.Round})
	}
	return standings.CurrentRound(all, roundCount), nil
}

func (h *standingsHandler) queryYear(r *http.Request, leagueYear int) int {
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 0 {
		return y
	}
	if leagueYear > 0 {
		return leagueYear
	}
	return h.season.Year
}

// toStandingsScores converts persisted score rows into the pure aggregation
// input type.
func toStandingsScores(records []*score.Score) []standings.Score {
	out := make([]standings.Score, 0, len(records))
	for _, rec := range records {
		out = append(out, standings.Score{
			ShooterID: rec.ShooterID,
			TeamID:    rec.TeamID,
			Round:     rec.Round,
			Rings:     rec.Rings,
		})
	}
	return out
}
