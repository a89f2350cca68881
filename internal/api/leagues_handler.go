package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/league"
)

// leaguesHandler groups league and team HTTP handlers.
type leaguesHandler struct {
	service *league.Service
}

func newLeaguesHandler(service *league.Service) *leaguesHandler {
	return &leaguesHandler{service: service}
}

// List handles GET /api/v1/leagues.
func (h *leaguesHandler) List(w http.ResponseWriter, r *http.Request) {
	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	params := league.LeagueListParams{
		Year:       year,
		Discipline: r.URL.Query().Get("discipline"),
	}

	leagues, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list leagues")
		return
	}
	if leagues == nil {
		leagues = []*league.League{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"leagues": leagues})
}

// Get handles GET /api/v1/leagues/{leagueID}.
func (h *leaguesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leagueID")
	l, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "league not found")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

// Create handles POST /api/v1/admin/leagues.
func (h *leaguesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in league.CreateLeagueInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	l, err := h.service.Create(r.Context(), in)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create league")
		return
	}

	auditLog(r, "league.created", "league", l.ID, "name", l.Name, "year", l.Year)
	writeJSON(w, http.StatusCreated, l)
}

// Update handles PUT /api/v1/admin/leagues/{leagueID}.
func (h *leaguesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leagueID")

	var in league.UpdateLeagueInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	l, err := h.service.Update(r.Context(), id, in)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusNotFound, "not_found", "league not found")
		return
	}

	auditLog(r, "league.updated", "league", l.ID)
	writeJSON(w, http.StatusOK, l)
}

// Delete handles DELETE /api/v1/admin/leagues/{leagueID}.
func (h *leaguesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "leagueID")
	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete league")
		return
	}
	auditLog(r, "league.deleted", "league", id)
	w.WriteHeader(http.StatusNoContent)
}

// ListTeams handles GET /api/v1/leagues/{leagueID}/teams.
func (h *leaguesHandler) ListTeams(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")
	teams, err := h.service.ListTeams(r.Context(), leagueID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list teams")
		return
	}
	if teams == nil {
		teams = []*league.Team{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"teams": teams})
}

// CreateTeam handles POST /api/v1/admin/leagues/{leagueID}/teams.
func (h *leaguesHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	leagueID := chi.URLParam(r, "leagueID")

	var in league.CreateTeamInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	in.LeagueID = leagueID

	t, err := h.service.CreateTeam(r.Context(), in)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create team")
		return
	}

	auditLog(r, "team.created", "team", t.ID, "league_id", leagueID)
	writeJSON(w, http.StatusCreated, t)
}

// DeleteTeam handles DELETE /api/v1/admin/teams/{teamID}.
func (h *leaguesHandler) DeleteTeam(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "teamID")
	if err := h.service.DeleteTeam(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete team")
		return
	}
	auditLog(r, "team.deleted", "team", id)
	w.WriteHeader(http.StatusNoContent)
}
