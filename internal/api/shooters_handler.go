package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/shooter"
)

// shootersHandler groups shooter-related HTTP handlers.
type shootersHandler struct {
	store *shooter.Store
	year  int
}

func newShootersHandler(store *shooter.Store, year int) *shootersHandler {
	return &shootersHandler{store: store, year: year}
}

// validBirthYear reports whether a birth year is a plausible four-digit year
// no later than the running season.
func validBirthYear(y, seasonYear int) bool {
	return y >= 1000 && y <= seasonYear
}

// ListByClub handles GET /api/v1/clubs/{clubID}/shooters. Guarded by the
// member-access capability for the club in the URL.
func (h *shootersHandler) ListByClub(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")
	shooters, err := h.store.ListByClub(r.Context(), clubID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list shooters")
		return
	}
	if shooters == nil {
		shooters = []*shooter.Shooter{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"shooters": shooters})
}

// Create handles POST /api/v1/clubs/{clubID}/shooters.
func (h *shootersHandler) Create(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")

	var in shooter.CreateShooterInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	in.ClubID = clubID
	if in.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}
	if in.BirthYear != nil && !validBirthYear(*in.BirthYear, h.year) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "birth_year must be a four-digit year no later than the season")
		return
	}

	sh, err := h.store.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create shooter")
		return
	}

	auditLog(r, "shooter.created", "shooter", sh.ID, "club_id", clubID)
	writeJSON(w, http.StatusCreated, sh)
}

// Get handles GET /api/v1/shooters/{shooterID}.
func (h *shootersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "shooterID")
	sh, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "shooter not found")
		return
	}
	writeJSON(w, http.StatusOK, sh)
}

// Update handles PUT /api/v1/admin/shooters/{shooterID}.
func (h *shootersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "shooterID")

	var in shooter.UpdateShooterInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if in.BirthYear != nil && !validBirthYear(*in.BirthYear, h.year) {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "birth_year must be a four-digit year no later than the season")
		return
	}

	sh, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "shooter not found")
		return
	}

	auditLog(r, "shooter.updated", "shooter", sh.ID)
	writeJSON(w, http.StatusOK, sh)
}
