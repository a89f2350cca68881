package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/club"
)

// clubsHandler groups club-related HTTP handlers.
type clubsHandler struct {
	store *club.Store
}

func newClubsHandler(store *club.Store) *clubsHandler {
	return &clubsHandler{store: store}
}

// ListClubs handles GET /api/v1/clubs.
func (h *clubsHandler) ListClubs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	params := club.ClubListParams{
		Limit:  limit,
		Cursor: r.URL.Query().Get("cursor"),
	}

	clubs, nextCursor, err := h.store.List(r.Context(), params)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list clubs")
		return
	}
	if clubs == nil {
		clubs = []*club.Club{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clubs":       clubs,
		"next_cursor": nextCursor,
	})
}

// GetClub handles GET /api/v1/clubs/{clubID}.
func (h *clubsHandler) GetClub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clubID")
	c, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "club not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CreateClub handles POST /api/v1/admin/clubs.
func (h *clubsHandler) CreateClub(w http.ResponseWriter, r *http.Request) {
	var in club.CreateClubInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if in.Name == "" {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "name is required")
		return
	}

	c, err := h.store.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create club")
		return
	}

	auditLog(r, "club.created", "club", c.ID, "name", c.Name)
	writeJSON(w, http.StatusCreated, c)
}

// UpdateClub handles PUT /api/v1/admin/clubs/{clubID}.
func (h *clubsHandler) UpdateClub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clubID")

	var in club.UpdateClubInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	c, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "club not found")
		return
	}

	auditLog(r, "club.updated", "club", c.ID)
	writeJSON(w, http.StatusOK, c)
}

// DeleteClub handles DELETE /api/v1/admin/clubs/{clubID}.
func (h *clubsHandler) DeleteClub(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clubID")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete club")
		return
	}
	auditLog(r, "club.deleted", "club", id)
	w.WriteHeader(http.StatusNoContent)
}
