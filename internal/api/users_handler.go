package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/user"
)

// usersHandler groups the super-admin account management endpoints.
type usersHandler struct {
	store *user.Store
}

func newUsersHandler(store *user.Store) *usersHandler {
	return &usersHandler{store: store}
}

// List handles GET /api/v1/admin/users.
func (h *usersHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list users")
		return
	}
	if users == nil {
		users = []*user.User{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

// Create handles POST /api/v1/admin/users.
func (h *usersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in user.CreateUserInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "a valid email is required")
		return
	}
	if len(in.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "password must be at least 8 characters")
		return
	}

	u, err := h.store.Create(r.Context(), in)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to create user")
		return
	}

	auditLog(r, "user.created", "user", u.ID, "email", u.Email)
	writeJSON(w, http.StatusCreated, u)
}

// Get handles GET /api/v1/admin/users/{userID}.
func (h *usersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	u, err := h.store.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// Update handles PUT /api/v1/admin/users/{userID}.
func (h *usersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")

	var in user.UpdateUserInput
	if err := readJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}
	if in.Password != nil && len(*in.Password) < 8 {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "password must be at least 8 characters")
		return
	}

	u, err := h.store.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "user not found")
		return
	}

	auditLog(r, "user.updated", "user", u.ID)
	writeJSON(w, http.StatusOK, u)
}

// Delete handles DELETE /api/v1/admin/users/{userID}.
func (h *usersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if err := h.store.Delete(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to delete user")
		return
	}
	auditLog(r, "user.deleted", "user", id)
	w.WriteHeader(http.StatusNoContent)
}
