package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rwk-einbeck/rwk-server/internal/audit"
	"github.com/rwk-einbeck/rwk-server/internal/rbac"
)

// permissionsHandler groups the super-admin role assignment endpoints.
type permissionsHandler struct {
	store     *rbac.Store
	collector *audit.Collector
}

func newPermissionsHandler(store *rbac.Store, collector *audit.Collector) *permissionsHandler {
	return &permissionsHandler{store: store, collector: collector}
}

// List handles GET /api/v1/admin/permissions.
func (h *permissionsHandler) List(w http.ResponseWriter, r *http.Request) {
	assignments, err := h.store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to list assignments")
		return
	}
	if assignments == nil {
		assignments = []*rbac.Assignment{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"assignments": assignments})
}

// Get handles GET /api/v1/admin/permissions/{userID}.
func (h *permissionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	a, err := h.store.GetByUserID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "assignment not found")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// upsertAssignmentRequest is the writable subset of an assignment; the user id
// comes from the URL.
type upsertAssignmentRequest struct {
	IsSuperAdmin  bool                         `json:"is_super_admin"`
	IsActive      bool                         `json:"is_active"`
	ClubRoles     map[string]rbac.ClubRole     `json:"club_roles"`
	DistrictRoles map[string]rbac.DistrictRole `json:"district_roles"`
}

// Upsert handles PUT /api/v1/admin/permissions/{userID}. Incoming role entries
// merge into the stored assignment; entries for new scope ids are added and
// entries for existing scope ids are replaced.
func (h *permissionsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	var req upsertAssignmentRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "failed to parse request body")
		return
	}

	for clubID, role := range req.ClubRoles {
		if clubID == "" || !rbac.ValidClubRole(role) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown club role "+string(role))
			return
		}
	}
	for districtID, role := range req.DistrictRoles {
		if districtID == "" || !rbac.ValidDistrictRole(role) {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "unknown district role "+string(role))
			return
		}
	}

	a, err := h.store.Upsert(r.Context(), rbac.Assignment{
		UserID:        userID,
		IsSuperAdmin:  req.IsSuperAdmin,
		IsActive:      req.IsActive,
		ClubRoles:     req.ClubRoles,
		DistrictRoles: req.DistrictRoles,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to store assignment")
		return
	}

	h.record(r, userID, map[string]string{"change": "upsert"})
	auditLog(r, audit.ActionPermissionChanged, "assignment", userID, "change", "upsert")
	writeJSON(w, http.StatusOK, a)
}

// RemoveClubRole handles DELETE /api/v1/admin/permissions/{userID}/clubs/{clubID}.
func (h *permissionsHandler) RemoveClubRole(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	clubID := chi.URLParam(r, "clubID")

	a, err := h.store.RemoveClubRole(r.Context(), userID, clubID)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "assignment not found")
		return
	}

	h.record(r, userID, map[string]string{"change": "remove_club_role", "club_id": clubID})
	auditLog(r, audit.ActionPermissionChanged, "assignment", userID, "change", "remove_club_role", "club_id", clubID)
	writeJSON(w, http.StatusOK, a)
}

// Deactivate handles DELETE /api/v1/admin/permissions/{userID}. Assignments are
// deactivated, never deleted, so past audit entries keep a referent.
func (h *permissionsHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	if err := h.store.Deactivate(r.Context(), userID); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to deactivate assignment")
		return
	}

	h.record(r, userID, map[string]string{"change": "deactivate"})
	auditLog(r, audit.ActionPermissionChanged, "assignment", userID, "change", "deactivate")
	w.WriteHeader(http.StatusNoContent)
}

func (h *permissionsHandler) record(r *http.Request, subjectID string, detail map[string]string) {
	if h.collector == nil {
		return
	}
	h.collector.Record(audit.Entry{
		UserID:     userID(r),
		Action:     audit.ActionPermissionChanged,
		EntityType: "assignment",
		EntityID:   subjectID,
		Detail:     detail,
	})
}
