package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rwk-einbeck/rwk-server/internal/audit"
)

// auditHandler exposes the durable audit trail to super admins.
type auditHandler struct {
	store *audit.Store
}

func newAuditHandler(store *audit.Store) *auditHandler {
	return &auditHandler{store: store}
}

// List handles GET /api/v1/admin/audit. Filters come from query parameters;
// pagination is cursor-based.
func (h *auditHandler) List(w http.ResponseWriter, r *http.Request) {
	q := audit.ListQuery{
		UserID:     r.URL.Query().Get("user_id"),
		EntityType: r.URL.Query().Get("entity_type"),
		EntityID:   r.URL.Query().Get("entity_id"),
		Cursor:     r.URL.Query().Get("cursor"),
	}
	if limit, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		q.Limit = limit
	}
	if from, err := time.Parse(time.RFC3339, r.URL.Query().Get("from")); err == nil {
		q.From = from
	}
	if to, err := time.Parse(time.RFC3339, r.URL.Query().Get("to")); err == nil {
		q.To = to
	}

	entries, nextCursor, err := h.store.List(r.Context(), q)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_query", "failed to list audit entries")
		return
	}
	if entries == nil {
		entries = []*audit.Entry{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries":     entries,
		"next_cursor": nextCursor,
	})
}
