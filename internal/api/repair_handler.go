package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rwk-einbeck/rwk-server/internal/audit"
	"github.com/rwk-einbeck/rwk-server/internal/metrics"
	"github.com/rwk-einbeck/rwk-server/internal/repair"
	"github.com/rwk-einbeck/rwk-server/internal/score"
	"github.com/rwk-einbeck/rwk-server/internal/shooter"
)

// repairHandler exposes the duplicate-identity reconciliation as super-admin
// endpoints. GET computes plans without touching anything; POST executes them.
type repairHandler struct {
	scores    *score.Store
	shooters  *shooter.Store
	collector *audit.Collector
	metrics   *metrics.Metrics
	year      int
}

func newRepairHandler(scores *score.Store, shooters *shooter.Store, collector *audit.Collector, m *metrics.Metrics, year int) *repairHandler {
	return &repairHandler{scores: scores, shooters: shooters, collector: collector, metrics: m, year: year}
}

// plannedMerge pairs a duplicate group with its computed plan for the
// response body.
type plannedMerge struct {
	Group   repair.Group `json:"group"`
	Plan    repair.Plan  `json:"plan"`
	Summary string       `json:"summary"`
}

// plans loads a consistent season snapshot and computes one merge plan per
// duplicate group.
func (h *repairHandler) plans(r *http.Request) (int, []plannedMerge, error) {
	year := h.year
	if y, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && y > 0 {
		year = y
	}

	season, err := h.scores.SeasonSnapshot(r.Context(), year)
	if err != nil {
		return year, nil, err
	}

	groups := repair.FindDuplicateGroups(season)
	merges := make([]plannedMerge, 0, len(groups))
	for _, g := range groups {
		plan := repair.PlanMerge(g, repair.CanonicalID(g, season), season)
		merges = append(merges, plannedMerge{Group: g, Plan: plan, Summary: repair.Describe(plan)})
	}
	return year, merges, nil
}

// DryRun handles GET /api/v1/admin/repair/duplicates.
func (h *repairHandler) DryRun(w http.ResponseWriter, r *http.Request) {
	year, merges, err := h.plans(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load season snapshot")
		return
	}

	if h.metrics != nil {
		h.metrics.IncRepairPlan("dry_run")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":   year,
		"merges": merges,
	})
}

// Apply handles POST /api/v1/admin/repair/duplicates. Plans are recomputed from
// a fresh snapshot rather than accepted from the request body, so a stale
// reviewed plan can never rewrite rows that changed since the review.
func (h *repairHandler) Apply(w http.ResponseWriter, r *http.Request) {
	year, merges, err := h.plans(r)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", "failed to load season snapshot")
		return
	}

	var rewritten int64
	var orphansRemoved int64
	for _, m := range merges {
		n, err := h.scores.ApplyMergePlan(r.Context(), m.Plan)
		if err != nil {
			slog.Error("applying merge plan", "plan_id", m.Plan.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to apply merge plan")
			return
		}
		rewritten += n

		removed, err := h.shooters.DeleteOrphaned(r.Context(), m.Plan.OrphanedIDs)
		if err != nil {
			slog.Error("removing orphaned shooters", "plan_id", m.Plan.ID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal_error", "failed to remove orphaned shooters")
			return
		}
		orphansRemoved += removed

		h.record(r, m.Plan)
		auditLog(r, audit.ActionMergeApplied, "merge_plan", m.Plan.ID,
			"canonical_id", m.Plan.CanonicalID, "rewrites", len(m.Plan.Rewrites))
	}

	if h.metrics != nil {
		h.metrics.IncRepairPlan("applied")
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":              year,
		"plans_applied":     len(merges),
		"records_rewritten": rewritten,
		"orphans_removed":   orphansRemoved,
	})
}

func (h *repairHandler) record(r *http.Request, p repair.Plan) {
	if h.collector == nil {
		return
	}
	h.collector.Record(audit.Entry{
		UserID:     userID(r),
		Action:     audit.ActionMergeApplied,
		EntityType: "merge_plan",
		EntityID:   p.ID,
		Detail: map[string]string{
			"canonical_id": p.CanonicalID,
			"rewrites":     strconv.Itoa(len(p.Rewrites)),
			"orphans":      strconv.Itoa(len(p.OrphanedIDs)),
		},
	})
}
