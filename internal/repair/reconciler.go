// Package repair reconciles duplicate shooter identities left behind by old
// data imports. It is a migration-era utility: everything here computes plans
// over an in-memory snapshot and never writes anything itself, so a plan can
// be reviewed, logged, and audited before a store applies it.
package repair

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// Record is a score row as read from the store, carrying the denormalized
// names the duplicate heuristic keys on.
type Record struct {
	ID          string `json:"id"`
	ShooterID   string `json:"shooter_id"`
	ShooterName string `json:"shooter_name"`
	TeamID      string `json:"team_id"`
	TeamName    string `json:"team_name"`
	Round       int    `json:"round"`
	Year        int    `json:"year"`
	Discipline  string `json:"discipline"`
}

// Key identifies what should be a single shooter's single result. Two records
// sharing a key but holding different shooter ids are a duplicate defect.
type Key struct {
	ShooterName string `json:"shooter_name"`
	TeamName    string `json:"team_name"`
	Round       int    `json:"round"`
	Year        int    `json:"year"`
	Discipline  string `json:"discipline"`
}

// Group is a set of records sharing one key with more than one distinct
// shooter id.
type Group struct {
	Key        Key      `json:"key"`
	Records    []Record `json:"records"`
	ShooterIDs []string `json:"shooter_ids"`
}

// Rewrite is one record whose shooter id must change.
type Rewrite struct {
	RecordID    string `json:"record_id"`
	FromShooter string `json:"from_shooter"`
	ToShooter   string `json:"to_shooter"`
}

// Plan is the side-effect-free description of a merge. Applying it is the
// score store's job; the plan id lets the audit trail reference a reviewed
// plan before and after it is executed.
type Plan struct {
	ID          string    `json:"id"`
	CanonicalID string    `json:"canonical_id"`
	Rewrites    []Rewrite `json:"rewrites"`
	OrphanedIDs []string  `json:"orphaned_ids"`
}

// FindDuplicateGroups groups records by (shooter name, team name, round, year,
// discipline) and returns every group containing more than one distinct
// shooter id, ordered deterministically by key. The input must be a single
// consistent snapshot of the season's records.
func FindDuplicateGroups(records []Record) []Group {
	byKey := map[Key][]Record{}
	for _, r := range records {
		k := Key{
			ShooterName: r.ShooterName,
			TeamName:    r.TeamName,
			Round:       r.Round,
			Year:        r.Year,
			Discipline:  r.Discipline,
		}
		byKey[k] = append(byKey[k], r)
	}

	var groups []Group
	for k, recs := range byKey {
		ids := distinctShooterIDs(recs)
		if len(ids) < 2 {
			continue
		}
		sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
		groups = append(groups, Group{Key: k, Records: recs, ShooterIDs: ids})
	}

	sort.Slice(groups, func(i, j int) bool { return keyLess(groups[i].Key, groups[j].Key) })
	return groups
}

// CanonicalID picks the shooter id to keep for a group: the id with the most
// records across the whole season snapshot, ties broken by the
// lexicographically smallest id.
func CanonicalID(group Group, season []Record) string {
	counts := map[string]int{}
	for _, r := range season {
		counts[r.ShooterID]++
	}

	best := ""
	bestCount := -1
	for _, id := range group.ShooterIDs {
		c := counts[id]
		if c > bestCount || (c == bestCount && id < best) {
			best = id
			bestCount = c
		}
	}
	return best
}

// PlanMerge computes the rewrites needed to collapse a group onto canonicalID
// and the shooter ids left orphaned afterwards. An id is orphaned only when
// every one of its season records is rewritten by this plan; an id that still
// owns results outside the group keeps its shooter row, since score rows
// cascade on shooter deletion. A group whose records already all carry
// canonicalID yields an empty plan.
func PlanMerge(group Group, canonicalID string, season []Record) Plan {
	plan := Plan{
		ID:          uuid.NewString(),
		CanonicalID: canonicalID,
		Rewrites:    []Rewrite{},
		OrphanedIDs: []string{},
	}

	rewritten := map[string]bool{}
	for _, r := range group.Records {
		if r.ShooterID == canonicalID {
			continue
		}
		plan.Rewrites = append(plan.Rewrites, Rewrite{
			RecordID:    r.ID,
			FromShooter: r.ShooterID,
			ToShooter:   canonicalID,
		})
		rewritten[r.ID] = true
	}

	remaining := map[string]int{}
	for _, r := range season {
		if !rewritten[r.ID] {
			remaining[r.ShooterID]++
		}
	}
	for _, id := range group.ShooterIDs {
		if id != canonicalID && remaining[id] == 0 {
			plan.OrphanedIDs = append(plan.OrphanedIDs, id)
		}
	}
	sort.Strings(plan.OrphanedIDs)

	return plan
}

func distinctShooterIDs(recs []Record) []string {
	set := map[string]bool{}
	for _, r := range recs {
		set[r.ShooterID] = true
	}
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func keyLess(a, b Key) bool {
	if a.ShooterName != b.ShooterName {
		return a.ShooterName < b.ShooterName
	}
	if a.TeamName != b.TeamName {
		return a.TeamName < b.TeamName
	}
	if a.Year != b.Year {
		return a.Year < b.Year
	}
	if a.Round != b.Round {
		return a.Round < b.Round
	}
	return a.Discipline < b.Discipline
}

// Describe renders a short human-readable summary of a plan for CLI output
// and audit entries.
func Describe(p Plan) string {
	return fmt.Sprintf("plan %s: keep %s, rewrite %d record(s), orphan %d shooter id(s)",
		p.ID, p.CanonicalID, len(p.Rewrites), len(p.OrphanedIDs))
}
