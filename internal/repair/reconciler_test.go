package repair

import (
	"reflect"
	"testing"
)

func record(id, shooterID, name, team string, round int) Record {
	return Record{
		ID:          id,
		ShooterID:   shooterID,
		ShooterName: name,
		TeamID:      "t1",
		TeamName:    team,
		Round:       round,
		Year:        2026,
		Discipline:  "LG",
	}
}

func TestFindDuplicateGroups(t *testing.T) {
	records := []Record{
		record("r1", "A", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r2", "B", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r3", "C", "Heinz Meyer", "SV Lauenberg I", 1),
	}

	groups := FindDuplicateGroups(records)

	if len(groups) != 1 {
		t.Fatalf("expected exactly one duplicate group, got %d", len(groups))
	}
	g := groups[0]
	if len(g.Records) != 2 {
		t.Errorf("expected group of size 2, got %d", len(g.Records))
	}
	if !reflect.DeepEqual(g.ShooterIDs, []string{"A", "B"}) {
		t.Errorf("expected shooter ids [A B], got %v", g.ShooterIDs)
	}
}

func TestFindDuplicateGroups_NoDuplicates(t *testing.T) {
	records := []Record{
		record("r1", "A", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r2", "A", "Jürgen Wauker", "SV Lauenberg I", 2),
		record("r3", "B", "Heinz Meyer", "SV Lauenberg I", 1),
	}

	if groups := FindDuplicateGroups(records); len(groups) != 0 {
		t.Errorf("expected zero groups for clean data, got %d", len(groups))
	}
}

func TestFindDuplicateGroups_DifferentRoundsAreNotDuplicates(t *testing.T) {
	// Same person, different rounds: two legitimate results.
	records := []Record{
		record("r1", "A", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r2", "B", "Jürgen Wauker", "SV Lauenberg I", 2),
	}

	if groups := FindDuplicateGroups(records); len(groups) != 0 {
		t.Errorf("expected zero groups across rounds, got %d", len(groups))
	}
}

func TestCanonicalID_MostSeasonRecordsWins(t *testing.T) {
	season := []Record{
		record("r1", "A", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r2", "B", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r3", "A", "Jürgen Wauker", "SV Lauenberg I", 2),
		record("r4", "A", "Jürgen Wauker", "SV Lauenberg I", 3),
	}
	groups := FindDuplicateGroups(season)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}

	if got := CanonicalID(groups[0], season); got != "A" {
		t.Errorf("expected canonical id A (3 season records vs 1), got %s", got)
	}
}

func TestCanonicalID_TieBreaksOnSmallestID(t *testing.T) {
	season := []Record{
		record("r1", "B", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r2", "A", "Jürgen Wauker", "SV Lauenberg I", 1),
	}
	groups := FindDuplicateGroups(season)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}

	if got := CanonicalID(groups[0], season); got != "A" {
		t.Errorf("expected tie to resolve to A, got %s", got)
	}
}

func TestPlanMerge(t *testing.T) {
	season := []Record{
		record("r1", "A", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r2", "B", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r3", "A", "Jürgen Wauker", "SV Lauenberg I", 2),
		record("r4", "A", "Jürgen Wauker", "SV Lauenberg I", 3),
	}
	groups := FindDuplicateGroups(season)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}

	canonical := CanonicalID(groups[0], season)
	plan := PlanMerge(groups[0], canonical, season)

	if plan.ID == "" {
		t.Error("expected plan to carry an id")
	}
	if plan.CanonicalID != "A" {
		t.Errorf("expected canonical id A, got %s", plan.CanonicalID)
	}
	want := []Rewrite{{RecordID: "r2", FromShooter: "B", ToShooter: "A"}}
	if !reflect.DeepEqual(plan.Rewrites, want) {
		t.Errorf("expected rewrites %v, got %v", want, plan.Rewrites)
	}
	if !reflect.DeepEqual(plan.OrphanedIDs, []string{"B"}) {
		t.Errorf("expected orphaned ids [B], got %v", plan.OrphanedIDs)
	}
}

func TestPlanMerge_AllIdenticalIDsYieldsEmptyPlan(t *testing.T) {
	g := Group{
		Key:        Key{ShooterName: "Heinz Meyer", TeamName: "SGi Einbeck", Round: 1, Year: 2026, Discipline: "LG"},
		Records:    []Record{record("r1", "A", "Heinz Meyer", "SGi Einbeck", 1)},
		ShooterIDs: []string{"A"},
	}

	plan := PlanMerge(g, "A", g.Records)

	if len(plan.Rewrites) != 0 {
		t.Errorf("expected no rewrites, got %v", plan.Rewrites)
	}
	if len(plan.OrphanedIDs) != 0 {
		t.Errorf("expected no orphans, got %v", plan.OrphanedIDs)
	}
}

func TestPlanMerge_KeepsIDWithResultsOutsideGroup(t *testing.T) {
	// B duplicates A in round 1 but also owns a legitimate round-2 result.
	// Deleting B's shooter row would cascade that result away, so B must not
	// be listed as orphaned.
	season := []Record{
		record("r1", "A", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r2", "B", "Jürgen Wauker", "SV Lauenberg I", 1),
		record("r3", "A", "Jürgen Wauker", "SV Lauenberg I", 3),
		record("r5", "B", "Jürgen Wauker", "SV Lauenberg I", 2),
	}
	groups := FindDuplicateGroups(season)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}

	plan := PlanMerge(groups[0], "A", season)

	want := []Rewrite{{RecordID: "r2", FromShooter: "B", ToShooter: "A"}}
	if !reflect.DeepEqual(plan.Rewrites, want) {
		t.Errorf("expected rewrites %v, got %v", want, plan.Rewrites)
	}
	if len(plan.OrphanedIDs) != 0 {
		t.Errorf("expected no orphans while B still owns a record, got %v", plan.OrphanedIDs)
	}
}
