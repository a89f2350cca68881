package standings

import (
	"reflect"
	"testing"

	"github.com/rwk-einbeck/rwk-server/internal/ageclass"
)

func TestCurrentRound(t *testing.T) {
	tests := []struct {
		name       string
		scores     []Score
		roundCount int
		want       int
	}{
		{"no scores", nil, 6, 0},
		{"mid season", []Score{{Round: 1}, {Round: 3}, {Round: 2}}, 6, 3},
		{"capped at round count", []Score{{Round: 9}}, 6, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentRound(tt.scores, tt.roundCount); got != tt.want {
				t.Errorf("CurrentRound() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAggregateTeam_EmptyScores(t *testing.T) {
	st := AggregateTeam("t1", nil, 3)

	if st.Average != nil {
		t.Errorf("expected nil average for empty scores, got %v", *st.Average)
	}
	if st.Total != 0 {
		t.Errorf("expected total 0, got %d", st.Total)
	}
	if !reflect.DeepEqual(st.MissingRounds, []int{1, 2, 3}) {
		t.Errorf("expected missing rounds [1 2 3], got %v", st.MissingRounds)
	}
}

func TestAggregateTeam_MissingRoundExcludedFromAverage(t *testing.T) {
	scores := []Score{
		{ShooterID: "s1", TeamID: "t1", Round: 1, Rings: 280},
		{ShooterID: "s1", TeamID: "t1", Round: 3, Rings: 290},
	}
	st := AggregateTeam("t1", scores, 3)

	if st.Average == nil {
		t.Fatal("expected non-nil average")
	}
	// Round 2 is absent: mean over the two present rounds, not over three.
	if *st.Average != 285 {
		t.Errorf("expected average 285, got %v", *st.Average)
	}
	if !reflect.DeepEqual(st.MissingRounds, []int{2}) {
		t.Errorf("expected missing rounds [2], got %v", st.MissingRounds)
	}
}

func TestAggregateTeam_RoundsBeyondFrontierNotMissing(t *testing.T) {
	scores := []Score{
		{ShooterID: "s1", TeamID: "t1", Round: 1, Rings: 275},
	}
	// Frontier is round 1: rounds 2..6 are not yet open.
	st := AggregateTeam("t1", scores, 1)

	if len(st.MissingRounds) != 0 {
		t.Errorf("expected no missing rounds, got %v", st.MissingRounds)
	}
}

func TestAggregateTeam_SumsShootersPerRound(t *testing.T) {
	scores := []Score{
		{ShooterID: "s1", TeamID: "t1", Round: 1, Rings: 280},
		{ShooterID: "s2", TeamID: "t1", Round: 1, Rings: 275},
		{ShooterID: "s3", TeamID: "t1", Round: 1, Rings: 290},
		{ShooterID: "x1", TeamID: "t2", Round: 1, Rings: 300}, // other team, ignored
	}
	st := AggregateTeam("t1", scores, 1)

	if st.RoundTotals[1] != 845 {
		t.Errorf("expected round 1 total 845, got %d", st.RoundTotals[1])
	}
	if st.Total != 845 {
		t.Errorf("expected total 845, got %d", st.Total)
	}
}

func avgOf(v float64) *float64 { return &v }

func TestRankTeams_TotalOrder(t *testing.T) {
	standings := []TeamStanding{
		{TeamID: "t-c", Average: avgOf(280), Total: 1680},
		{TeamID: "t-a", Average: avgOf(285), Total: 1710},
		{TeamID: "t-b", Average: avgOf(285), Total: 1710}, // full tie with t-a
		{TeamID: "t-d", Average: avgOf(285), Total: 1700}, // avg tie, lower total
		{TeamID: "t-e"},                                   // no scores yet
	}

	ranked := RankTeams(standings)

	wantOrder := []string{"t-a", "t-b", "t-d", "t-c", "t-e"}
	for i, want := range wantOrder {
		if ranked[i].TeamID != want {
			t.Errorf("position %d: expected %s, got %s", i+1, want, ranked[i].TeamID)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("position %d: expected rank %d, got %d", i+1, i+1, ranked[i].Rank)
		}
	}

	// Sorting twice yields the identical table.
	again := RankTeams(standings)
	if !reflect.DeepEqual(ranked, again) {
		t.Error("RankTeams is not idempotent")
	}
}

func TestRankTeams_DoesNotMutateInput(t *testing.T) {
	standings := []TeamStanding{
		{TeamID: "t-b", Average: avgOf(270)},
		{TeamID: "t-a", Average: avgOf(280)},
	}
	RankTeams(standings)
	if standings[0].TeamID != "t-b" {
		t.Error("RankTeams mutated its input slice")
	}
}

func TestTrendFor(t *testing.T) {
	tests := []struct {
		name      string
		scores    []int
		wantDir   Direction
		wantDelta float64
	}{
		{"rising", []int{270, 272, 280, 281}, Rising, 9.5},
		{"falling", []int{285, 284, 270, 271}, Falling, -14},
		{"stable within threshold", []int{280, 281, 281, 280}, Stable, 0},
		{"exactly at threshold is stable", []int{280, 280, 281, 282}, Stable, 1.5},
		{"single data point", []int{280}, Stable, 0},
		{"no data points", nil, Stable, 0},
		{"odd count smaller half first", []int{270, 280, 280, 280, 280}, Rising, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, delta := TrendFor(tt.scores, DefaultTrendThreshold)
			if dir != tt.wantDir {
				t.Errorf("TrendFor() direction = %s, want %s", dir, tt.wantDir)
			}
			if delta != tt.wantDelta {
				t.Errorf("TrendFor() delta = %v, want %v", delta, tt.wantDelta)
			}
		})
	}
}

func TestAggregateShooter(t *testing.T) {
	scores := []Score{
		{ShooterID: "s1", TeamID: "t1", Round: 2, Rings: 282},
		{ShooterID: "s1", TeamID: "t1", Round: 1, Rings: 278},
		{ShooterID: "s2", TeamID: "t1", Round: 1, Rings: 300}, // other shooter, ignored
	}
	st := AggregateShooter("s1", scores, 1965, ageclass.Male, ageclass.DefaultTable(2026), DefaultTrendThreshold)

	if st.Total != 560 {
		t.Errorf("expected total 560, got %d", st.Total)
	}
	if st.Average == nil || *st.Average != 280 {
		t.Errorf("expected average 280, got %v", st.Average)
	}
	if st.AgeClass != "Senioren II m" {
		t.Errorf("expected age class Senioren II m, got %q", st.AgeClass)
	}
	if st.Trend != Rising {
		t.Errorf("expected rising trend, got %s", st.Trend)
	}
}

func TestAggregateShooter_UnclassifiableStaysUnclassified(t *testing.T) {
	st := AggregateShooter("s1", nil, 0, ageclass.Unknown, ageclass.DefaultTable(2026), DefaultTrendThreshold)
	if st.AgeClass != "" {
		t.Errorf("expected empty age class, got %q", st.AgeClass)
	}
	if st.Average != nil {
		t.Error("expected nil average with no scores")
	}
}
