// Package standings computes league tables from raw per-round scores. All
// functions are pure and operate on already-fetched records; callers own the
// queries and must pass a consistent snapshot.
package standings

import (
	"sort"

	"github.com/rwk-einbeck/rwk-server/internal/ageclass"
)

// Score is one shooter's ring total for one round.
type Score struct {
	ShooterID string
	TeamID    string
	Round     int
	Rings     int
}

// TeamStanding is the derived table row for one team. It is recomputed on
// demand and never persisted.
type TeamStanding struct {
	TeamID        string      `json:"team_id"`
	RoundTotals   map[int]int `json:"round_totals"`
	Total         int         `json:"total"`
	Average       *float64    `json:"average"`
	Rank          int         `json:"rank"`
	MissingRounds []int       `json:"missing_rounds"`
}

// ShooterStanding is the derived individual table row for one shooter.
type ShooterStanding struct {
	ShooterID  string      `json:"shooter_id"`
	AgeClass   string      `json:"age_class,omitempty"`
	Rounds     map[int]int `json:"rounds"`
	Total      int         `json:"total"`
	Average    *float64    `json:"average"`
	Trend      Direction   `json:"trend"`
	TrendDelta float64     `json:"trend_delta"`
}

// CurrentRound returns the competition frontier: the highest round number for
// which any score exists in the given set, capped at roundCount. Rounds beyond
// the frontier are "not yet open", not "missing". Whether the set spans the
// whole league or only one group is the caller's policy choice.
func CurrentRound(scores []Score, roundCount int) int {
	current := 0
	for _, s := range scores {
		if s.Round > current {
			current = s.Round
		}
	}
	if current > roundCount {
		current = roundCount
	}
	return current
}

// AggregateTeam computes the standing for one team from its score records.
// The per-round total is the sum of all ring totals recorded in that round.
// The average is taken over present rounds only; absent rounds are excluded
// from the denominator rather than counted as zero. With no scores at all the
// average is nil and every round up to currentRound is reported missing.
func AggregateTeam(teamID string, scores []Score, currentRound int) TeamStanding {
	st := TeamStanding{
		TeamID:      teamID,
		RoundTotals: map[int]int{},
	}

	for _, s := range scores {
		if s.TeamID != teamID || s.Round < 1 {
			continue
		}
		st.RoundTotals[s.Round] += s.Rings
		st.Total += s.Rings
	}

	if len(st.RoundTotals) > 0 {
		avg := float64(st.Total) / float64(len(st.RoundTotals))
		st.Average = &avg
	}

	for round := 1; round <= currentRound; round++ {
		if _, ok := st.RoundTotals[round]; !ok {
			st.MissingRounds = append(st.MissingRounds, round)
		}
	}
	if st.MissingRounds == nil {
		st.MissingRounds = []int{}
	}

	return st
}

// RankTeams sorts standings into the league table order: average descending,
// ties broken by total rings descending, then team id ascending. The order is
// total, so repeated rankings of the same input are identical. Teams without
// any scores sort last. Rank fields are filled in on the returned copy.
func RankTeams(standings []TeamStanding) []TeamStanding {
	ranked := make([]TeamStanding, len(standings))
	copy(ranked, standings)

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.Average == nil && b.Average == nil:
			return a.TeamID < b.TeamID
		case a.Average == nil:
			return false
		case b.Average == nil:
			return true
		case *a.Average != *b.Average:
			return *a.Average > *b.Average
		case a.Total != b.Total:
			return a.Total > b.Total
		default:
			return a.TeamID < b.TeamID
		}
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}

// Direction is the outcome of a trend analysis.
type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Stable  Direction = "stable"
)

// DefaultTrendThreshold is the ring difference between half-season means
// below which a shooter's development counts as stable.
const DefaultTrendThreshold = 1.5

// TrendFor compares the mean of the second half of the ordered round scores
// against the first half (the smaller half first when the count is odd) and
// returns the direction together with the mean difference. Fewer than two
// data points yield a stable trend with delta 0; that is a declared edge
// case, not an error.
func TrendFor(orderedScores []int, threshold float64) (Direction, float64) {
	if len(orderedScores) < 2 {
		return Stable, 0
	}

	mid := len(orderedScores) / 2
	first := orderedScores[:mid]
	second := orderedScores[mid:]

	delta := mean(second) - mean(first)
	switch {
	case delta > threshold:
		return Rising, delta
	case delta < -threshold:
		return Falling, delta
	default:
		return Stable, delta
	}
}

func mean(scores []int) float64 {
	sum := 0
	for _, s := range scores {
		sum += s
	}
	return float64(sum) / float64(len(scores))
}

// AggregateShooter computes the individual standing for one shooter. The age
// class is derived from the season table when birth year and sex allow it;
// otherwise the shooter stays unclassified. A non-positive trendThreshold
// falls back to DefaultTrendThreshold.
func AggregateShooter(shooterID string, scores []Score, birthYear int, sex ageclass.Sex, table ageclass.Table, trendThreshold float64) ShooterStanding {
	st := ShooterStanding{
		ShooterID: shooterID,
		Rounds:    map[int]int{},
	}

	for _, s := range scores {
		if s.ShooterID != shooterID || s.Round < 1 {
			continue
		}
		st.Rounds[s.Round] = s.Rings
		st.Total += s.Rings
	}

	if len(st.Rounds) > 0 {
		avg := float64(st.Total) / float64(len(st.Rounds))
		st.Average = &avg
	}

	if c := table.Classify(birthYear, sex); c != nil {
		st.AgeClass = c.Label
	}

	rounds := make([]int, 0, len(st.Rounds))
	for round := range st.Rounds {
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)
	ordered := make([]int, len(rounds))
	for i, round := range rounds {
		ordered[i] = st.Rounds[round]
	}
	if trendThreshold <= 0 {
		trendThreshold = DefaultTrendThreshold
	}
	st.Trend, st.TrendDelta = TrendFor(ordered, trendThreshold)

	return st
}
