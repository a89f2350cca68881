package score

import "time"

// Score is one shooter's result for one round of a season. The store enforces
// at most one record per (shooter, team, year, round); a violation of that
// rule in legacy data is exactly what the repair package hunts down.
type Score struct {
	ID         string    `json:"id"`
	ShooterID  string    `json:"shooter_id"`
	TeamID     string    `json:"team_id"`
	Year       int       `json:"year"`
	Round      int       `json:"round"`
	Rings      int       `json:"rings"`
	Discipline string    `json:"discipline"`
	CreatedAt  time.Time `json:"created_at"`
}

// EnterScoreInput holds the fields for entering or correcting a result.
type EnterScoreInput struct {
	ShooterID  string `json:"shooter_id"`
	TeamID     string `json:"team_id"`
	Year       int    `json:"year"`
	Round      int    `json:"round"`
	Rings      int    `json:"rings"`
	Discipline string `json:"discipline"`
}
