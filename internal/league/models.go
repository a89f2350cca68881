package league

import "time"

// League is one competition class of a season, e.g. "Kreisliga Luftgewehr".
// RoundCount is the number of rounds scheduled for the season; standings use
// it to tell a missing result from a round that has not happened yet.
type League struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Discipline string    `json:"discipline"`
	Year       int       `json:"year"`
	RoundCount int       `json:"round_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Team is a club's entry in a league. A club may field several teams in the
// same league ("SV Lauenberg I", "SV Lauenberg II").
type Team struct {
	ID        string    `json:"id"`
	LeagueID  string    `json:"league_id"`
	ClubID    string    `json:"club_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateLeagueInput holds the fields required to create a league.
type CreateLeagueInput struct {
	Name       string `json:"name"`
	Discipline string `json:"discipline"`
	Year       int    `json:"year"`
	RoundCount int    `json:"round_count"`
}

// UpdateLeagueInput holds optional fields for a partial league update.
type UpdateLeagueInput struct {
	Name       *string `json:"name,omitempty"`
	RoundCount *int    `json:"round_count,omitempty"`
}

// CreateTeamInput holds the fields required to register a team in a league.
type CreateTeamInput struct {
	LeagueID string `json:"league_id"`
	ClubID   string `json:"club_id"`
	Name     string `json:"name"`
}

// LeagueListParams controls filtering when listing leagues.
type LeagueListParams struct {
	Year       int
	Discipline string
}
