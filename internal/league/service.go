package league

import (
	"context"
	"errors"
	"strings"
)

// Validation errors returned by the Service layer.
var (
	ErrNameRequired      = errors.New("name is required")
	ErrDisciplineInvalid = errors.New("discipline must be one of: LG, LP, KK")
	ErrYearInvalid       = errors.New("year must be a four-digit season year")
	ErrRoundCountInvalid = errors.New("round_count must be between 1 and 10")
	ErrLeagueRequired    = errors.New("league_id is required")
	ErrClubRequired      = errors.New("club_id is required")
	ErrTeamNameRequired  = errors.New("team name is required")
)

// validDisciplines is the set of accepted discipline codes. LG is air rifle,
// LP air pistol, KK smallbore.
var validDisciplines = map[string]bool{
	"LG": true,
	"LP": true,
	"KK": true,
}

// Service provides validated business logic over the league Store.
type Service struct {
	store *Store
}

// NewService creates a new Service wrapping the given Store.
func NewService(store *Store) *Service {
	return &Service{store: store}
}

// Create validates the input and creates the league.
func (s *Service) Create(ctx context.Context, input CreateLeagueInput) (*League, error) {
	if input.RoundCount == 0 {
		input.RoundCount = 4
	}
	if err := validateCreate(input); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, input)
}

// GetByID retrieves a league by its ID.
func (s *Service) GetByID(ctx context.Context, id string) (*League, error) {
	return s.store.GetByID(ctx, id)
}

// List returns leagues matching the given filters.
func (s *Service) List(ctx context.Context, params LeagueListParams) ([]*League, error) {
	return s.store.List(ctx, params)
}

// Update validates the input and applies the update.
func (s *Service) Update(ctx context.Context, id string, input UpdateLeagueInput) (*League, error) {
	if err := validateUpdate(input); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, input)
}

// Delete removes a league by its ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// CreateTeam validates the input and registers the team.
func (s *Service) CreateTeam(ctx context.Context, input CreateTeamInput) (*Team, error) {
	if err := validateCreateTeam(input); err != nil {
		return nil, err
	}
	return s.store.CreateTeam(ctx, input)
}

// GetTeamByID retrieves a team by its ID.
func (s *Service) GetTeamByID(ctx context.Context, id string) (*Team, error) {
	return s.store.GetTeamByID(ctx, id)
}

// ListTeams returns all teams of a league.
func (s *Service) ListTeams(ctx context.Context, leagueID string) ([]*Team, error) {
	return s.store.ListTeams(ctx, leagueID)
}

// DeleteTeam removes a team by its ID.
func (s *Service) DeleteTeam(ctx context.Context, id string) error {
	return s.store.DeleteTeam(ctx, id)
}

// validateCreate checks that all required fields are present and valid.
func validateCreate(input CreateLeagueInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if !validDisciplines[input.Discipline] {
		return ErrDisciplineInvalid
	}
	if input.Year < 1000 || input.Year > 9999 {
		return ErrYearInvalid
	}
	if input.RoundCount < 1 || input.RoundCount > 10 {
		return ErrRoundCountInvalid
	}
	return nil
}

// validateUpdate checks that any provided fields are valid.
func validateUpdate(input UpdateLeagueInput) error {
	if input.Name != nil && strings.TrimSpace(*input.Name) == "" {
		return ErrNameRequired
	}
	if input.RoundCount != nil && (*input.RoundCount < 1 || *input.RoundCount > 10) {
		return ErrRoundCountInvalid
	}
	return nil
}

// validateCreateTeam checks that a team registration is complete.
func validateCreateTeam(input CreateTeamInput) error {
	if strings.TrimSpace(input.LeagueID) == "" {
		return ErrLeagueRequired
	}
	if strings.TrimSpace(input.ClubID) == "" {
		return ErrClubRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return ErrTeamNameRequired
	}
	return nil
}
