package league

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for leagues and teams.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new league store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new league and returns the created record.
func (s *Store) Create(ctx context.Context, in CreateLeagueInput) (*League, error) {
	l := &League{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO leagues (name, discipline, year, round_count)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, discipline, year, round_count, created_at`,
		in.Name, in.Discipline, in.Year, in.RoundCount,
	).Scan(&l.ID, &l.Name, &l.Discipline, &l.Year, &l.RoundCount, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating league: %w", err)
	}
	return l, nil
}

// GetByID retrieves a league by its primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*League, error) {
	l := &League{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, discipline, year, round_count, created_at
		 FROM leagues WHERE id = $1`, id,
	).Scan(&l.ID, &l.Name, &l.Discipline, &l.Year, &l.RoundCount, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting league by id: %w", err)
	}
	return l, nil
}

// List returns leagues filtered by the given params, ordered by name.
func (s *Store) List(ctx context.Context, params LeagueListParams) ([]*League, error) {
	var conds []string
	var args []any
	argIdx := 1

	if params.Year != 0 {
		conds = append(conds, fmt.Sprintf("year = $%d", argIdx))
		args = append(args, params.Year)
		argIdx++
	}
	if params.Discipline != "" {
		conds = append(conds, fmt.Sprintf("discipline = $%d", argIdx))
		args = append(args, params.Discipline)
		argIdx++
	}

	query := `SELECT id, name, discipline, year, round_count, created_at FROM leagues`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing leagues: %w", err)
	}
	defer rows.Close()

	var leagues []*League
	for rows.Next() {
		l := &League{}
		if err := rows.Scan(&l.ID, &l.Name, &l.Discipline, &l.Year, &l.RoundCount, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning league row: %w", err)
		}
		leagues = append(leagues, l)
	}
	return leagues, rows.Err()
}

// Update performs a partial update on the league with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateLeagueInput) (*League, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.RoundCount != nil {
		setClauses = append(setClauses, fmt.Sprintf("round_count = $%d", argIdx))
		args = append(args, *in.RoundCount)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE leagues SET %s WHERE id = $%d
		 RETURNING id, name, discipline, year, round_count, created_at`,
		strings.Join(setClauses, ", "), argIdx,
	)

	l := &League{}
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&l.ID, &l.Name, &l.Discipline, &l.Year, &l.RoundCount, &l.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating league: %w", err)
	}
	return l, nil
}

// Delete removes a league by id. Teams and scores cascade in the schema.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM leagues WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting league: %w", err)
	}
	return nil
}

// CreateTeam registers a team in a league and returns the created record.
func (s *Store) CreateTeam(ctx context.Context, in CreateTeamInput) (*Team, error) {
	t := &Team{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO teams (league_id, club_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, league_id, club_id, name, created_at`,
		in.LeagueID, in.ClubID, in.Name,
	).Scan(&t.ID, &t.LeagueID, &t.ClubID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating team: %w", err)
	}
	return t, nil
}

// GetTeamByID retrieves a team by its primary key.
func (s *Store) GetTeamByID(ctx context.Context, id string) (*Team, error) {
	t := &Team{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, league_id, club_id, name, created_at
		 FROM teams WHERE id = $1`, id,
	).Scan(&t.ID, &t.LeagueID, &t.ClubID, &t.Name, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting team by id: %w", err)
	}
	return t, nil
}

// ListTeams returns all teams of one league ordered by name.
func (s *Store) ListTeams(ctx context.Context, leagueID string) ([]*Team, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, league_id, club_id, name, created_at
		 FROM teams WHERE league_id = $1 ORDER BY name, id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("listing teams: %w", err)
	}
	defer rows.Close()

	var teams []*Team
	for rows.Next() {
		t := &Team{}
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.ClubID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning team row: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// DeleteTeam removes a team by id.
func (s *Store) DeleteTeam(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting team: %w", err)
	}
	return nil
}
