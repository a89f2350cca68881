package score

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rwk-einbeck/rwk-server/internal/repair"
)

// Store provides database operations for score records.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new score store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Upsert enters a result, replacing any existing record for the same
// (shooter, team, year, round) key. Corrections during a running round are
// routine; last write wins. The returned flag reports whether the record was
// newly inserted, so callers can tell an entry from a correction.
func (s *Store) Upsert(ctx context.Context, in EnterScoreInput) (*Score, bool, error) {
	sc := &Score{}
	var inserted bool
	err := s.pool.QueryRow(ctx,
		`INSERT INTO scores (shooter_id, team_id, year, round, rings, discipline)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (shooter_id, team_id, year, round) DO UPDATE SET
		   rings = EXCLUDED.rings,
		   discipline = EXCLUDED.discipline
		 RETURNING id, shooter_id, team_id, year, round, rings, discipline, created_at, (xmax = 0)`,
		in.ShooterID, in.TeamID, in.Year, in.Round, in.Rings, in.Discipline,
	).Scan(&sc.ID, &sc.ShooterID, &sc.TeamID, &sc.Year, &sc.Round, &sc.Rings, &sc.Discipline, &sc.CreatedAt, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("upserting score: %w", err)
	}
	return sc, inserted, nil
}

// ListByTeam returns a team's scores for one season ordered by round.
func (s *Store) ListByTeam(ctx context.Context, teamID string, year int) ([]*Score, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, shooter_id, team_id, year, round, rings, discipline, created_at
		 FROM scores WHERE team_id = $1 AND year = $2 ORDER BY round, shooter_id`,
		teamID, year)
	if err != nil {
		return nil, fmt.Errorf("listing scores by team: %w", err)
	}
	defer rows.Close()

	return scanScores(rows.Next, rows.Scan, rows.Err)
}

// ListByLeague returns all scores of one league's teams for one season.
func (s *Store) ListByLeague(ctx context.Context, leagueID string, year int) ([]*Score, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sc.id, sc.shooter_id, sc.team_id, sc.year, sc.round, sc.rings, sc.discipline, sc.created_at
		 FROM scores sc JOIN teams t ON sc.team_id = t.id
		 WHERE t.league_id = $1 AND sc.year = $2
		 ORDER BY sc.round, sc.team_id, sc.shooter_id`,
		leagueID, year)
	if err != nil {
		return nil, fmt.Errorf("listing scores by league: %w", err)
	}
	defer rows.Close()

	return scanScores(rows.Next, rows.Scan, rows.Err)
}

// ListByShooter returns one shooter's scores for one season ordered by round.
func (s *Store) ListByShooter(ctx context.Context, shooterID string, year int) ([]*Score, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, shooter_id, team_id, year, round, rings, discipline, created_at
		 FROM scores WHERE shooter_id = $1 AND year = $2 ORDER BY round`,
		shooterID, year)
	if err != nil {
		return nil, fmt.Errorf("listing scores by shooter: %w", err)
	}
	defer rows.Close()

	return scanScores(rows.Next, rows.Scan, rows.Err)
}

func scanScores(next func() bool, scan func(dest ...any) error, rowsErr func() error) ([]*Score, error) {
	var scores []*Score
	for next() {
		sc := &Score{}
		if err := scan(&sc.ID, &sc.ShooterID, &sc.TeamID, &sc.Year, &sc.Round, &sc.Rings, &sc.Discipline, &sc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning score row: %w", err)
		}
		scores = append(scores, sc)
	}
	return scores, rowsErr()
}

// SeasonSnapshot returns every score of a season joined with the shooter and
// team names, in the shape the repair package's heuristic keys on. The
// snapshot must be taken in one query so a merge plan is computed over
// consistent data.
func (s *Store) SeasonSnapshot(ctx context.Context, year int) ([]repair.Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT sc.id, sc.shooter_id, sh.name, sc.team_id, t.name, sc.round, sc.year, sc.discipline
		 FROM scores sc
		 JOIN shooters sh ON sc.shooter_id = sh.id
		 JOIN teams t ON sc.team_id = t.id
		 WHERE sc.year = $1
		 ORDER BY sc.id`,
		year)
	if err != nil {
		return nil, fmt.Errorf("querying season snapshot: %w", err)
	}
	defer rows.Close()

	var records []repair.Record
	for rows.Next() {
		var r repair.Record
		if err := rows.Scan(&r.ID, &r.ShooterID, &r.ShooterName, &r.TeamID, &r.TeamName, &r.Round, &r.Year, &r.Discipline); err != nil {
			return nil, fmt.Errorf("scanning snapshot row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ApplyMergePlan rewrites the shooter id of every record named by the plan in
// one transaction. It returns the number of rewritten rows. Orphaned shooter
// rows are the shooter store's business; this only touches scores.
func (s *Store) ApplyMergePlan(ctx context.Context, plan repair.Plan) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning merge transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var rewritten int64
	for _, rw := range plan.Rewrites {
		tag, err := tx.Exec(ctx,
			`UPDATE scores SET shooter_id = $1 WHERE id = $2 AND shooter_id = $3`,
			rw.ToShooter, rw.RecordID, rw.FromShooter)
		if err != nil {
			return 0, fmt.Errorf("rewriting score %s: %w", rw.RecordID, err)
		}
		rewritten += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing merge transaction: %w", err)
	}
	return rewritten, nil
}
