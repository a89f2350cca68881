package shooter

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for shooters.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new shooter store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new shooter and returns the created record.
func (s *Store) Create(ctx context.Context, in CreateShooterInput) (*Shooter, error) {
	sex := in.Sex
	if sex == "" {
		sex = "unknown"
	}

	sh := &Shooter{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO shooters (club_id, name, birth_year, sex)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, club_id, name, birth_year, sex, is_active, created_at`,
		in.ClubID, in.Name, in.BirthYear, sex,
	).Scan(&sh.ID, &sh.ClubID, &sh.Name, &sh.BirthYear, &sh.Sex, &sh.IsActive, &sh.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating shooter: %w", err)
	}
	return sh, nil
}

// GetByID retrieves a shooter by primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Shooter, error) {
	sh := &Shooter{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, club_id, name, birth_year, sex, is_active, created_at
		 FROM shooters WHERE id = $1`, id,
	).Scan(&sh.ID, &sh.ClubID, &sh.Name, &sh.BirthYear, &sh.Sex, &sh.IsActive, &sh.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting shooter by id: %w", err)
	}
	return sh, nil
}

// ListByClub returns all shooters of one club ordered by name.
func (s *Store) ListByClub(ctx context.Context, clubID string) ([]*Shooter, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, club_id, name, birth_year, sex, is_active, created_at
		 FROM shooters WHERE club_id = $1 ORDER BY name, id`, clubID)
	if err != nil {
		return nil, fmt.Errorf("listing shooters by club: %w", err)
	}
	defer rows.Close()

	return scanShooters(rows.Next, rows.Scan, rows.Err)
}

// ListByIDs returns the shooters with the given ids.
func (s *Store) ListByIDs(ctx context.Context, ids []string) ([]*Shooter, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, club_id, name, birth_year, sex, is_active, created_at
		 FROM shooters WHERE id = ANY($1) ORDER BY name, id`, ids)
	if err != nil {
		return nil, fmt.Errorf("listing shooters by ids: %w", err)
	}
	defer rows.Close()

	return scanShooters(rows.Next, rows.Scan, rows.Err)
}

func scanShooters(next func() bool, scan func(dest ...any) error, rowsErr func() error) ([]*Shooter, error) {
	var shooters []*Shooter
	for next() {
		sh := &Shooter{}
		if err := scan(&sh.ID, &sh.ClubID, &sh.Name, &sh.BirthYear, &sh.Sex, &sh.IsActive, &sh.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning shooter row: %w", err)
		}
		shooters = append(shooters, sh)
	}
	return shooters, rowsErr()
}

// Update performs a partial update on the shooter with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateShooterInput) (*Shooter, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.BirthYear != nil {
		setClauses = append(setClauses, fmt.Sprintf("birth_year = $%d", argIdx))
		args = append(args, *in.BirthYear)
		argIdx++
	}
	if in.Sex != nil {
		setClauses = append(setClauses, fmt.Sprintf("sex = $%d", argIdx))
		args = append(args, *in.Sex)
		argIdx++
	}
	if in.IsActive != nil {
		setClauses = append(setClauses, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *in.IsActive)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE shooters SET %s WHERE id = $%d
		 RETURNING id, club_id, name, birth_year, sex, is_active, created_at`,
		strings.Join(setClauses, ", "), argIdx,
	)

	sh := &Shooter{}
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&sh.ID, &sh.ClubID, &sh.Name, &sh.BirthYear, &sh.Sex, &sh.IsActive, &sh.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating shooter: %w", err)
	}
	return sh, nil
}

// DeleteOrphaned removes the shooters with the given ids, skipping any that
// still own score records. Scores cascade on shooter deletion, so the guard
// keeps a merge from taking legitimate results in other rounds or seasons
// down with a duplicate row.
func (s *Store) DeleteOrphaned(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM shooters WHERE id = ANY($1)
		   AND NOT EXISTS (SELECT 1 FROM scores WHERE scores.shooter_id = shooters.id)`, ids)
	if err != nil {
		return 0, fmt.Errorf("deleting orphaned shooters: %w", err)
	}
	return tag.RowsAffected(), nil
}
