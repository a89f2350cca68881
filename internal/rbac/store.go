package rbac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for role assignments.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new assignment store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// scanAssignment scans an assignment row, handling the JSONB role columns.
func scanAssignment(scan func(dest ...any) error) (*Assignment, error) {
	a := &Assignment{}
	var clubJSON, districtJSON []byte
	if err := scan(&a.UserID, &a.IsSuperAdmin, &a.IsActive, &clubJSON, &districtJSON); err != nil {
		return nil, err
	}
	if len(clubJSON) > 0 {
		if err := json.Unmarshal(clubJSON, &a.ClubRoles); err != nil {
			return nil, fmt.Errorf("unmarshaling club roles: %w", err)
		}
	}
	if len(districtJSON) > 0 {
		if err := json.Unmarshal(districtJSON, &a.DistrictRoles); err != nil {
			return nil, fmt.Errorf("unmarshaling district roles: %w", err)
		}
	}
	if a.ClubRoles == nil {
		a.ClubRoles = map[string]ClubRole{}
	}
	if a.DistrictRoles == nil {
		a.DistrictRoles = map[string]DistrictRole{}
	}
	return a, nil
}

// GetByUserID retrieves the role assignment for a user.
func (s *Store) GetByUserID(ctx context.Context, userID string) (*Assignment, error) {
	a, err := scanAssignment(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`SELECT user_id, is_super_admin, is_active, club_roles, district_roles
			 FROM user_permissions WHERE user_id = $1`, userID,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("getting assignment by user id: %w", err)
	}
	return a, nil
}

// mergeExisting folds the stored assignment into the incoming one. Only a
// missing row means "first write"; any other read failure aborts the upsert,
// so a transient error cannot shrink the stored role maps to the incoming
// partial set.
func mergeExisting(existing *Assignment, err error, in Assignment) (Assignment, error) {
	switch {
	case err == nil:
		return Merge(*existing, in), nil
	case errors.Is(err, pgx.ErrNoRows):
		return in, nil
	default:
		return Assignment{}, err
	}
}

// Upsert merges the given assignment into the stored one for the same user.
// The stored row is created on first write; on conflict the incoming entries
// win per key, matching the Merge semantics.
func (s *Store) Upsert(ctx context.Context, in Assignment) (*Assignment, error) {
	existing, getErr := s.GetByUserID(ctx, in.UserID)
	in, err := mergeExisting(existing, getErr, in)
	if err != nil {
		return nil, err
	}

	clubJSON, err := json.Marshal(in.ClubRoles)
	if err != nil {
		return nil, fmt.Errorf("marshaling club roles: %w", err)
	}
	districtJSON, err := json.Marshal(in.DistrictRoles)
	if err != nil {
		return nil, fmt.Errorf("marshaling district roles: %w", err)
	}

	a, err := scanAssignment(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`INSERT INTO user_permissions (user_id, is_super_admin, is_active, club_roles, district_roles)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (user_id) DO UPDATE SET
			   is_super_admin = EXCLUDED.is_super_admin,
			   is_active = EXCLUDED.is_active,
			   club_roles = EXCLUDED.club_roles,
			   district_roles = EXCLUDED.district_roles
			 RETURNING user_id, is_super_admin, is_active, club_roles, district_roles`,
			in.UserID, in.IsSuperAdmin, in.IsActive, clubJSON, districtJSON,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("upserting assignment: %w", err)
	}
	return a, nil
}

// RemoveClubRole deletes the role entry for one club from a user's assignment.
func (s *Store) RemoveClubRole(ctx context.Context, userID, clubID string) (*Assignment, error) {
	a, err := scanAssignment(func(dest ...any) error {
		return s.pool.QueryRow(ctx,
			`UPDATE user_permissions SET club_roles = club_roles - $2
			 WHERE user_id = $1
			 RETURNING user_id, is_super_admin, is_active, club_roles, district_roles`,
			userID, clubID,
		).Scan(dest...)
	})
	if err != nil {
		return nil, fmt.Errorf("removing club role: %w", err)
	}
	return a, nil
}

// Deactivate flips the assignment's active flag off. Assignments are never
// hard-deleted.
func (s *Store) Deactivate(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE user_permissions SET is_active = false WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("deactivating assignment: %w", err)
	}
	return nil
}

// List returns all assignments ordered by user id.
func (s *Store) List(ctx context.Context) ([]*Assignment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT user_id, is_super_admin, is_active, club_roles, district_roles
		 FROM user_permissions ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("listing assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*Assignment
	for rows.Next() {
		a, err := scanAssignment(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning assignment row: %w", err)
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
