package club

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store provides database operations for clubs.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new club store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Create inserts a new club and returns the created record.
func (s *Store) Create(ctx context.Context, in CreateClubInput) (*Club, error) {
	c := &Club{}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO clubs (name, short_name, district_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, name, short_name, district_id, created_at`,
		in.Name, in.ShortName, in.DistrictID,
	).Scan(&c.ID, &c.Name, &c.ShortName, &c.DistrictID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("creating club: %w", err)
	}
	return c, nil
}

// GetByID retrieves a club by its primary key.
func (s *Store) GetByID(ctx context.Context, id string) (*Club, error) {
	c := &Club{}
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, short_name, district_id, created_at
		 FROM clubs WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.ShortName, &c.DistrictID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("getting club by id: %w", err)
	}
	return c, nil
}

// List returns a page of clubs ordered by created_at DESC, id DESC using
// cursor-based pagination. It returns the clubs, the next cursor (empty if no
// more results), and any error.
func (s *Store) List(ctx context.Context, params ClubListParams) ([]*Club, string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	var rows pgx.Rows
	var err error

	if params.Cursor != "" {
		cursorTime, cursorID, cerr := decodeCursor(params.Cursor)
		if cerr != nil {
			return nil, "", fmt.Errorf("invalid cursor: %w", cerr)
		}
		rows, err = s.pool.Query(ctx,
			`SELECT id, name, short_name, district_id, created_at
			 FROM clubs
			 WHERE (created_at, id) < ($1, $2)
			 ORDER BY created_at DESC, id DESC
			 LIMIT $3`,
			cursorTime, cursorID, limit+1,
		)
	} else {
		rows, err = s.pool.Query(ctx,
			`SELECT id, name, short_name, district_id, created_at
			 FROM clubs
			 ORDER BY created_at DESC, id DESC
			 LIMIT $1`,
			limit+1,
		)
	}
	if err != nil {
		return nil, "", fmt.Errorf("listing clubs: %w", err)
	}
	defer rows.Close()

	var clubs []*Club
	for rows.Next() {
		c := &Club{}
		if err := rows.Scan(&c.ID, &c.Name, &c.ShortName, &c.DistrictID, &c.CreatedAt); err != nil {
			return nil, "", fmt.Errorf("scanning club row: %w", err)
		}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, "", fmt.Errorf("iterating club rows: %w", err)
	}

	var nextCursor string
	if len(clubs) > limit {
		last := clubs[limit-1]
		nextCursor = encodeCursor(last.CreatedAt, last.ID)
		clubs = clubs[:limit]
	}

	return clubs, nextCursor, nil
}

// Update performs a partial update on the club with the given id.
func (s *Store) Update(ctx context.Context, id string, in UpdateClubInput) (*Club, error) {
	var setClauses []string
	var args []any
	argIdx := 1

	if in.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argIdx))
		args = append(args, *in.Name)
		argIdx++
	}
	if in.ShortName != nil {
		setClauses = append(setClauses, fmt.Sprintf("short_name = $%d", argIdx))
		args = append(args, *in.ShortName)
		argIdx++
	}

	if len(setClauses) == 0 {
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE clubs SET %s WHERE id = $%d
		 RETURNING id, name, short_name, district_id, created_at`,
		strings.Join(setClauses, ", "), argIdx,
	)

	c := &Club{}
	err := s.pool.QueryRow(ctx, query, args...).
		Scan(&c.ID, &c.Name, &c.ShortName, &c.DistrictID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("updating club: %w", err)
	}
	return c, nil
}

// Delete removes a club by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM clubs WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting club: %w", err)
	}
	return nil
}

// encodeCursor produces a base64 string from a created_at timestamp and id.
func encodeCursor(createdAt time.Time, id string) string {
	raw := createdAt.Format(time.RFC3339Nano) + "|" + id
	return base64.StdEncoding.EncodeToString([]byte(raw))
}

// decodeCursor parses a base64 cursor back into its created_at and id parts.
func decodeCursor(cursor string) (time.Time, string, error) {
	data, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("decoding cursor base64: %w", err)
	}

	parts := strings.SplitN(string(data), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("invalid cursor format")
	}

	t, err := time.Parse(time.RFC3339Nano, parts[0])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("parsing cursor time: %w", err)
	}

	return t, parts[1], nil
}
