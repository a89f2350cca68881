package rbac

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestMergeExisting(t *testing.T) {
	existing := &Assignment{
		UserID:    "u1",
		IsActive:  true,
		ClubRoles: map[string]ClubRole{"club-1": RoleSportleiter},
	}
	incoming := Assignment{
		UserID:    "u1",
		IsActive:  true,
		ClubRoles: map[string]ClubRole{"club-2": RoleVereinsschuetze},
	}

	t.Run("stored roles survive a partial upsert", func(t *testing.T) {
		got, err := mergeExisting(existing, nil, incoming)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ClubRoles["club-1"] != RoleSportleiter {
			t.Errorf("stored club-1 role dropped, got %v", got.ClubRoles)
		}
		if got.ClubRoles["club-2"] != RoleVereinsschuetze {
			t.Errorf("incoming club-2 role missing, got %v", got.ClubRoles)
		}
	})

	t.Run("missing row keeps incoming as-is", func(t *testing.T) {
		wrapped := fmt.Errorf("getting assignment by user id: %w", pgx.ErrNoRows)
		got, err := mergeExisting(nil, wrapped, incoming)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got.ClubRoles) != 1 || got.ClubRoles["club-2"] != RoleVereinsschuetze {
			t.Errorf("expected only the incoming club role, got %v", got.ClubRoles)
		}
	})

	t.Run("read failure aborts the upsert", func(t *testing.T) {
		readErr := errors.New("connection reset")
		if _, err := mergeExisting(nil, readErr, incoming); !errors.Is(err, readErr) {
			t.Errorf("expected the read error back, got %v", err)
		}
	})
}
