package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/rwk-einbeck/rwk-server/internal/club"
	"github.com/rwk-einbeck/rwk-server/internal/config"
	"github.com/rwk-einbeck/rwk-server/internal/league"
	"github.com/rwk-einbeck/rwk-server/internal/rbac"
	"github.com/rwk-einbeck/rwk-server/internal/score"
	"github.com/rwk-einbeck/rwk-server/internal/shooter"
	"github.com/rwk-einbeck/rwk-server/internal/user"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed demo clubs, a league and a season of results",
	RunE:  runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

var demoClubs = []club.CreateClubInput{
	{Name: "SV Lauenberg", ShortName: "SVL", DistrictID: "einbeck"},
	{Name: "SGi Einbeck", ShortName: "SGE", DistrictID: "einbeck"},
	{Name: "SV Markoldendorf", ShortName: "SVM", DistrictID: "einbeck"},
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	clubStore := club.NewStore(pool)
	shooterStore := shooter.NewStore(pool)
	leagueService := league.NewService(league.NewStore(pool))
	scoreStore := score.NewStore(pool)
	userStore := user.NewStore(pool)
	rbacStore := rbac.NewStore(pool)

	// Check if seed has already run.
	existing, _, err := clubStore.List(ctx, club.ClubListParams{Limit: 1})
	if err != nil {
		return fmt.Errorf("checking existing clubs: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("demo data already exists, skipping seed")
		return nil
	}

	clubs := make([]*club.Club, 0, len(demoClubs))
	for _, in := range demoClubs {
		c, err := clubStore.Create(ctx, in)
		if err != nil {
			return fmt.Errorf("creating club %q: %w", in.Name, err)
		}
		slog.Info("created club", "name", c.Name, "id", c.ID)
		clubs = append(clubs, c)
	}

	l, err := leagueService.Create(ctx, league.CreateLeagueInput{
		Name:       "Kreisliga Luftgewehr",
		Discipline: "LG",
		Year:       cfg.Season.Year,
		RoundCount: cfg.Season.RoundCount,
	})
	if err != nil {
		return fmt.Errorf("creating league: %w", err)
	}

	birthYears := []int{1968, 1975, 1983, 1991, 2004, 2009}
	sexes := []string{"male", "female"}
	ringsBase := []int{278, 282, 285, 289, 291, 294}

	for ci, c := range clubs {
		team, err := leagueService.CreateTeam(ctx, league.CreateTeamInput{
			LeagueID: l.ID,
			ClubID:   c.ID,
			Name:     c.Name + " I",
		})
		if err != nil {
			return fmt.Errorf("creating team for %q: %w", c.Name, err)
		}

		for si := 0; si < 3; si++ {
			by := birthYears[(ci+si)%len(birthYears)]
			sh, err := shooterStore.Create(ctx, shooter.CreateShooterInput{
				ClubID:    c.ID,
				Name:      fmt.Sprintf("%s Schütze %d", c.ShortName, si+1),
				BirthYear: &by,
				Sex:       sexes[(ci+si)%len(sexes)],
			})
			if err != nil {
				return fmt.Errorf("creating shooter: %w", err)
			}

			for round := 1; round <= 2; round++ {
				_, _, err := scoreStore.Upsert(ctx, score.EnterScoreInput{
					ShooterID:  sh.ID,
					TeamID:     team.ID,
					Year:       cfg.Season.Year,
					Round:      round,
					Rings:      ringsBase[(ci+si+round)%len(ringsBase)],
					Discipline: "LG",
				})
				if err != nil {
					return fmt.Errorf("entering score: %w", err)
				}
			}
		}
	}

	admin, err := userStore.Create(ctx, user.CreateUserInput{
		Email:    "admin@rwk-einbeck.de",
		Password: "changeme-now",
		Name:     "Kreis-Admin",
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}
	if _, err := rbacStore.Upsert(ctx, rbac.Assignment{
		UserID:       admin.ID,
		IsSuperAdmin: true,
		IsActive:     true,
	}); err != nil {
		return fmt.Errorf("assigning admin permissions: %w", err)
	}

	sportleiter, err := userStore.Create(ctx, user.CreateUserInput{
		Email:    "sportleiter@sv-lauenberg.de",
		Password: "changeme-now",
		Name:     "Sportleiter Lauenberg",
	})
	if err != nil {
		return fmt.Errorf("creating sportleiter user: %w", err)
	}
	if _, err := rbacStore.Upsert(ctx, rbac.Assignment{
		UserID:    sportleiter.ID,
		IsActive:  true,
		ClubRoles: map[string]rbac.ClubRole{clubs[0].ID: rbac.RoleSportleiter},
	}); err != nil {
		return fmt.Errorf("assigning sportleiter permissions: %w", err)
	}

	fmt.Printf("\n=== Demo Data Seeded ===\n")
	fmt.Printf("Clubs:     %d registered\n", len(clubs))
	fmt.Printf("League:    %s (%s, %d rounds)\n", l.Name, l.Discipline, l.RoundCount)
	fmt.Printf("Admin:     admin@rwk-einbeck.de / changeme-now\n")
	fmt.Printf("Official:  sportleiter@sv-lauenberg.de / changeme-now\n")
	fmt.Printf("\nTry it:\n")
	fmt.Printf("  curl -X POST -d '{\"email\":\"admin@rwk-einbeck.de\",\"password\":\"changeme-now\"}' http://localhost:8080/api/v1/auth/login\n")
	fmt.Printf("  curl -H 'Authorization: Bearer <token>' http://localhost:8080/api/v1/leagues/%s/standings\n", l.ID)

	return nil
}
