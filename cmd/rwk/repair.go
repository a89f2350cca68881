package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/rwk-einbeck/rwk-server/internal/config"
	"github.com/rwk-einbeck/rwk-server/internal/repair"
	"github.com/rwk-einbeck/rwk-server/internal/score"
	"github.com/rwk-einbeck/rwk-server/internal/shooter"
)

var (
	repairYear  int
	repairApply bool
)

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Find and merge duplicate shooter identities",
	Long:  "Scans a season's scores for records that name the same shooter in the same team, round and discipline under different shooter ids, and merges them onto a canonical id. Without --apply only the plans are printed.",
	RunE:  runRepair,
}

func init() {
	repairCmd.Flags().IntVar(&repairYear, "year", 0, "season year (default: configured season)")
	repairCmd.Flags().BoolVar(&repairApply, "apply", false, "execute the merge plans instead of printing them")
	rootCmd.AddCommand(repairCmd)
}

func runRepair(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	year := repairYear
	if year == 0 {
		year = cfg.Season.Year
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	scoreStore := score.NewStore(pool)
	shooterStore := shooter.NewStore(pool)

	season, err := scoreStore.SeasonSnapshot(ctx, year)
	if err != nil {
		return fmt.Errorf("loading season snapshot: %w", err)
	}

	groups := repair.FindDuplicateGroups(season)
	if len(groups) == 0 {
		fmt.Printf("season %d: no duplicate shooter identities found\n", year)
		return nil
	}

	for _, g := range groups {
		plan := repair.PlanMerge(g, repair.CanonicalID(g, season), season)
		fmt.Printf("%s %q in team %q (round %d): %s\n",
			g.Key.Discipline, g.Key.ShooterName, g.Key.TeamName, g.Key.Round, repair.Describe(plan))

		if !repairApply {
			continue
		}

		rewritten, err := scoreStore.ApplyMergePlan(ctx, plan)
		if err != nil {
			return fmt.Errorf("applying plan %s: %w", plan.ID, err)
		}
		removed, err := shooterStore.DeleteOrphaned(ctx, plan.OrphanedIDs)
		if err != nil {
			return fmt.Errorf("removing orphaned shooters for plan %s: %w", plan.ID, err)
		}
		slog.Info("merge plan applied", "plan_id", plan.ID,
			"canonical_id", plan.CanonicalID, "rewritten", rewritten, "orphans_removed", removed)
	}

	if !repairApply {
		fmt.Printf("\n%d plan(s) computed. Re-run with --apply to execute them.\n", len(groups))
	}
	return nil
}
