package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/rwk-einbeck/rwk-server/internal/api"
	"github.com/rwk-einbeck/rwk-server/internal/audit"
	"github.com/rwk-einbeck/rwk-server/internal/club"
	"github.com/rwk-einbeck/rwk-server/internal/config"
	"github.com/rwk-einbeck/rwk-server/internal/league"
	"github.com/rwk-einbeck/rwk-server/internal/metrics"
	"github.com/rwk-einbeck/rwk-server/internal/ratelimit"
	"github.com/rwk-einbeck/rwk-server/internal/rbac"
	"github.com/rwk-einbeck/rwk-server/internal/score"
	"github.com/rwk-einbeck/rwk-server/internal/shooter"
	"github.com/rwk-einbeck/rwk-server/internal/user"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the RWK server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		return err
	}
	slog.Info("connected to database")

	userStore := user.NewStore(pool)
	clubStore := club.NewStore(pool)
	shooterStore := shooter.NewStore(pool)
	scoreStore := score.NewStore(pool)
	leagueService := league.NewService(league.NewStore(pool))
	rbacStore := rbac.NewStore(pool)
	resolver := rbac.NewResolver(rbac.DefaultTable())

	m := metrics.New()
	m.RegisterDBPoolCollector(func() (total, idle, acquired int32) {
		stat := pool.Stat()
		return stat.TotalConns(), stat.IdleConns(), stat.AcquiredConns()
	})

	auditStore := audit.NewStore(pool)
	collector := audit.NewCollector(auditStore, cfg.Audit.BatchSize, cfg.Audit.FlushInterval)
	collector.SetOnFlush(m.RecordAuditFlush)
	go collector.Start(ctx)

	limiter := ratelimit.New(cfg.RateLimit.Default, cfg.RateLimit.Window)

	// Housekeeping: expired sessions hourly, audit retention nightly.
	jobs := cron.New()
	if _, err := jobs.AddFunc("@hourly", func() {
		n, err := userStore.CleanExpiredSessions(ctx)
		if err != nil {
			slog.Error("cleaning expired sessions", "error", err)
			return
		}
		if n > 0 {
			slog.Info("cleaned expired sessions", "count", n)
		}
	}); err != nil {
		return err
	}
	if _, err := jobs.AddFunc("@daily", func() {
		cutoff := time.Now().Add(-cfg.Audit.Retention)
		n, err := auditStore.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			slog.Error("pruning audit entries", "error", err)
			return
		}
		if n > 0 {
			slog.Info("pruned audit entries", "count", n, "cutoff", cutoff)
		}
	}); err != nil {
		return err
	}
	jobs.Start()
	defer jobs.Stop()

	router := api.NewRouter(api.RouterDeps{
		Users:      userStore,
		Clubs:      clubStore,
		Shooters:   shooterStore,
		Scores:     scoreStore,
		Leagues:    leagueService,
		RBAC:       rbacStore,
		Resolver:   resolver,
		AuditStore: auditStore,
		Collector:  collector,
		Sessions:   user.NewAuthAdapter(userStore),
		Limiter:    limiter,
		Metrics:    m,
		Season: api.SeasonInfo{
			Year:               cfg.Season.Year,
			TrendThreshold:     cfg.Season.TrendThreshold,
			MissingRoundPolicy: cfg.Season.MissingRoundPolicy,
		},
		AgeClasses:     cfg.AgeClassTable(),
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		DBPool:         pool,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "season", cfg.Season.Year)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-sigCh
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	collector.Stop()

	return srv.Shutdown(shutdownCtx)
}
