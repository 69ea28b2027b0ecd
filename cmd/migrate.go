package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/gateways/database"
	"github.com/questbot/questbot/internal/gateways/database/repositories"
	"github.com/questbot/questbot/internal/legacy"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "Move data into the current schema",
}

var legacySQLiteCMD = &cobra.Command{
	Use:   "legacy-sqlite <path>",
	Short: "Import users, quests, settings and streak gains from the old SQLite database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd.Context(), func(db *database.DB, reg *registry.Registry) error {
			bunDB := db.BunDB()
			im := &legacy.Importer{
				Ledger:   repositories.NewXPRepository(bunDB),
				Streaks:  repositories.NewStreakRepository(bunDB),
				Quests:   repositories.NewQuestRepository(bunDB),
				Settings: reg,
			}

			start := time.Now()
			rep, err := im.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			slog.Info("Legacy import completed",
				slog.String("type", "db"),
				slog.Int("users", rep.Users),
				slog.Int("settings", rep.Settings),
				slog.Int("legacy_settings", rep.Legacy),
				slog.Int("quests", rep.Quests),
				slog.Int("completions", rep.Completions),
				slog.Int("streak_gains", rep.StreakGains),
				slog.Int("skipped", rep.Skipped),
				slog.Duration("took", time.Since(start)))
			return nil
		})
	},
}

var registryCMD = &cobra.Command{
	Use:   "registry",
	Short: "Rewrite stored role XP assignments in canonical form",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRegistry(cmd.Context(), func(_ *database.DB, reg *registry.Registry) error {
			n, err := reg.Canonicalize(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("Role XP assignments canonicalized",
				slog.String("type", "db"),
				slog.Int("rewritten", n))
			return nil
		})
	},
}

func init() {
	migrateCMD.AddCommand(legacySQLiteCMD, registryCMD)
	rootCmd.AddCommand(migrateCMD)
}

func withRegistry(ctx context.Context, fn func(*database.DB, *registry.Registry) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("initialize schema: %w", err)
	}
	// Role lookups are never needed offline.
	reg, err := registry.New(repositories.NewSettingsRepository(db.BunDB()), nil, cfg.Leveling.CacheSize)
	if err != nil {
		return err
	}
	return fn(db, reg)
}
