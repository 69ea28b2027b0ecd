package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "questbot",
	Short:         "QuestBot maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(slog.New(logger.New(logger.Options{Level: slog.LevelInfo})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.toml", "path to config")
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		slog.Error("Command failed", slog.String("type", "error"), slog.Any("error", err))
		os.Exit(1)
	}
}

func loadConfig() (*questbot.Config, error) {
	return questbot.LoadConfig(configPath)
}
