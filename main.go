package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/internal/domain/reconcile"
	"github.com/questbot/questbot/internal/gateways/database"
	"github.com/questbot/questbot/internal/web"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands"
	"github.com/questbot/questbot/questbot/commands/admin"
	"github.com/questbot/questbot/questbot/commands/general"
	"github.com/questbot/questbot/questbot/commands/staff"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/handlers"
	"github.com/questbot/questbot/questbot/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	slog.SetDefault(slog.New(logger.New(logger.Options{Level: slog.LevelInfo})))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := questbot.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.String("type", "sys"), slog.Any("error", err))
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(logger.New(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})))

	slog.Info("Starting QuestBot",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("type", "db"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("type", "db"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	b := questbot.New(*cfg, version, commit)
	b.DB = db

	h := handler.New()

	// General commands
	h.Command("/questbot", handlers.WrapWithLogging("questbot", general.QuestBotHandler(b)))
	h.Command("/checkxp", handlers.WrapWithLogging("checkxp", general.CheckXPHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", general.LeaderboardHandler(b)))
	h.Command("/allquests", handlers.WrapWithLogging("allquests", general.AllQuestsHandler(b)))
	h.Command("/commands", handlers.WrapWithLogging("commands", general.HelpHandler(b)))

	// Staff commands
	h.Command("/addxp", handlers.WrapWithLogging("addxp", staff.AddXPHandler(b)))
	h.Command("/removexp", handlers.WrapWithLogging("removexp", staff.RemoveXPHandler(b)))
	h.Command("/setxp", handlers.WrapWithLogging("setxp", staff.SetXPHandler(b)))
	h.Command("/addquest", handlers.WrapWithLogging("addquest", staff.AddQuestHandler(b)))
	h.Command("/removequest", handlers.WrapWithLogging("removequest", staff.RemoveQuestHandler(b)))
	h.Autocomplete("/removequest", handlers.WrapAutocompleteWithLogging("removequest", staff.RemoveQuestAutocomplete(b)))

	// Admin commands
	h.Command("/assignbadgexp", handlers.WrapWithLogging("assignbadgexp", admin.AssignBadgeXPHandler(b)))
	h.Command("/assignstreakxp", handlers.WrapWithLogging("assignstreakxp", admin.AssignStreakXPHandler(b)))
	h.Command("/unassignrolexp", handlers.WrapWithLogging("unassignrolexp", admin.UnassignRoleXPHandler(b)))
	h.Command("/checkrolexp", handlers.WrapWithLogging("checkrolexp", admin.CheckRoleXPHandler(b)))
	h.Command("/questping", handlers.WrapWithLogging("questping", admin.QuestPingHandler(b)))
	h.Command("/questchannel", handlers.WrapWithLogging("questchannel", admin.QuestChannelHandler(b)))
	h.Command("/createlevelroles", handlers.WrapWithLogging("createlevelroles", admin.CreateLevelRolesHandler(b)))
	h.Command("/assignlevelroles", handlers.WrapWithLogging("assignlevelroles", admin.AssignLevelRolesHandler(b)))
	h.Command("/exportguild", handlers.WrapWithLogging("exportguild", admin.ExportGuildHandler(b)))
	h.Command("/deleteallquests", handlers.WrapWithLogging("deleteallquests", admin.DeleteAllQuestsHandler(b)))

	listeners := append([]bot.EventListener{h, bot.NewListenerFunc(b.OnReady)}, handlers.Listeners(b)...)
	if err = b.SetupBot(listeners...); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"))
		os.Exit(-1)
	}

	announcer := func(b *questbot.Bot) reconcile.Notifier {
		return handlers.NewAnnouncer(b.Registry, b.Platform)
	}
	if err = b.SetupServices(ctx, announcer); err != nil {
		slog.Error("Failed to setup services",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "services"),
			slog.String("status", "failed"))
		os.Exit(-1)
	}

	if cfg.Web.Enabled {
		srv := web.New(cfg.Web.Addr, db, b.Queue)
		b.Processes.StartProcess("web", "serves the health endpoint", srv.Run)
	}

	defer func() {
		if err := b.Processes.Shutdown(config.ShutdownTimeout); err != nil {
			slog.Warn("Background processes did not stop in time", slog.String("type", "sys"), slog.Any("error", err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"))
		}
	}

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err = b.Client.OpenGateway(gwCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"))
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.", slog.String("type", "sys"))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...", slog.String("type", "sys"))
}
