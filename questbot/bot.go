package questbot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/questbot/questbot/internal/backup"
	"github.com/questbot/questbot/internal/domain/quests"
	"github.com/questbot/questbot/internal/domain/reconcile"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/domain/xp"
	"github.com/questbot/questbot/internal/gateways/database"
	"github.com/questbot/questbot/internal/gateways/database/repositories"
	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/questbot/utils"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:           cfg,
		Paginator:     paginator.New(),
		Version:       version,
		Commit:        commit,
		Confirmations: quests.NewConfirmations(),
		Processes:     utils.NewBackgroundProcessManager(context.Background()),
	}
}

type Bot struct {
	Cfg       Config
	Client    bot.Client
	Paginator *paginator.Manager
	Version   string
	Commit    string
	DB        *database.DB

	Platform      platform.Platform
	Ledger        repositories.XPRepository
	Streaks       repositories.StreakRepository
	Registry      *registry.Registry
	XP            *xp.Service
	Queue         *reconcile.Queue
	Ladder        *reconcile.Ladder
	Quests        *quests.Service
	Confirmations *quests.Confirmations
	Exporter      *backup.Exporter
	Processes     *utils.BackgroundProcessManager
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(
			gateway.IntentGuilds,
			gateway.IntentGuildMembers,
			gateway.IntentGuildMessages,
			gateway.IntentGuildMessageReactions,
		)),
		bot.WithCacheConfigOpts(cache.WithCaches(
			cache.FlagGuilds,
			cache.FlagMembers,
			cache.FlagRoles,
			cache.FlagChannels,
		)),
		bot.WithEventManagerConfigOpts(bot.WithAsyncEventsEnabled()),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

// NotifierFactory builds a level change notifier once the bot's services
// exist.
type NotifierFactory func(b *Bot) reconcile.Notifier

// SetupServices builds the XP engine on top of the database and the gateway
// client. It must run after SetupBot and before the gateway opens.
func (b *Bot) SetupServices(ctx context.Context, notifiers ...NotifierFactory) error {
	if b.DB == nil || b.Client == nil {
		return fmt.Errorf("database and client must be set up first")
	}
	bunDB := b.DB.BunDB()

	b.Platform = platform.NewDiscord(b.Client)
	b.Ledger = repositories.NewXPRepository(bunDB)
	b.Streaks = repositories.NewStreakRepository(bunDB)
	settingsRepo := repositories.NewSettingsRepository(bunDB)
	questRepo := repositories.NewQuestRepository(bunDB)

	reg, err := registry.New(settingsRepo, b.Platform, b.Cfg.Leveling.CacheSize)
	if err != nil {
		return err
	}
	b.Registry = reg

	b.Ladder = reconcile.NewLadder(b.Platform, reg)
	notifier := reconcile.Notifiers{reconcile.LogNotifier{}}
	for _, build := range notifiers {
		notifier = append(notifier, build(b))
	}
	reconciler := reconcile.NewReconciler(b.Platform, reg, b.Ladder, notifier)

	b.Queue = reconcile.NewQueue(reconcile.QueueConfig{
		Workers:     b.Cfg.Queue.Workers,
		ShardSize:   b.Cfg.Queue.ShardSize,
		MaxAttempts: b.Cfg.Queue.MaxAttempts,
		JobTimeout:  time.Duration(b.Cfg.Queue.JobTimeoutSeconds) * time.Second,
	}, nil, reconciler)

	b.XP = xp.NewService(b.Ledger, b.Streaks, b.Platform, reg, b.Queue)
	b.Queue.SetLevelSource(b.XP)

	b.Quests = quests.NewService(questRepo, b.XP, reg, b.Platform)

	if b.Cfg.Spaces.Enabled() {
		client, err := backup.NewSpacesClient(ctx, b.Cfg.Spaces.Key, b.Cfg.Spaces.Secret, b.Cfg.Spaces.Region)
		if err != nil {
			return err
		}
		b.Exporter = backup.NewExporter(client, b.Cfg.Spaces.Bucket, b.Cfg.Spaces.Root, backup.Sources{
			Ledger:   b.Ledger,
			Streaks:  b.Streaks,
			Settings: reg,
			Quests:   questRepo,
		})
	}

	b.Processes.StartProcess("reconcile-queue", "applies level role changes", b.Queue.Run)
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("QuestBot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("quests | /commands"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.String("type", "error"), slog.Any("error", err))
	}
}
