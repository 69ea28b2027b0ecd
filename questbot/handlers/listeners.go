package handlers

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"

	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/config"
)

const eventTimeout = 30 * time.Second

// Listeners returns the gateway listeners that drive the XP engine. The
// bot's services are read when an event arrives, so the listeners may be
// registered before SetupServices runs.
func Listeners(b *questbot.Bot) []bot.EventListener {
	return []bot.EventListener{
		bot.NewListenerFunc(func(e *events.GuildMemberUpdate) {
			defer recoverEvent("guild_member_update")
			if e.OldMember.User.ID == 0 {
				// Without the cached member there is nothing to diff against.
				return
			}
			if e.Member.User.Bot {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
			defer cancel()

			roles := &RoleEvents{XP: b.XP, Roles: b.Registry, Announcer: NewAnnouncer(b.Registry, b.Platform)}
			roles.MemberRolesChanged(ctx, e.GuildID, e.Member.User.ID, e.OldMember.RoleIDs, e.Member.RoleIDs)
		}),

		bot.NewListenerFunc(func(e *events.GuildMessageReactionAdd) {
			defer recoverEvent("guild_message_reaction_add")
			if e.Emoji.Name == nil {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
			defer cancel()

			reactions := &ReactionEvents{Quests: b.Quests, Confirmations: b.Confirmations, Announcer: NewAnnouncer(b.Registry, b.Platform)}
			reactions.ReactionAdded(ctx, e.GuildID, e.ChannelID, e.MessageID, e.UserID, isBot(b, e), *e.Emoji.Name)
		}),

		bot.NewListenerFunc(func(e *events.RoleCreate) {
			defer recoverEvent("role_create")
			b.Registry.Observe(context.Background(), platform.RoleFromEvent(e.GuildID, e.Role))
		}),

		bot.NewListenerFunc(func(e *events.RoleUpdate) {
			defer recoverEvent("role_update")
			b.Registry.Observe(context.Background(), platform.RoleFromEvent(e.GuildID, e.Role))
		}),

		bot.NewListenerFunc(func(e *events.RoleDelete) {
			defer recoverEvent("role_delete")
			b.Registry.Drop(e.GuildID, e.RoleID)
		}),

		bot.NewListenerFunc(func(e *events.GuildReady) {
			defer recoverEvent("guild_ready")
			ctx, cancel := context.WithTimeout(context.Background(), config.GuildReadyTimeout)
			defer cancel()

			startup := &GuildStartup{Registry: b.Registry, Ladder: b.Ladder}
			if err := startup.GuildReady(ctx, e.GuildID); err != nil {
				slog.Error("Guild setup failed",
					slog.String("type", "sys"),
					slog.String("guild_id", e.GuildID.String()),
					slog.Any("error", err))
			}
		}),

		bot.NewListenerFunc(func(e *events.GuildLeave) {
			defer recoverEvent("guild_leave")
			b.Registry.Evict(e.GuildID)
		}),
	}
}

func isBot(b *questbot.Bot, e *events.GuildMessageReactionAdd) bool {
	if e.Member.User.ID != 0 {
		return e.Member.User.Bot
	}
	if e.UserID == b.Client.ApplicationID() {
		return true
	}
	if m, ok := b.Client.Caches().Member(e.GuildID, e.UserID); ok {
		return m.User.Bot
	}
	return false
}

func recoverEvent(name string) {
	if r := recover(); r != nil {
		slog.Error("Event handler panicked",
			slog.String("type", "error"),
			slog.String("name", name),
			slog.Any("panic", r),
			slog.String("stack", string(debug.Stack())))
	}
}

var _ Announcements = (*Announcer)(nil)
