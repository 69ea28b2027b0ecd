package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/reconcile"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/questbot/config"
)

type SettingsSource interface {
	Settings(ctx context.Context, guildID snowflake.ID) (*registry.Settings, error)
}

// Announcer posts short-lived messages about XP and level changes.
type Announcer struct {
	settings SettingsSource
	messages platform.Messages
	after    func(d time.Duration, fn func())
}

func NewAnnouncer(settings SettingsSource, messages platform.Messages) *Announcer {
	return &Announcer{
		settings: settings,
		messages: messages,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// Announce posts embed to the guild's quest channel, or the first text
// channel by position when none is set, and deletes it after lifetime.
// Channels the bot cannot post in are skipped.
func (a *Announcer) Announce(ctx context.Context, guildID snowflake.ID, embed discord.Embed, lifetime time.Duration) {
	if s, err := a.settings.Settings(ctx, guildID); err == nil && s.QuestChannelID != 0 {
		if a.tryPost(ctx, s.QuestChannelID, embed, lifetime) {
			return
		}
	}
	channels, err := a.messages.TextChannels(ctx, guildID)
	if err != nil {
		slog.Debug("No channel to announce in", slog.String("guild_id", guildID.String()), slog.Any("error", err))
		return
	}
	for _, channelID := range channels {
		if a.tryPost(ctx, channelID, embed, lifetime) {
			return
		}
	}
	slog.Debug("No channel to announce in", slog.String("guild_id", guildID.String()))
}

// Send posts embed to channelID and deletes it after lifetime.
func (a *Announcer) Send(ctx context.Context, channelID snowflake.ID, embed discord.Embed, lifetime time.Duration) {
	a.tryPost(ctx, channelID, embed, lifetime)
}

// tryPost reports false only when the channel refused the post for missing
// permissions, so the caller can try the next one.
func (a *Announcer) tryPost(ctx context.Context, channelID snowflake.ID, embed discord.Embed, lifetime time.Duration) bool {
	msgID, err := a.messages.SendMessage(ctx, channelID, discord.MessageCreate{
		Embeds:          []discord.Embed{embed},
		AllowedMentions: &discord.AllowedMentions{},
	})
	if errors.Is(err, platform.ErrMissingPermissions) {
		return false
	}
	if err != nil {
		slog.Warn("Could not post announcement",
			slog.String("type", "event"),
			slog.String("channel_id", channelID.String()),
			slog.Any("error", err))
		return true
	}
	a.after(lifetime, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.messages.DeleteMessage(ctx, channelID, msgID); err != nil {
			slog.Debug("Could not delete announcement", slog.Any("error", err))
		}
	})
	return true
}

// LevelRolesChanged announces level-ups once the member's roles are in place.
func (a *Announcer) LevelRolesChanged(ctx context.Context, c reconcile.Change) {
	if c.NewLevel <= c.OldLevel {
		return
	}
	embed := discord.NewEmbedBuilder().
		SetTitle("🎉 " + config.DefaultAnnouncementTitle).
		SetDescription(fmt.Sprintf("<@%s> reached **Level %d**!", c.UserID, c.NewLevel)).
		SetColor(config.LevelUpColor).
		Build()
	if c.Added != "" {
		embed.Fields = append(embed.Fields, discord.EmbedField{Name: "New Role", Value: c.Added})
	}
	a.Announce(ctx, c.GuildID, embed, config.AnnouncementLifetime)
}
