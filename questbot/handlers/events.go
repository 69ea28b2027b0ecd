package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/quests"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/domain/xp"
	"github.com/questbot/questbot/questbot/config"
)

type MemberXP interface {
	Recheck(ctx context.Context, guildID, userID snowflake.ID, reason string) (xp.Result, error)
	RecordStreakGain(ctx context.Context, guildID, userID, roleID snowflake.ID, roleName string, xp int) (xp.Result, error)
}

type RoleClassifier interface {
	Classify(ctx context.Context, guildID, roleID snowflake.ID) (registry.Class, error)
}

type QuestCompleter interface {
	Complete(ctx context.Context, guildID, messageID, userID snowflake.ID) (quests.Completion, error)
}

type ConfirmResolver interface {
	Resolve(messageID, userID snowflake.ID, emoji string) bool
}

type Announcements interface {
	Announce(ctx context.Context, guildID snowflake.ID, embed discord.Embed, lifetime time.Duration)
	Send(ctx context.Context, channelID snowflake.ID, embed discord.Embed, lifetime time.Duration)
}

// RoleEvents turns member role changes into XP changes.
type RoleEvents struct {
	XP        MemberXP
	Roles     RoleClassifier
	Announcer Announcements
}

// MemberRolesChanged handles one member update. before and after are the
// role sets from the cached and the new member.
func (r *RoleEvents) MemberRolesChanged(ctx context.Context, guildID, userID snowflake.ID, before, after []snowflake.ID) {
	added, removed := diffRoles(before, after)

	for _, roleID := range added {
		class, err := r.Roles.Classify(ctx, guildID, roleID)
		if err != nil {
			slog.Warn("Could not classify gained role",
				slog.String("type", "event"),
				slog.String("guild_id", guildID.String()),
				slog.String("role_id", roleID.String()),
				slog.Any("error", err))
			continue
		}
		r.roleGained(ctx, guildID, userID, roleID, class)
	}

	recheck := false
	for _, roleID := range removed {
		class, err := r.Roles.Classify(ctx, guildID, roleID)
		if err != nil {
			continue
		}
		switch class.Kind {
		case registry.KindBadge, registry.KindAutoBadge, registry.KindStreak:
			recheck = true
		}
	}
	if recheck {
		if _, err := r.XP.Recheck(ctx, guildID, userID, "xp role removed"); err != nil {
			slog.Error("Recheck after role loss failed",
				slog.String("type", "event"),
				slog.String("guild_id", guildID.String()),
				slog.String("user_id", userID.String()),
				slog.Any("error", err))
		}
	}
}

func (r *RoleEvents) roleGained(ctx context.Context, guildID, userID, roleID snowflake.ID, class registry.Class) {
	var (
		res   xp.Result
		err   error
		title string
	)
	switch class.Kind {
	case registry.KindStreak:
		res, err = r.XP.RecordStreakGain(ctx, guildID, userID, roleID, class.Name, class.XP)
		title = "🔥 Streak Role Gained!"
	case registry.KindBadge, registry.KindAutoBadge:
		res, err = r.XP.Recheck(ctx, guildID, userID, "badge role gained: "+class.Name)
		title = "🏅 Role Gained!"
	default:
		return
	}
	if err != nil {
		slog.Error("Could not apply role XP",
			slog.String("type", "event"),
			slog.String("guild_id", guildID.String()),
			slog.String("user_id", userID.String()),
			slog.String("role", class.Name),
			slog.Any("error", err))
		return
	}

	slog.Info("XP role gained",
		slog.String("type", "event"),
		slog.String("guild_id", guildID.String()),
		slog.String("user_id", userID.String()),
		slog.String("role", class.Name),
		slog.String("kind", class.Kind.String()),
		slog.Int("xp", class.XP))

	r.Announcer.Announce(ctx, guildID, discord.NewEmbedBuilder().
		SetTitle(title).
		SetDescription(fmt.Sprintf("<@%s> gained **%s** (+%d XP)", userID, class.Name, class.XP)).
		SetColor(config.SuccessColor).
		AddField("Total XP", fmt.Sprint(res.TotalXP), true).
		AddField("Level", fmt.Sprint(res.NewLevel), true).
		Build(), config.AnnouncementLifetime)
}

func diffRoles(before, after []snowflake.ID) (added, removed []snowflake.ID) {
	had := make(map[snowflake.ID]bool, len(before))
	for _, id := range before {
		had[id] = true
	}
	has := make(map[snowflake.ID]bool, len(after))
	for _, id := range after {
		has[id] = true
		if !had[id] {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if !has[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// ReactionEvents routes reactions to pending confirmations and quests.
type ReactionEvents struct {
	Quests        QuestCompleter
	Confirmations ConfirmResolver
	Announcer     Announcements
}

func (q *ReactionEvents) ReactionAdded(ctx context.Context, guildID, channelID, messageID, userID snowflake.ID, isBot bool, emoji string) {
	if isBot {
		return
	}
	if q.Confirmations.Resolve(messageID, userID, emoji) {
		return
	}
	if emoji != quests.CompleteEmoji {
		return
	}

	c, err := q.Quests.Complete(ctx, guildID, messageID, userID)
	if errors.Is(err, quests.ErrUnknownQuest) {
		return
	}
	if err != nil {
		slog.Error("Quest completion failed",
			slog.String("type", "event"),
			slog.String("guild_id", guildID.String()),
			slog.String("message_id", messageID.String()),
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
		return
	}
	if !c.Awarded {
		return
	}

	slog.Info("Quest completed",
		slog.String("type", "event"),
		slog.String("guild_id", guildID.String()),
		slog.String("user_id", userID.String()),
		slog.String("title", c.Quest.Title),
		slog.Int("total_xp", c.Result.TotalXP))

	embed := discord.NewEmbedBuilder().
		SetTitle("Quest Completed!").
		SetDescription(fmt.Sprintf("<@%s> completed **%s** and earned %d XP!", userID, c.Quest.Title, quests.RewardXP)).
		SetColor(config.QuestColor)
	if c.Settled {
		embed.AddField("Total XP", fmt.Sprint(c.Result.TotalXP), true).
			AddField("Level", fmt.Sprint(c.Result.NewLevel), true)
	}
	q.Announcer.Send(ctx, channelID, embed.Build(), config.QuestCompletionLifetime)
}

type SettingsLoader interface {
	Settings(ctx context.Context, guildID snowflake.ID) (*registry.Settings, error)
	Refresh(ctx context.Context, guildID snowflake.ID) error
}

type LadderBuilder interface {
	Ensure(ctx context.Context, guildID snowflake.ID) ([]string, error)
}

// GuildStartup prepares a guild when the gateway reports it ready.
type GuildStartup struct {
	Registry SettingsLoader
	Ladder   LadderBuilder
}

func (g *GuildStartup) GuildReady(ctx context.Context, guildID snowflake.ID) error {
	start := time.Now()
	if _, err := g.Registry.Settings(ctx, guildID); err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	created, err := g.Ladder.Ensure(ctx, guildID)
	if err != nil {
		// Missing Manage Roles is not fatal.
		slog.Warn("Could not create level roles",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID.String()),
			slog.Any("error", err))
	}
	if err := g.Registry.Refresh(ctx, guildID); err != nil {
		return fmt.Errorf("build role index: %w", err)
	}
	slog.Info("Guild ready",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID.String()),
		slog.Int("level_roles_created", len(created)),
		slog.Duration("took", time.Since(start)))
	return nil
}
