// Package quests posts quests, records completions and awards their XP.
package quests

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/domain/xp"
	"github.com/questbot/questbot/internal/gateways/database/models"
	"github.com/questbot/questbot/internal/gateways/database/repositories"
	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/internal/retry"
)

const (
	RewardXP      = 50
	CompleteEmoji = "✅"
	CancelEmoji   = "❌"

	// FallbackPingRole is pinged when no quest ping role is configured.
	FallbackPingRole = "Quests"

	pingLifetime = 2 * time.Second
	embedColor   = 0x00ff00
)

var ErrUnknownQuest = errors.New("not a quest message")

type Repository interface {
	Create(ctx context.Context, quest *models.Quest) error
	Get(ctx context.Context, messageID snowflake.ID) (*models.Quest, error)
	ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.Quest, error)
	Delete(ctx context.Context, guildID, messageID snowflake.ID) (bool, error)
	DeleteByGuild(ctx context.Context, guildID snowflake.ID) (int, error)
	CompleteAndAward(ctx context.Context, guildID, messageID, userID snowflake.ID, reward int) (bool, error)
}

// Awarder re-derives a member's level once a reward is stored.
type Awarder interface {
	Recheck(ctx context.Context, guildID, userID snowflake.ID, reason string) (xp.Result, error)
}

type Settings interface {
	Settings(ctx context.Context, guildID snowflake.ID) (*registry.Settings, error)
}

type Service struct {
	repo     Repository
	awarder  Awarder
	settings Settings
	platform platform.Platform
	// after schedules delayed work; tests replace it to run synchronously.
	after func(d time.Duration, fn func())
}

func NewService(repo Repository, awarder Awarder, settings Settings, p platform.Platform) *Service {
	return &Service{
		repo:     repo,
		awarder:  awarder,
		settings: settings,
		platform: p,
		after: func(d time.Duration, fn func()) {
			time.AfterFunc(d, fn)
		},
	}
}

// Posted describes where a new quest landed.
type Posted struct {
	MessageID snowflake.ID
	ChannelID snowflake.ID
	Pinged    bool
}

// Post announces a quest in the guild's quest channel, or fallbackChannel
// when none is configured, and stores it.
func (s *Service) Post(ctx context.Context, guildID, fallbackChannel, author snowflake.ID, title, content string) (Posted, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" || content == "" {
		return Posted{}, errors.New("quest title and content are required")
	}

	settings, err := s.settings.Settings(ctx, guildID)
	if err != nil {
		return Posted{}, err
	}
	channelID := fallbackChannel
	if settings.QuestChannelID != 0 {
		channelID = settings.QuestChannelID
	}

	embed := discord.NewEmbedBuilder().
		SetTitle("🎯 Quest: "+title).
		SetDescription(content).
		SetColor(embedColor).
		AddField("Reward", fmt.Sprintf("%d XP", RewardXP), true).
		AddField("Complete", "React with "+CompleteEmoji, true).
		SetFooter("Complete this quest to earn XP!", "").
		Build()

	msgID, err := s.platform.SendMessage(ctx, channelID, discord.MessageCreate{Embeds: []discord.Embed{embed}})
	if err != nil && settings.QuestChannelID != 0 && channelID != fallbackChannel {
		slog.Warn("Quest channel unusable, posting in invoking channel",
			slog.String("type", "cmd"),
			slog.String("guild_id", guildID.String()),
			slog.String("channel_id", channelID.String()),
			slog.Any("error", err))
		channelID = fallbackChannel
		msgID, err = s.platform.SendMessage(ctx, channelID, discord.MessageCreate{Embeds: []discord.Embed{embed}})
	}
	if err != nil {
		return Posted{}, fmt.Errorf("send quest message: %w", err)
	}

	if err := s.platform.AddReaction(ctx, channelID, msgID, CompleteEmoji); err != nil {
		slog.Warn("Could not add completion reaction",
			slog.String("message_id", msgID.String()),
			slog.Any("error", err))
	}

	posted := Posted{MessageID: msgID, ChannelID: channelID}
	posted.Pinged = s.ping(ctx, guildID, channelID, settings.QuestPingRoleID)

	quest := &models.Quest{
		MessageID: msgID.String(),
		GuildID:   guildID.String(),
		ChannelID: channelID.String(),
		Title:     title,
		Content:   content,
	}
	if author != 0 {
		quest.CreatedBy = author.String()
	}
	if err := retry.StorageErr(ctx, "create_quest", func(ctx context.Context) error {
		return s.repo.Create(ctx, quest)
	}); err != nil {
		return posted, fmt.Errorf("store quest: %w", err)
	}

	slog.Info("Quest posted",
		slog.String("type", "cmd"),
		slog.String("guild_id", guildID.String()),
		slog.String("message_id", msgID.String()),
		slog.String("title", title))
	return posted, nil
}

func (s *Service) ping(ctx context.Context, guildID, channelID, roleID snowflake.ID) bool {
	if roleID == 0 {
		roles, err := s.platform.Roles(ctx, guildID)
		if err != nil {
			return false
		}
		for _, r := range roles {
			if r.Name == FallbackPingRole {
				roleID = r.ID
				break
			}
		}
	}
	if roleID == 0 {
		return false
	}

	msgID, err := s.platform.SendMessage(ctx, channelID, discord.MessageCreate{
		Content:         fmt.Sprintf("<@&%s> New quest available!", roleID),
		AllowedMentions: &discord.AllowedMentions{Roles: []snowflake.ID{roleID}},
	})
	if err != nil {
		slog.Warn("Could not ping quest role",
			slog.String("guild_id", guildID.String()),
			slog.String("role_id", roleID.String()),
			slog.Any("error", err))
		return false
	}
	s.after(pingLifetime, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.platform.DeleteMessage(ctx, channelID, msgID); err != nil {
			slog.Debug("Could not delete quest ping", slog.Any("error", err))
		}
	})
	return true
}

// Completion is the outcome of a completion reaction.
type Completion struct {
	Quest  *models.Quest
	Result xp.Result
	// Awarded is false when the user had already completed the quest.
	Awarded bool
	// Settled is false when the reward was stored but the level could not
	// be recomputed yet. Result is empty then.
	Settled bool
}

// Complete records userID's completion of the quest announced by messageID
// and awards RewardXP the first time only.
func (s *Service) Complete(ctx context.Context, guildID, messageID, userID snowflake.ID) (Completion, error) {
	quest, err := retry.Storage(ctx, "get_quest", func(ctx context.Context) (*models.Quest, error) {
		return s.repo.Get(ctx, messageID)
	})
	if repositories.IsNotFound(err) {
		return Completion{}, ErrUnknownQuest
	}
	if err != nil {
		return Completion{}, err
	}
	if quest.GuildID != guildID.String() {
		return Completion{}, ErrUnknownQuest
	}
	if quest.CompletedBy(userID.String()) {
		return Completion{Quest: quest}, nil
	}

	// One attempt only: the completion row guards the reward, so a failure
	// that happens after commit must not be replayed as a second award.
	awarded, err := s.repo.CompleteAndAward(ctx, guildID, messageID, userID, RewardXP)
	if err != nil {
		return Completion{}, fmt.Errorf("record quest completion: %w", err)
	}
	if !awarded {
		return Completion{Quest: quest}, nil
	}

	c := Completion{Quest: quest, Awarded: true}
	res, err := s.awarder.Recheck(ctx, guildID, userID, "quest completed: "+quest.Title)
	if err != nil {
		slog.Warn("Quest reward stored, level will settle on next change",
			slog.String("type", "db"),
			slog.String("guild_id", guildID.String()),
			slog.String("message_id", messageID.String()),
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
		return c, nil
	}
	c.Result, c.Settled = res, true
	return c, nil
}

// Remove deletes one quest and, best effort, its message.
func (s *Service) Remove(ctx context.Context, guildID, messageID snowflake.ID) (bool, error) {
	quest, err := s.repo.Get(ctx, messageID)
	if repositories.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if quest.GuildID != guildID.String() {
		return false, nil
	}
	s.deleteMessage(ctx, quest)
	return s.repo.Delete(ctx, guildID, messageID)
}

func (s *Service) List(ctx context.Context, guildID snowflake.ID) ([]*models.Quest, error) {
	return retry.Storage(ctx, "list_quests", func(ctx context.Context) ([]*models.Quest, error) {
		return s.repo.ListByGuild(ctx, guildID)
	})
}

// DeleteAll removes every quest of the guild and, best effort, their messages.
func (s *Service) DeleteAll(ctx context.Context, guildID snowflake.ID) (int, error) {
	quests, err := s.List(ctx, guildID)
	if err != nil {
		return 0, err
	}
	for _, q := range quests {
		s.deleteMessage(ctx, q)
	}
	n, err := s.repo.DeleteByGuild(ctx, guildID)
	if err != nil {
		return 0, err
	}
	slog.Info("Deleted all quests",
		slog.String("type", "cmd"),
		slog.String("guild_id", guildID.String()),
		slog.Int("count", n))
	return n, nil
}

func (s *Service) deleteMessage(ctx context.Context, q *models.Quest) {
	channelID, err1 := snowflake.Parse(q.ChannelID)
	messageID, err2 := snowflake.Parse(q.MessageID)
	if err1 != nil || err2 != nil {
		return
	}
	if err := s.platform.DeleteMessage(ctx, channelID, messageID); err != nil && !errors.Is(err, platform.ErrNotFound) {
		slog.Warn("Could not delete quest message",
			slog.String("message_id", q.MessageID),
			slog.Any("error", err))
	}
}
