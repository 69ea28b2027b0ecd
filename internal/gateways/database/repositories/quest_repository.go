package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

type QuestRepository interface {
	Create(ctx context.Context, quest *models.Quest) error
	Get(ctx context.Context, messageID snowflake.ID) (*models.Quest, error)
	ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.Quest, error)
	Delete(ctx context.Context, guildID, messageID snowflake.ID) (bool, error)
	DeleteByGuild(ctx context.Context, guildID snowflake.ID) (int, error)
	MarkCompleted(ctx context.Context, guildID, messageID, userID snowflake.ID) (bool, error)
	CompleteAndAward(ctx context.Context, guildID, messageID, userID snowflake.ID, xp int) (bool, error)
}

type questRepository struct {
	db *bun.DB
}

func NewQuestRepository(db *bun.DB) QuestRepository {
	return &questRepository{db: db}
}

func (r *questRepository) Create(ctx context.Context, quest *models.Quest) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if quest.CreatedAt.IsZero() {
		quest.CreatedAt = time.Now()
	}
	_, err := r.db.NewInsert().
		Model(quest).
		On("CONFLICT (message_id) DO NOTHING").
		Exec(ctx)
	return handleError("create", "quest", quest.MessageID, err)
}

func (r *questRepository) Get(ctx context.Context, messageID snowflake.ID) (*models.Quest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	quest := new(models.Quest)
	err := r.db.NewSelect().
		Model(quest).
		Relation("Completions").
		Where("q.message_id = ?", messageID.String()).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get", "quest", messageID, err)
	}
	return quest, nil
}

func (r *questRepository) ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.Quest, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var quests []*models.Quest
	err := r.db.NewSelect().
		Model(&quests).
		Relation("Completions").
		Where("q.guild_id = ?", guildID.String()).
		Order("q.created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("list", "quest", guildID, err)
	}
	return quests, nil
}

func (r *questRepository) Delete(ctx context.Context, guildID, messageID snowflake.ID) (bool, error) {
	var deleted bool
	err := transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.Quest)(nil)).
			Where("message_id = ? AND guild_id = ?", messageID.String(), guildID.String()).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		deleted = n > 0
		if !deleted {
			return nil
		}
		_, err = tx.NewDelete().
			Model((*models.QuestCompletion)(nil)).
			Where("message_id = ?", messageID.String()).
			Exec(ctx)
		return err
	})
	if err != nil {
		return false, handleError("delete", "quest", messageID, err)
	}
	return deleted, nil
}

func (r *questRepository) DeleteByGuild(ctx context.Context, guildID snowflake.ID) (int, error) {
	ql := newQueryLogger("delete_by_guild", "quests", slog.String("guild_id", guildID.String()))
	var count int
	err := transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*models.Quest)(nil)).
			Where("guild_id = ?", guildID.String()).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		count = int(n)
		_, err = tx.NewDelete().
			Model((*models.QuestCompletion)(nil)).
			Where("guild_id = ?", guildID.String()).
			Exec(ctx)
		return err
	})
	ql.log(err, int64(count))
	if err != nil {
		return 0, handleError("delete_by_guild", "quest", guildID, err)
	}
	return count, nil
}

// MarkCompleted records a completion and reports whether it was new. The
// unique (message_id, user_id) constraint makes concurrent duplicates lose.
func (r *questRepository) MarkCompleted(ctx context.Context, guildID, messageID, userID snowflake.ID) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.NewInsert().
		Model(&models.QuestCompletion{
			MessageID:   messageID.String(),
			UserID:      userID.String(),
			GuildID:     guildID.String(),
			CompletedAt: time.Now(),
		}).
		On("CONFLICT (message_id, user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, handleError("mark_completed", "quest_completion", messageID, err)
	}
	n, _ := res.RowsAffected()
	return n == 1, nil
}

// CompleteAndAward records a completion and adds xp to the user's base XP in
// one transaction. It reports false, writing nothing, when the completion
// already exists.
func (r *questRepository) CompleteAndAward(ctx context.Context, guildID, messageID, userID snowflake.ID, xp int) (bool, error) {
	ql := newQueryLogger("complete_and_award", "quest_completions",
		slog.String("message_id", messageID.String()),
		slog.String("user_id", userID.String()))
	awarded := false
	err := transaction(ctx, r.db, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewInsert().
			Model(&models.QuestCompletion{
				MessageID:   messageID.String(),
				UserID:      userID.String(),
				GuildID:     guildID.String(),
				CompletedAt: time.Now(),
			}).
			On("CONFLICT (message_id, user_id) DO NOTHING").
			Exec(ctx)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil
		}
		_, err = tx.NewRaw(`
			INSERT INTO user_xp (user_id, guild_id, base_xp, level, created_at, updated_at)
			VALUES (?, ?, GREATEST(0, ?::int), 1, now(), now())
			ON CONFLICT (user_id, guild_id) DO UPDATE
			SET base_xp = GREATEST(0, user_xp.base_xp + ?::int), updated_at = now()`,
			userID.String(), guildID.String(), xp, xp,
		).Exec(ctx)
		if err != nil {
			return err
		}
		awarded = true
		return nil
	})
	if err != nil {
		ql.log(err, 0)
		return false, handleError("complete_and_award", "quest_completion", messageID, err)
	}
	if awarded {
		ql.log(nil, 1)
	}
	return awarded, nil
}
