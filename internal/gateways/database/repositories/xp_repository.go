package repositories

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

type XPRepository interface {
	GetOrCreate(ctx context.Context, guildID, userID snowflake.ID) (*models.UserXP, error)
	AddBaseXP(ctx context.Context, guildID, userID snowflake.ID, delta int) (*models.UserXP, error)
	SetLevel(ctx context.Context, guildID, userID snowflake.ID, level int) error
	ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.UserXP, error)
	Import(ctx context.Context, rec *models.UserXP) error
}

type xpRepository struct {
	db *bun.DB
}

func NewXPRepository(db *bun.DB) XPRepository {
	return &xpRepository{db: db}
}

func (r *xpRepository) GetOrCreate(ctx context.Context, guildID, userID snowflake.ID) (*models.UserXP, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rec := &models.UserXP{
		UserID:  userID.String(),
		GuildID: guildID.String(),
		BaseXP:  0,
		Level:   1,
	}
	if _, err := r.db.NewInsert().
		Model(rec).
		On("CONFLICT (user_id, guild_id) DO NOTHING").
		Exec(ctx); err != nil {
		return nil, handleError("create", "user_xp", userID, err)
	}

	err := r.db.NewSelect().
		Model(rec).
		Where("user_id = ? AND guild_id = ?", rec.UserID, rec.GuildID).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get", "user_xp", userID, err)
	}
	return rec, nil
}

// AddBaseXP applies delta in a single statement, clamping at zero and
// creating the row when absent.
func (r *xpRepository) AddBaseXP(ctx context.Context, guildID, userID snowflake.ID, delta int) (*models.UserXP, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rec := new(models.UserXP)
	err := r.db.NewRaw(`
		INSERT INTO user_xp (user_id, guild_id, base_xp, level, created_at, updated_at)
		VALUES (?, ?, GREATEST(0, ?::int), 1, now(), now())
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET base_xp = GREATEST(0, user_xp.base_xp + ?::int), updated_at = now()
		RETURNING *`,
		userID.String(), guildID.String(), delta, delta,
	).Scan(ctx, rec)
	if err != nil {
		slog.Error("Failed to apply XP delta",
			slog.String("type", "db"),
			slog.String("operation", "AddBaseXP"),
			slog.String("user_id", userID.String()),
			slog.String("guild_id", guildID.String()),
			slog.Int("delta", delta),
			slog.Any("error", err))
		return nil, handleError("add_base_xp", "user_xp", userID, err)
	}

	slog.Debug("Applied XP delta",
		slog.String("type", "db"),
		slog.String("operation", "AddBaseXP"),
		slog.String("user_id", userID.String()),
		slog.Int("delta", delta),
		slog.Int("base_xp", rec.BaseXP))
	return rec, nil
}

func (r *xpRepository) SetLevel(ctx context.Context, guildID, userID snowflake.ID, level int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.NewUpdate().
		Model((*models.UserXP)(nil)).
		Set("level = ?", level).
		Set("updated_at = now()").
		Where("user_id = ? AND guild_id = ?", userID.String(), guildID.String()).
		Exec(ctx)
	if err != nil {
		return handleError("set_level", "user_xp", userID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &NotFoundError{Entity: "user_xp", ID: userID}
	}
	return nil
}

func (r *xpRepository) ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.UserXP, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var recs []*models.UserXP
	err := r.db.NewSelect().
		Model(&recs).
		Where("guild_id = ?", guildID.String()).
		OrderExpr("base_xp DESC, user_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("list", "user_xp", guildID, err)
	}
	return recs, nil
}

// Import overwrites base XP and level with the given values.
func (r *xpRepository) Import(ctx context.Context, rec *models.UserXP) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rec.BaseXP = max(0, rec.BaseXP)
	_, err := r.db.NewInsert().
		Model(rec).
		On("CONFLICT (user_id, guild_id) DO UPDATE").
		Set("base_xp = EXCLUDED.base_xp").
		Set("level = EXCLUDED.level").
		Set("updated_at = now()").
		Exec(ctx)
	return handleError("import", "user_xp", rec.UserID, err)
}
