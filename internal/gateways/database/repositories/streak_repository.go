package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

type StreakRepository interface {
	Record(ctx context.Context, gain *models.StreakRoleGain) error
	Total(ctx context.Context, guildID, userID snowflake.ID) (int, error)
	TotalsByGuild(ctx context.Context, guildID snowflake.ID) (map[snowflake.ID]int, error)
	ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.StreakRoleGain, error)
}

type streakRepository struct {
	db *bun.DB
}

func NewStreakRepository(db *bun.DB) StreakRepository {
	return &streakRepository{db: db}
}

func (r *streakRepository) Record(ctx context.Context, gain *models.StreakRoleGain) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if gain.GainedAt.IsZero() {
		gain.GainedAt = time.Now()
	}
	ql := newQueryLogger("record", "streak_role_gains",
		slog.String("user_id", gain.UserID),
		slog.String("role_id", gain.RoleID))
	res, err := r.db.NewInsert().Model(gain).Exec(ctx)
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	ql.log(err, n)
	return handleError("record", "streak_role_gain", gain.UserID, err)
}

func (r *streakRepository) Total(ctx context.Context, guildID, userID snowflake.ID) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	err := r.db.NewSelect().
		Model((*models.StreakRoleGain)(nil)).
		ColumnExpr("COALESCE(SUM(xp_awarded), 0)").
		Where("guild_id = ? AND user_id = ?", guildID.String(), userID.String()).
		Scan(ctx, &total)
	if err != nil {
		return 0, handleError("sum", "streak_role_gain", userID, err)
	}
	return total, nil
}

func (r *streakRepository) TotalsByGuild(ctx context.Context, guildID snowflake.ID) (map[snowflake.ID]int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rows []struct {
		UserID string `bun:"user_id"`
		Total  int    `bun:"total"`
	}
	err := r.db.NewSelect().
		Model((*models.StreakRoleGain)(nil)).
		Column("user_id").
		ColumnExpr("SUM(xp_awarded) AS total").
		Where("guild_id = ?", guildID.String()).
		Group("user_id").
		Scan(ctx, &rows)
	if err != nil {
		return nil, handleError("sum_by_guild", "streak_role_gain", guildID, err)
	}

	totals := make(map[snowflake.ID]int, len(rows))
	for _, row := range rows {
		id, err := snowflake.Parse(row.UserID)
		if err != nil {
			continue
		}
		totals[id] = row.Total
	}
	return totals, nil
}

func (r *streakRepository) ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.StreakRoleGain, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var gains []*models.StreakRoleGain
	err := r.db.NewSelect().
		Model(&gains).
		Where("guild_id = ?", guildID.String()).
		Order("gained_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, handleError("list", "streak_role_gain", guildID, err)
	}
	return gains, nil
}
