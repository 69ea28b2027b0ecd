package repositories

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

type SettingsRepository interface {
	Get(ctx context.Context, guildID snowflake.ID) (*models.GuildSettings, error)
	Save(ctx context.Context, settings *models.GuildSettings) error
	List(ctx context.Context) ([]*models.GuildSettings, error)
}

type settingsRepository struct {
	db *bun.DB
}

func NewSettingsRepository(db *bun.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, guildID snowflake.ID) (*models.GuildSettings, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	settings := new(models.GuildSettings)
	err := r.db.NewSelect().
		Model(settings).
		Where("guild_id = ?", guildID.String()).
		Scan(ctx)
	if err != nil {
		return nil, handleError("get", "guild_settings", guildID, err)
	}
	return settings, nil
}

// Save writes the whole settings row, replacing the assignment map.
func (r *settingsRepository) Save(ctx context.Context, settings *models.GuildSettings) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	settings.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().
		Model(settings).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("quest_ping_role_id = EXCLUDED.quest_ping_role_id").
		Set("quest_channel_id = EXCLUDED.quest_channel_id").
		Set("role_xp_assignments = EXCLUDED.role_xp_assignments").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		slog.Error("Failed to save guild settings",
			slog.String("type", "db"),
			slog.String("operation", "SaveSettings"),
			slog.String("guild_id", settings.GuildID),
			slog.Any("error", err))
		return handleError("save", "guild_settings", settings.GuildID, err)
	}
	return nil
}

func (r *settingsRepository) List(ctx context.Context) ([]*models.GuildSettings, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var all []*models.GuildSettings
	if err := r.db.NewSelect().Model(&all).Order("guild_id").Scan(ctx); err != nil {
		return nil, handleError("list", "guild_settings", "all", err)
	}
	return all, nil
}
