// Package legacy imports data from the SQLite database older releases kept.
package legacy

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/disgoorg/snowflake/v2"
	_ "modernc.org/sqlite"

	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/gateways/database/models"
)

type LedgerTarget interface {
	Import(ctx context.Context, rec *models.UserXP) error
}

type StreakTarget interface {
	Record(ctx context.Context, gain *models.StreakRoleGain) error
	ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.StreakRoleGain, error)
}

type QuestTarget interface {
	Create(ctx context.Context, quest *models.Quest) error
	MarkCompleted(ctx context.Context, guildID, messageID, userID snowflake.ID) (bool, error)
}

type SettingsTarget interface {
	Import(ctx context.Context, s *registry.Settings) error
}

// Report counts what an import wrote.
type Report struct {
	Users       int
	Settings    int
	Legacy      int // settings rows that held bare integer role values
	Quests      int
	Completions int
	StreakGains int
	Skipped     int
}

type Importer struct {
	Ledger   LedgerTarget
	Streaks  StreakTarget
	Quests   QuestTarget
	Settings SettingsTarget
}

// Import copies every table of the SQLite file at path. Users, settings and
// quests are upserted. Streak gains are copied only for guilds that have none
// yet so running the import twice does not double them.
func (im *Importer) Import(ctx context.Context, path string) (Report, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		return Report{}, fmt.Errorf("open %s: %w", path, err)
	}

	var rep Report
	steps := []struct {
		name string
		fn   func(context.Context, *sql.DB, *Report) error
	}{
		{"users", im.importUsers},
		{"settings", im.importSettings},
		{"quests", im.importQuests},
		{"streak_role_gains", im.importStreakGains},
	}
	for _, step := range steps {
		start := time.Now()
		if err := step.fn(ctx, db, &rep); err != nil {
			return rep, fmt.Errorf("import %s: %w", step.name, err)
		}
		slog.Info("Imported legacy table",
			slog.String("type", "db"),
			slog.String("table", step.name),
			slog.Duration("took", time.Since(start)))
	}
	return rep, nil
}

func (im *Importer) importUsers(ctx context.Context, db *sql.DB, rep *Report) error {
	rows, err := db.QueryContext(ctx, `SELECT user_id, guild_id, COALESCE(xp, 0), COALESCE(level, 1) FROM users`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var userID, guildID, xp, level int64
		if err := rows.Scan(&userID, &guildID, &xp, &level); err != nil {
			return err
		}
		rec := &models.UserXP{
			UserID:  formatID(userID),
			GuildID: formatID(guildID),
			BaseXP:  int(xp),
			Level:   int(level),
		}
		if err := im.Ledger.Import(ctx, rec); err != nil {
			return err
		}
		rep.Users++
	}
	return rows.Err()
}

func (im *Importer) importSettings(ctx context.Context, db *sql.DB, rep *Report) error {
	rows, err := db.QueryContext(ctx, `SELECT guild_id, quest_ping_role_id, quest_channel_id, COALESCE(role_xp_assignments, '{}') FROM settings`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var guildID int64
		var pingRole, channel sql.NullInt64
		var raw string
		if err := rows.Scan(&guildID, &pingRole, &channel, &raw); err != nil {
			return err
		}

		m := &models.GuildSettings{GuildID: formatID(guildID)}
		if pingRole.Valid && pingRole.Int64 != 0 {
			m.QuestPingRoleID = formatID(pingRole.Int64)
		}
		if channel.Valid && channel.Int64 != 0 {
			m.QuestChannelID = formatID(channel.Int64)
		}
		if err := json.Unmarshal([]byte(raw), &m.RoleXPAssignments); err != nil {
			slog.Warn("Role XP assignments unreadable, importing without them",
				slog.String("guild_id", m.GuildID),
				slog.Any("error", err))
			rep.Skipped++
		}

		s, legacy, err := registry.FromModel(m)
		if err != nil {
			slog.Warn("Skipping settings row", slog.String("guild_id", m.GuildID), slog.Any("error", err))
			rep.Skipped++
			continue
		}
		if err := im.Settings.Import(ctx, s); err != nil {
			return err
		}
		rep.Settings++
		if legacy {
			rep.Legacy++
		}
	}
	return rows.Err()
}

func (im *Importer) importQuests(ctx context.Context, db *sql.DB, rep *Report) error {
	rows, err := db.QueryContext(ctx, `SELECT message_id, guild_id, channel_id, COALESCE(title, ''), COALESCE(content, ''), COALESCE(completed_users, '[]') FROM quests`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var messageID, guildID, channelID int64
		var title, content, completed string
		if err := rows.Scan(&messageID, &guildID, &channelID, &title, &content, &completed); err != nil {
			return err
		}
		quest := &models.Quest{
			MessageID: formatID(messageID),
			GuildID:   formatID(guildID),
			ChannelID: formatID(channelID),
			Title:     title,
			Content:   content,
		}
		if err := im.Quests.Create(ctx, quest); err != nil {
			return err
		}
		rep.Quests++

		var users []int64
		if err := json.Unmarshal([]byte(completed), &users); err != nil {
			slog.Warn("Completed users unreadable",
				slog.String("message_id", quest.MessageID),
				slog.Any("error", err))
			rep.Skipped++
			continue
		}
		for _, u := range users {
			isNew, err := im.Quests.MarkCompleted(ctx, snowflake.ID(guildID), snowflake.ID(messageID), snowflake.ID(u))
			if err != nil {
				return err
			}
			if isNew {
				rep.Completions++
			}
		}
	}
	return rows.Err()
}

func (im *Importer) importStreakGains(ctx context.Context, db *sql.DB, rep *Report) error {
	rows, err := db.QueryContext(ctx, `SELECT user_id, guild_id, role_id, COALESCE(role_name, ''), COALESCE(xp_awarded, 0), COALESCE(timestamp, '') FROM streak_role_gains ORDER BY id`)
	if err != nil {
		return err
	}
	defer rows.Close()

	seeded := map[int64]bool{}
	for rows.Next() {
		var userID, guildID, roleID, xp int64
		var roleName, ts string
		if err := rows.Scan(&userID, &guildID, &roleID, &roleName, &xp, &ts); err != nil {
			return err
		}

		skip, checked := seeded[guildID]
		if !checked {
			existing, err := im.Streaks.ListByGuild(ctx, snowflake.ID(guildID))
			if err != nil {
				return err
			}
			skip = len(existing) > 0
			seeded[guildID] = skip
			if skip {
				slog.Info("Guild already has streak gains, not importing them again",
					slog.String("guild_id", formatID(guildID)))
			}
		}
		if skip {
			rep.Skipped++
			continue
		}

		gain := &models.StreakRoleGain{
			UserID:    formatID(userID),
			GuildID:   formatID(guildID),
			RoleID:    formatID(roleID),
			RoleName:  roleName,
			XPAwarded: int(xp),
			GainedAt:  parseTimestamp(ts),
		}
		if err := im.Streaks.Record(ctx, gain); err != nil {
			return err
		}
		rep.StreakGains++
	}
	return rows.Err()
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// parseTimestamp reads SQLite's CURRENT_TIMESTAMP format, falling back to now.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Now()
}
