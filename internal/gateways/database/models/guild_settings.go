package models

import (
	"encoding/json"
	"time"

	"github.com/uptrace/bun"
)

type GuildSettings struct {
	bun.BaseModel `bun:"table:guild_settings,alias:gs"`

	GuildID         string `bun:"guild_id,pk"`
	QuestPingRoleID string `bun:"quest_ping_role_id,nullzero"`
	QuestChannelID  string `bun:"quest_channel_id,nullzero"`
	// RoleXPAssignments maps role ids to either {"xp":N,"category":"badge|streak"}
	// or, in rows written by older releases, a bare integer.
	RoleXPAssignments map[string]json.RawMessage `bun:"role_xp_assignments,type:jsonb,notnull,default:'{}'"`
	UpdatedAt         time.Time                  `bun:"updated_at,notnull,default:current_timestamp"`
}
