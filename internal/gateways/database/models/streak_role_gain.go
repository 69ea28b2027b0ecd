package models

import (
	"time"

	"github.com/uptrace/bun"
)

// StreakRoleGain is an append-only record of a streak role being acquired.
type StreakRoleGain struct {
	bun.BaseModel `bun:"table:streak_role_gains,alias:srg"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull"`
	GuildID   string    `bun:"guild_id,notnull"`
	RoleID    string    `bun:"role_id,notnull"`
	RoleName  string    `bun:"role_name,notnull"`
	XPAwarded int       `bun:"xp_awarded,notnull"`
	GainedAt  time.Time `bun:"gained_at,notnull,default:current_timestamp"`
}
