package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserXP is the ledger row for one member of one guild. BaseXP holds quest
// and admin XP only; role XP is derived at read time.
type UserXP struct {
	bun.BaseModel `bun:"table:user_xp,alias:ux"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    string    `bun:"user_id,notnull,unique:user_xp_user_guild"`
	GuildID   string    `bun:"guild_id,notnull,unique:user_xp_user_guild"`
	BaseXP    int       `bun:"base_xp,notnull,default:0"`
	Level     int       `bun:"level,notnull,default:1"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
