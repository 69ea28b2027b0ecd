package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Quest is keyed by the id of the message that announced it.
type Quest struct {
	bun.BaseModel `bun:"table:quests,alias:q"`

	MessageID string    `bun:"message_id,pk"`
	GuildID   string    `bun:"guild_id,notnull"`
	ChannelID string    `bun:"channel_id,notnull"`
	Title     string    `bun:"title,notnull"`
	Content   string    `bun:"content,notnull"`
	CreatedBy string    `bun:"created_by,nullzero"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	Completions []*QuestCompletion `bun:"rel:has-many,join:message_id=message_id"`
}

// CompletedBy reports whether userID already completed the quest.
func (q *Quest) CompletedBy(userID string) bool {
	for _, c := range q.Completions {
		if c.UserID == userID {
			return true
		}
	}
	return false
}

type QuestCompletion struct {
	bun.BaseModel `bun:"table:quest_completions,alias:qc"`

	ID          int64     `bun:"id,pk,autoincrement"`
	MessageID   string    `bun:"message_id,notnull,unique:quest_completion_user"`
	UserID      string    `bun:"user_id,notnull,unique:quest_completion_user"`
	GuildID     string    `bun:"guild_id,notnull"`
	CompletedAt time.Time `bun:"completed_at,notnull,default:current_timestamp"`
}
