package reconcile

import (
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// Job asks the worker pool to bring a member's Level role in line with their level.
type Job struct {
	ID         string
	GuildID    snowflake.ID
	UserID     snowflake.ID
	OldLevel   int
	NewLevel   int
	Reason     string
	Attempt    int
	EnqueuedAt time.Time
}

func NewJob(guildID, userID snowflake.ID, oldLevel, newLevel int, reason string) Job {
	return Job{
		ID:         uuid.NewString(),
		GuildID:    guildID,
		UserID:     userID,
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
		Reason:     reason,
		EnqueuedAt: time.Now(),
	}
}
