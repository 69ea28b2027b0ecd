package reconcile

import (
	"context"
	"log/slog"
	"strings"
)

// LogNotifier records role changes in the log.
type LogNotifier struct{}

func (LogNotifier) LevelRolesChanged(_ context.Context, c Change) {
	slog.Info("Level roles synced",
		slog.String("type", "job"),
		slog.String("guild_id", c.GuildID.String()),
		slog.String("user_id", c.UserID.String()),
		slog.Int("old_level", c.OldLevel),
		slog.Int("new_level", c.NewLevel),
		slog.String("removed", strings.Join(c.Removed, ", ")),
		slog.String("added", c.Added))
}

// Notifiers fans a change out to several notifiers.
type Notifiers []Notifier

func (ns Notifiers) LevelRolesChanged(ctx context.Context, c Change) {
	for _, n := range ns {
		n.LevelRolesChanged(ctx, c)
	}
}
