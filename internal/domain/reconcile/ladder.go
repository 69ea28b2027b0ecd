package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/internal/platform"
)

// Ladder creates the ten "Level N" roles a guild is missing.
type Ladder struct {
	guilds platform.Guilds
	roles  RoleTable
	locks  sync.Map // guild id -> *sync.Mutex
}

func NewLadder(guilds platform.Guilds, roles RoleTable) *Ladder {
	return &Ladder{guilds: guilds, roles: roles}
}

// Ensure creates any missing level role and returns the names it created.
// Calls for the same guild are serialized so concurrent callers never
// create duplicates.
func (l *Ladder) Ensure(ctx context.Context, guildID snowflake.ID) ([]string, error) {
	mu, _ := l.locks.LoadOrStore(guildID, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	defer mu.(*sync.Mutex).Unlock()

	roles, err := l.guilds.Roles(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	have := make(map[int]bool, leveling.MaxLevel)
	for _, r := range roles {
		if n, ok := leveling.ParseRoleName(r.Name); ok {
			have[n] = true
		}
	}

	var created []string
	for level := leveling.MinLevel; level <= leveling.MaxLevel; level++ {
		if have[level] {
			continue
		}
		name := leveling.RoleName(level)
		role, err := l.guilds.CreateRole(ctx, guildID, name, leveling.RoleColor(level),
			fmt.Sprintf("Auto-created level role for Level %d", level))
		if errors.Is(err, platform.ErrMissingPermissions) {
			slog.Error("Cannot create level roles without Manage Roles",
				slog.String("type", "sys"),
				slog.String("guild_id", guildID.String()),
				slog.String("role", name))
			return created, err
		}
		if err != nil {
			return created, fmt.Errorf("create %s: %w", name, err)
		}
		l.roles.Observe(ctx, role)
		created = append(created, name)
		slog.Info("Created level role",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID.String()),
			slog.String("role", name))
	}
	return created, nil
}
