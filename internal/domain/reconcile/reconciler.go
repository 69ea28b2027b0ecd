// Package reconcile keeps each member's "Level N" role in line with their level.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/platform"
)

type RoleTable interface {
	Classify(ctx context.Context, guildID, roleID snowflake.ID) (registry.Class, error)
	LevelRole(ctx context.Context, guildID snowflake.ID, level int) (snowflake.ID, bool, error)
	Observe(ctx context.Context, role platform.Role)
}

// Change is what a reconciliation did to a member's roles.
type Change struct {
	GuildID  snowflake.ID
	UserID   snowflake.ID
	OldLevel int
	NewLevel int
	Removed  []string
	Added    string
}

type Notifier interface {
	LevelRolesChanged(ctx context.Context, change Change)
}

type Reconciler struct {
	guilds   platform.Guilds
	roles    RoleTable
	ladder   *Ladder
	notifier Notifier
}

func NewReconciler(guilds platform.Guilds, roles RoleTable, ladder *Ladder, notifier Notifier) *Reconciler {
	return &Reconciler{guilds: guilds, roles: roles, ladder: ladder, notifier: notifier}
}

// Reconcile makes newLevel's role the only Level role the member holds.
// A missing member is not an error. Missing permissions on individual role
// edits are logged and skipped; running again with the same levels is a no-op.
func (r *Reconciler) Reconcile(ctx context.Context, guildID, userID snowflake.ID, oldLevel, newLevel int) error {
	member, err := r.guilds.Member(ctx, guildID, userID)
	if errors.Is(err, platform.ErrNotFound) {
		slog.Info("Skipping level role sync for member no longer in guild",
			slog.String("type", "job"),
			slog.String("guild_id", guildID.String()),
			slog.String("user_id", userID.String()))
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolve member: %w", err)
	}

	var stale []registry.Class
	var staleIDs []snowflake.ID
	holdsTarget := false
	for _, roleID := range member.RoleIDs {
		class, err := r.roles.Classify(ctx, guildID, roleID)
		if err != nil {
			return fmt.Errorf("classify role %s: %w", roleID, err)
		}
		if class.Kind != registry.KindLevel {
			continue
		}
		if class.Level == newLevel {
			holdsTarget = true
			continue
		}
		stale = append(stale, class)
		staleIDs = append(staleIDs, roleID)
	}

	targetID, err := r.targetRole(ctx, guildID, newLevel)
	if err != nil {
		return err
	}
	if member.HasRole(targetID) {
		holdsTarget = true
	}

	change := Change{GuildID: guildID, UserID: userID, OldLevel: oldLevel, NewLevel: newLevel}
	reason := fmt.Sprintf("Level sync: %d -> %d", oldLevel, newLevel)

	for i, roleID := range staleIDs {
		err := r.guilds.RemoveMemberRole(ctx, guildID, userID, roleID, reason)
		switch {
		case err == nil:
			change.Removed = append(change.Removed, stale[i].Name)
		case errors.Is(err, platform.ErrNotFound):
			continue
		case errors.Is(err, platform.ErrMissingPermissions):
			logPermissionProblem("remove", guildID, userID, stale[i].Name)
		default:
			return fmt.Errorf("remove %s: %w", stale[i].Name, err)
		}
	}

	if !holdsTarget {
		err := r.guilds.AddMemberRole(ctx, guildID, userID, targetID, reason)
		switch {
		case err == nil:
			change.Added = leveling.RoleName(newLevel)
		case errors.Is(err, platform.ErrMissingPermissions):
			logPermissionProblem("add", guildID, userID, leveling.RoleName(newLevel))
		case errors.Is(err, platform.ErrNotFound):
			slog.Warn("Level role vanished before it could be assigned",
				slog.String("type", "job"),
				slog.String("guild_id", guildID.String()),
				slog.String("role", leveling.RoleName(newLevel)))
		default:
			return fmt.Errorf("add %s: %w", leveling.RoleName(newLevel), err)
		}
	}

	if len(change.Removed) > 0 || change.Added != "" {
		if r.notifier != nil {
			r.notifier.LevelRolesChanged(ctx, change)
		}
	}
	return nil
}

func (r *Reconciler) targetRole(ctx context.Context, guildID snowflake.ID, level int) (snowflake.ID, error) {
	id, ok, err := r.roles.LevelRole(ctx, guildID, level)
	if err != nil {
		return 0, fmt.Errorf("look up level role: %w", err)
	}
	if ok {
		return id, nil
	}
	if _, err := r.ladder.Ensure(ctx, guildID); err != nil {
		return 0, fmt.Errorf("create level roles: %w", err)
	}
	id, ok, err = r.roles.LevelRole(ctx, guildID, level)
	if err != nil {
		return 0, fmt.Errorf("look up level role: %w", err)
	}
	if !ok {
		return 0, fmt.Errorf("%s does not exist and could not be created", leveling.RoleName(level))
	}
	return id, nil
}

func logPermissionProblem(action string, guildID, userID snowflake.ID, role string) {
	slog.Error("Missing permissions to "+action+" level role",
		slog.String("type", "job"),
		slog.String("guild_id", guildID.String()),
		slog.String("user_id", userID.String()),
		slog.String("role", role),
		slog.String("hint", "give the bot Manage Roles and place its highest role above all Level roles"))
}
