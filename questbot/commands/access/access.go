// Package access decides who may run moderation commands.
package access

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/utils"
)

// GuildOnly lists the single context every command is registered for.
var GuildOnly = []discord.InteractionContextType{discord.InteractionContextTypeGuild}

// Staff reports whether the invoking member holds a staff role or Manage Roles.
func Staff(b *questbot.Bot, e *handler.CommandEvent) bool {
	m := e.Member()
	if m == nil {
		return false
	}
	return utils.IsStaff(roleNames(b, e, m.RoleIDs), m.Permissions)
}

// Has reports whether the invoking member holds perm.
func Has(e *handler.CommandEvent, perm discord.Permissions) bool {
	m := e.Member()
	if m == nil {
		return false
	}
	return utils.HasPermission(m.Permissions, perm)
}

func roleNames(b *questbot.Bot, e *handler.CommandEvent, ids []snowflake.ID) []string {
	guildID := e.GuildID()
	if guildID == nil {
		return nil
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if r, ok := b.Client.Caches().Role(*guildID, id); ok {
			names = append(names, r.Name)
		}
	}
	return names
}
