package utils

import (
	"strings"

	"github.com/disgoorg/disgo/discord"

	"github.com/questbot/questbot/questbot/config"
)

// IsStaff reports whether a member may run moderation commands: a role
// named like one of config.StaffRoleNames, Manage Roles, or Administrator.
func IsStaff(roleNames []string, perms discord.Permissions) bool {
	if perms.Has(discord.PermissionAdministrator) || perms.Has(discord.PermissionManageRoles) {
		return true
	}
	for _, name := range roleNames {
		for _, staff := range config.StaffRoleNames {
			if strings.EqualFold(name, staff) {
				return true
			}
		}
	}
	return false
}

// HasPermission treats Administrator as holding every permission.
func HasPermission(perms, want discord.Permissions) bool {
	return perms.Has(discord.PermissionAdministrator) || perms.Has(want)
}
