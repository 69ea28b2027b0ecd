package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/utils"
)

const resyncTimeout = 2 * time.Minute

var CreateLevelRoles = discord.SlashCommandCreate{
	Name:        "createlevelroles",
	Description: "Create any missing Level 1 to Level 10 roles",
	Contexts:    access.GuildOnly,
}

var AssignLevelRoles = discord.SlashCommandCreate{
	Name:        "assignlevelroles",
	Description: "Recompute every member's level and fix their level roles",
	Contexts:    access.GuildOnly,
}

func CreateLevelRolesHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageRoles) {
			return utils.EH.CreatePermissionError(e, "create level roles")
		}
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
		defer cancel()

		created, err := b.Ladder.Ensure(ctx, *e.GuildID())
		if errors.Is(err, platform.ErrMissingPermissions) {
			return utils.EH.FollowupError(e, utils.PermissionError,
				"I need the Manage Roles permission, and my role must sit above the Level roles")
		}
		if err != nil {
			return utils.EH.FollowupError(e, utils.SystemError, "Failed to create level roles")
		}
		if len(created) == 0 {
			return utils.EH.FollowupSuccess(e, "All level roles already exist")
		}
		return utils.EH.FollowupSuccess(e, "Created "+strings.Join(created, ", "))
	}
}

func AssignLevelRolesHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageRoles) {
			return utils.EH.CreatePermissionError(e, "assign level roles")
		}
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), resyncTimeout)
		defer cancel()

		queued, err := b.XP.ResyncGuild(ctx, *e.GuildID())
		if err != nil {
			return utils.EH.FollowupError(e, utils.SystemError, "Failed to recompute levels")
		}
		return utils.EH.FollowupSuccess(e, fmt.Sprintf("Queued level role updates for **%d** members", queued))
	}
}
