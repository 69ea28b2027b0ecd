package admin

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

var ExportGuild = discord.SlashCommandCreate{
	Name:        "exportguild",
	Description: "Upload a JSON backup of this server's XP, roles and quests",
	Contexts:    access.GuildOnly,
}

func ExportGuildHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageRoles) {
			return utils.EH.CreatePermissionError(e, "export server data")
		}
		if b.Exporter == nil {
			return utils.EH.CreateUserError(e, "Backups are not configured for this bot")
		}
		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.ExportTimeout)
		defer cancel()

		key, err := b.Exporter.Export(ctx, *e.GuildID())
		if err != nil {
			return utils.EH.FollowupError(e, utils.SystemError, "Failed to export server data")
		}
		return utils.EH.FollowupSuccess(e, "Backup uploaded as `"+key+"`")
	}
}
