package admin

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

var QuestPing = discord.SlashCommandCreate{
	Name:        "questping",
	Description: "Set the role pinged when a quest is posted",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionRole{Name: "role", Description: "Role to ping", Required: true},
	},
}

var QuestChannel = discord.SlashCommandCreate{
	Name:        "questchannel",
	Description: "Set the channel quests are posted in",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:         "channel",
			Description:  "Quest channel",
			Required:     true,
			ChannelTypes: []discord.ChannelType{discord.ChannelTypeGuildText, discord.ChannelTypeGuildNews},
		},
	},
}

func QuestPingHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageRoles) {
			return utils.EH.CreatePermissionError(e, "set the quest ping role")
		}
		role := e.SlashCommandInteractionData().Role("role")

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		if err := b.Registry.SetQuestPingRole(ctx, *e.GuildID(), role.ID); err != nil {
			return utils.EH.CreateSystemError(e, "Failed to save the quest ping role")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("New quests will ping %s", role.Mention()))
	}
}

func QuestChannelHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageChannels) {
			return utils.EH.CreatePermissionError(e, "set the quest channel")
		}
		channel := e.SlashCommandInteractionData().Channel("channel")

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		if err := b.Registry.SetQuestChannel(ctx, *e.GuildID(), channel.ID); err != nil {
			return utils.EH.CreateSystemError(e, "Failed to save the quest channel")
		}
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("Quests will be posted in <#%s>", channel.ID))
	}
}
