package general

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/utils"
)

var QuestBot = discord.SlashCommandCreate{
	Name:        "questbot",
	Description: "Check if the bot is online",
	Contexts:    access.GuildOnly,
}

func QuestBotHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateInfoEmbed(e, "🤖 QuestBot is online! Version `"+b.Version+"`")
	}
}
