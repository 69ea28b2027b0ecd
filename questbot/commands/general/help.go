package general

import (
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
)

var Help = discord.SlashCommandCreate{
	Name:        "commands",
	Description: "List the bot's commands",
	Contexts:    access.GuildOnly,
}

var helpSections = []struct {
	title string
	lines []string
}{
	{"👤 Everyone", []string{
		"`/questbot` check that the bot is online",
		"`/checkxp [member]` XP breakdown and level progress",
		"`/leaderboard [limit]` top members by XP",
		"`/allquests` active quests",
	}},
	{"🛡️ Staff", []string{
		"`/addxp`, `/removexp`, `/setxp` edit XP in multiples of 5",
		"`/addquest` post a quest worth 50 XP",
		"`/removequest` remove a quest",
	}},
	{"⚙️ Manage Roles", []string{
		"`/assignbadgexp`, `/assignstreakxp` give a role XP",
		"`/unassignrolexp`, `/checkrolexp` manage role XP",
		"`/questping` role pinged for new quests",
		"`/createlevelroles`, `/assignlevelroles` maintain Level roles",
		"`/exportguild` upload a backup of this server's XP data",
	}},
	{"📌 Channels and messages", []string{
		"`/questchannel` where quests are posted (Manage Channels)",
		"`/deleteallquests` remove every quest (Manage Messages)",
	}},
}

func HelpHandler(_ *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		embed := discord.NewEmbedBuilder().
			SetTitle("📖 QuestBot Commands").
			SetColor(config.InfoColor)
		for _, s := range helpSections {
			embed.AddField(s.title, strings.Join(s.lines, "\n"), false)
		}
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{embed.Build()},
			Flags:  discord.MessageFlagEphemeral,
		})
	}
}
