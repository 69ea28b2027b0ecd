package general

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	QuestBot,
	CheckXP,
	Leaderboard,
	AllQuests,
	Help,
}
