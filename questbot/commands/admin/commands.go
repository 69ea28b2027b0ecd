package admin

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	AssignBadgeXP,
	AssignStreakXP,
	UnassignRoleXP,
	CheckRoleXP,
	QuestPing,
	QuestChannel,
	CreateLevelRoles,
	AssignLevelRoles,
	ExportGuild,
	DeleteAllQuests,
}
