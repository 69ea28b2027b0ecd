package staff

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	AddXP,
	RemoveXP,
	SetXP,
	AddQuest,
	RemoveQuest,
}
