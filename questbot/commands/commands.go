package commands

import (
	"github.com/disgoorg/disgo/discord"

	"github.com/questbot/questbot/questbot/commands/admin"
	"github.com/questbot/questbot/questbot/commands/general"
	"github.com/questbot/questbot/questbot/commands/staff"
)

var Commands = []discord.ApplicationCommandCreate{}

func init() {
	Commands = append(Commands, general.Commands...)
	Commands = append(Commands, staff.Commands...)
	Commands = append(Commands, admin.Commands...)
}
