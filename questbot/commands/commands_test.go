package commands

import (
	"regexp"
	"testing"

	"github.com/disgoorg/disgo/discord"
)

var commandName = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

func TestCommandsAreValid(t *testing.T) {
	want := []string{
		"questbot", "checkxp", "leaderboard", "allquests", "commands",
		"addxp", "removexp", "setxp", "addquest", "removequest",
		"assignbadgexp", "assignstreakxp", "unassignrolexp", "checkrolexp",
		"questping", "questchannel", "createlevelroles", "assignlevelroles",
		"exportguild", "deleteallquests",
	}

	seen := map[string]bool{}
	for _, c := range Commands {
		slash, ok := c.(discord.SlashCommandCreate)
		if !ok {
			t.Errorf("%s is not a slash command", c.CommandName())
			continue
		}
		if !commandName.MatchString(slash.Name) {
			t.Errorf("invalid command name %q", slash.Name)
		}
		if l := len(slash.Description); l == 0 || l > 100 {
			t.Errorf("%s: description length %d", slash.Name, l)
		}
		if len(slash.Contexts) != 1 || slash.Contexts[0] != discord.InteractionContextTypeGuild {
			t.Errorf("%s must be guild only", slash.Name)
		}
		if seen[slash.Name] {
			t.Errorf("duplicate command %s", slash.Name)
		}
		seen[slash.Name] = true
	}
	for _, name := range want {
		if !seen[name] {
			t.Errorf("missing command %s", name)
		}
	}
}
