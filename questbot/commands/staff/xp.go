package staff

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/internal/domain/xp"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

func xpOptions(amountDescription string) []discord.ApplicationCommandOption {
	return []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "member",
			Description: "Member whose XP changes",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: amountDescription,
			Required:    true,
		},
	}
}

var AddXP = discord.SlashCommandCreate{
	Name:        "addxp",
	Description: "Add XP to a member",
	Contexts:    access.GuildOnly,
	Options:     xpOptions("XP to add (multiple of 5)"),
}

var RemoveXP = discord.SlashCommandCreate{
	Name:        "removexp",
	Description: "Remove XP from a member",
	Contexts:    access.GuildOnly,
	Options:     xpOptions("XP to remove (multiple of 5)"),
}

var SetXP = discord.SlashCommandCreate{
	Name:        "setxp",
	Description: "Set a member's base XP",
	Contexts:    access.GuildOnly,
	Options:     xpOptions("New base XP (multiple of 5)"),
}

type xpEdit int

const (
	editAdd xpEdit = iota
	editRemove
	editSet
)

func AddXPHandler(b *questbot.Bot) handler.CommandHandler    { return xpHandler(b, editAdd) }
func RemoveXPHandler(b *questbot.Bot) handler.CommandHandler { return xpHandler(b, editRemove) }
func SetXPHandler(b *questbot.Bot) handler.CommandHandler    { return xpHandler(b, editSet) }

func xpHandler(b *questbot.Bot, kind xpEdit) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Staff(b, e) {
			return utils.EH.CreatePermissionError(e, "edit XP")
		}
		data := e.SlashCommandInteractionData()
		target := data.User("member")
		amount := data.Int("amount")

		if target.Bot {
			return utils.EH.CreateUserError(e, "Bots don't earn XP")
		}
		if err := utils.ValidateXPAmount(amount, b.Cfg.Leveling.XPStep, kind == editSet); err != nil {
			return utils.EH.CreateUserError(e, err.Error())
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		guildID := *e.GuildID()
		reason := fmt.Sprintf("/%s by %s", data.CommandName(), e.User().Username)
		var (
			res    xp.Result
			err    error
			action string
		)
		switch kind {
		case editAdd:
			res, err = b.XP.ApplyXPDelta(ctx, guildID, target.ID, amount, reason)
			action = fmt.Sprintf("Added %d XP to %s", amount, target.Mention())
		case editRemove:
			res, err = b.XP.ApplyXPDelta(ctx, guildID, target.ID, -amount, reason)
			action = fmt.Sprintf("Removed %d XP from %s", amount, target.Mention())
		case editSet:
			res, err = b.XP.SetBaseXP(ctx, guildID, target.ID, amount, reason)
			action = fmt.Sprintf("Set %s's base XP to %d", target.Mention(), amount)
		}
		if errors.Is(err, xp.ErrNotSettled) {
			return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("%s\nBase XP: **%d**. The level will update shortly.", action, res.BaseXP))
		}
		if err != nil {
			return utils.EH.CreateSystemError(e, "Failed to update XP")
		}

		msg := fmt.Sprintf("%s\nTotal XP: **%d** • Level **%d**", action, res.TotalXP, res.NewLevel)
		if res.LevelChanged() {
			msg += fmt.Sprintf("\nLevel changed: %d → %d", res.OldLevel, res.NewLevel)
		}
		return utils.EH.CreateSuccessEmbed(e, msg)
	}
}
