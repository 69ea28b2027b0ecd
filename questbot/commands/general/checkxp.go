package general

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

var CheckXP = discord.SlashCommandCreate{
	Name:        "checkxp",
	Description: "Check your XP or another member's XP",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "member",
			Description: "Member to check",
			Required:    false,
		},
	},
}

func CheckXPHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		target := e.User()
		if u, ok := e.SlashCommandInteractionData().OptUser("member"); ok {
			target = u
		}
		if target.Bot {
			return utils.EH.CreateUserError(e, "Bots don't earn XP")
		}

		bd, err := b.XP.Breakdown(ctx, *e.GuildID(), target.ID)
		if err != nil {
			return utils.EH.CreateSystemError(e, "Failed to load XP")
		}
		level := leveling.ResolveLevel(bd.TotalXP)

		embed := discord.NewEmbedBuilder().
			SetTitle(fmt.Sprintf("📊 XP for %s", target.EffectiveName())).
			SetThumbnail(target.EffectiveAvatarURL()).
			SetColor(config.InfoColor).
			AddField("Total XP", fmt.Sprint(bd.TotalXP), true).
			AddField("Level", fmt.Sprint(level), true).
			AddField("Quest/Base XP", fmt.Sprint(bd.BaseXP), true).
			AddField("Badge XP", fmt.Sprint(bd.BadgeXP), true).
			AddField("Streak XP", fmt.Sprint(bd.StreakXP), true)

		if next, ok := leveling.NextThreshold(level); ok {
			embed.AddField("XP to next level", fmt.Sprint(next-bd.TotalXP), true)
		} else {
			embed.AddField("XP to next level", "MAX LEVEL REACHED", true)
		}
		embed.AddField("Progress", utils.ProgressBar(bd.TotalXP), false)
		if !bd.Resolved {
			embed.SetFooter("Role XP unavailable, member could not be resolved", "")
		}

		return e.CreateMessage(discord.MessageCreate{Embeds: []discord.Embed{embed.Build()}})
	}
}
