package general

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "Show the top members by total XP",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "limit",
			Description: "How many members to list",
			Required:    false,
			MinValue:    &[]int{1}[0],
			MaxValue:    &[]int{config.LeaderboardMaxLimit}[0],
		},
	},
}

func LeaderboardHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		limit := config.LeaderboardDefaultLimit
		if n, ok := e.SlashCommandInteractionData().OptInt("limit"); ok {
			limit = n
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		standings, err := b.XP.Leaderboard(ctx, *e.GuildID(), limit)
		if err != nil {
			return utils.EH.CreateSystemError(e, "Failed to load the leaderboard")
		}
		if len(standings) == 0 {
			return utils.EH.CreateClassifiedError(e, utils.NotFoundError, "Nobody has earned XP yet")
		}

		requirements := levelRequirements()
		pages := (len(standings) + config.LeaderboardPageSize - 1) / config.LeaderboardPageSize

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * config.LeaderboardPageSize
				end := min(start+config.LeaderboardPageSize, len(standings))

				var sb strings.Builder
				for _, s := range standings[start:end] {
					fmt.Fprintf(&sb, "%s <@%s> • **%d XP** (Level %d)\n", utils.Medal(s.Rank), s.UserID, s.TotalXP, s.Level)
				}
				embed.
					SetTitle("🏆 XP Leaderboard").
					SetDescription(sb.String()).
					SetColor(config.LevelUpColor).
					SetFields(discord.EmbedField{Name: "Level Requirements", Value: requirements}).
					SetFooter(fmt.Sprintf("Page %d/%d", page+1, pages), "")
			},
			Pages:      pages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

func levelRequirements() string {
	var sb strings.Builder
	sb.WriteString("```\n")
	for level := leveling.MinLevel; level <= leveling.MaxLevel; level++ {
		fmt.Fprintf(&sb, "Level %-2d %6d XP\n", level, leveling.Threshold(level))
	}
	sb.WriteString("```")
	return sb.String()
}
