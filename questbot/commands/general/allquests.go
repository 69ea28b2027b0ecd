package general

import (
	"context"
	"fmt"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/questbot/questbot/internal/domain/quests"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

var AllQuests = discord.SlashCommandCreate{
	Name:        "allquests",
	Description: "List every active quest",
	Contexts:    access.GuildOnly,
}

func AllQuestsHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		list, err := b.Quests.List(ctx, *e.GuildID())
		if err != nil {
			return utils.EH.CreateSystemError(e, "Failed to load quests")
		}
		if len(list) == 0 {
			return utils.EH.CreateInfoEmbed(e, "📭 There are no active quests right now.")
		}

		pages := (len(list) + config.QuestsPerPage - 1) / config.QuestsPerPage
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * config.QuestsPerPage
				end := min(start+config.QuestsPerPage, len(list))

				var sb strings.Builder
				for _, q := range list[start:end] {
					fmt.Fprintf(&sb, "🎯 [%s](%s) • %d completed\n", q.Title, quests.JumpURL(q), len(q.Completions))
				}
				embed.
					SetTitle("📜 Active Quests").
					SetDescription(sb.String()).
					SetColor(config.QuestColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d quests • React with %s on a quest to complete it", page+1, pages, len(list), quests.CompleteEmoji), "")
			},
			Pages:      pages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
