package staff

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/quests"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

var AddQuest = discord.SlashCommandCreate{
	Name:        "addquest",
	Description: "Post a new quest",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "title",
			Description: "Quest title",
			Required:    true,
			MaxLength:   &[]int{200}[0],
		},
		discord.ApplicationCommandOptionString{
			Name:        "content",
			Description: "What members must do",
			Required:    true,
			MaxLength:   &[]int{2000}[0],
		},
	},
}

var RemoveQuest = discord.SlashCommandCreate{
	Name:        "removequest",
	Description: "Remove a quest",
	Contexts:    access.GuildOnly,
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:         "message_id",
			Description:  "Quest to remove",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func AddQuestHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Staff(b, e) {
			return utils.EH.CreatePermissionError(e, "post quests")
		}
		data := e.SlashCommandInteractionData()

		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		posted, err := b.Quests.Post(ctx, *e.GuildID(), e.ChannelID(), e.User().ID, data.String("title"), data.String("content"))
		if err != nil {
			slog.Error("Failed to post quest",
				slog.String("type", "cmd"),
				slog.String("name", "addquest"),
				slog.Any("error", err))
			return utils.EH.FollowupError(e, utils.SystemError, "Failed to post the quest")
		}

		msg := fmt.Sprintf("Quest posted in <#%s>", posted.ChannelID)
		if !posted.Pinged {
			msg += "\nNo quest ping role found. Set one with `/questping` or create a role named `Quests`."
		}
		return utils.EH.FollowupSuccess(e, msg)
	}
}

func RemoveQuestHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Staff(b, e) {
			return utils.EH.CreatePermissionError(e, "remove quests")
		}
		raw := strings.TrimSpace(e.SlashCommandInteractionData().String("message_id"))
		messageID, err := snowflake.Parse(raw)
		if err != nil {
			return utils.EH.CreateUserError(e, "Invalid message ID")
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		removed, err := b.Quests.Remove(ctx, *e.GuildID(), messageID)
		if err != nil {
			return utils.EH.CreateSystemError(e, "Failed to remove the quest")
		}
		if !removed {
			return utils.EH.CreateNotFoundError(e, "Quest", raw)
		}
		return utils.EH.CreateSuccessEmbed(e, "Quest removed")
	}
}

// RemoveQuestAutocomplete suggests quests by title.
func RemoveQuestAutocomplete(b *questbot.Bot) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) error {
		focused := e.Data.Focused()
		if focused.Name != "message_id" || e.GuildID() == nil {
			return e.AutocompleteResult(nil)
		}
		var query string
		if focused.Value != nil {
			_ = json.Unmarshal(focused.Value, &query)
		}

		ctx, cancel := context.WithTimeout(context.Background(), config.CommandExecutionTimeout)
		defer cancel()

		list, err := b.Quests.List(ctx, *e.GuildID())
		if err != nil {
			return err
		}
		found := quests.Search(list, query, config.MaxAutocompleteChoices)
		choices := make([]discord.AutocompleteChoice, 0, len(found))
		for _, q := range found {
			name := q.Title
			if r := []rune(name); len(r) > 100 {
				name = string(r[:97]) + "..."
			}
			choices = append(choices, discord.AutocompleteChoiceString{Name: name, Value: q.MessageID})
		}
		return e.AutocompleteResult(choices)
	}
}
