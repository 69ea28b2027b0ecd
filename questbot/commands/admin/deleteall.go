package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/quests"
	"github.com/questbot/questbot/questbot"
	"github.com/questbot/questbot/questbot/commands/access"
	"github.com/questbot/questbot/questbot/config"
	"github.com/questbot/questbot/questbot/utils"
)

var DeleteAllQuests = discord.SlashCommandCreate{
	Name:        "deleteallquests",
	Description: "Delete every quest in this server",
	Contexts:    access.GuildOnly,
}

func DeleteAllQuestsHandler(b *questbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !access.Has(e, discord.PermissionManageMessages) {
			return utils.EH.CreatePermissionError(e, "delete all quests")
		}
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}
		prompt, err := e.CreateFollowupMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "⚠️ Delete all quests?",
				Description: fmt.Sprintf("React with %s to confirm or %s to cancel. This expires in %d seconds.",
					quests.CompleteEmoji, quests.CancelEmoji, int(quests.ConfirmTimeout.Seconds())),
				Color: config.WarningColor,
			}},
		})
		if err != nil {
			return err
		}

		guildID, userID := *e.GuildID(), e.User().ID
		// The wait outlives the command deadline, so it runs on its own.
		go awaitDeleteAll(b, guildID, prompt, userID)
		return nil
	}
}

func awaitDeleteAll(b *questbot.Bot, guildID snowflake.ID, prompt *discord.Message, userID snowflake.ID) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Delete all quests panicked", slog.String("type", "error"), slog.Any("panic", r))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), quests.ConfirmTimeout+time.Minute)
	defer cancel()

	// Registered first so an answer arriving while the reactions are added counts.
	pending := b.Confirmations.Register(prompt.ID, userID)
	for _, emoji := range []string{quests.CompleteEmoji, quests.CancelEmoji} {
		if err := b.Platform.AddReaction(ctx, prompt.ChannelID, prompt.ID, emoji); err != nil {
			slog.Warn("Could not add confirmation reaction", slog.Any("error", err))
		}
	}

	confirmed, err := pending.Wait(ctx, quests.ConfirmTimeout)
	result := discord.Embed{Description: "❌ Cancelled, no quests were deleted", Color: config.ErrorColor}
	if err == nil && confirmed {
		n, derr := b.Quests.DeleteAll(ctx, guildID)
		if derr != nil {
			result = utils.ErrorEmbed(utils.SystemError, "Failed to delete quests")
		} else {
			result = discord.Embed{Description: fmt.Sprintf("✅ Deleted %d quests", n), Color: config.SuccessColor}
		}
	}

	if err := b.Platform.EditMessage(ctx, prompt.ChannelID, prompt.ID, discord.MessageUpdate{
		Embeds: &[]discord.Embed{result},
	}); err != nil {
		slog.Warn("Could not update confirmation prompt", slog.Any("error", err))
	}
}
