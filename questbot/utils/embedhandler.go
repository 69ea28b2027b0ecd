package utils

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/questbot/questbot/questbot/config"
)

// ResponseHandler provides standardized responses for commands
type ResponseHandler struct{}

var EH = &ResponseHandler{}

type ErrorType int

const (
	UserError ErrorType = iota
	SystemError
	NotFoundError
	PermissionError
)

func (t ErrorType) prefix() string {
	switch t {
	case UserError:
		return "⚠️"
	case SystemError:
		return "🔧"
	case NotFoundError:
		return "🔍"
	case PermissionError:
		return "🚫"
	default:
		return "❌"
	}
}

func (t ErrorType) color() int {
	switch t {
	case UserError:
		return config.WarningColor
	case NotFoundError:
		return config.InfoColor
	default:
		return config.ErrorColor
	}
}

// ErrorEmbed builds the embed used for every failed command.
func ErrorEmbed(t ErrorType, message string) discord.Embed {
	return discord.Embed{
		Description: t.prefix() + " " + message,
		Color:       t.color(),
	}
}

func (h *ResponseHandler) CreateClassifiedError(event *handler.CommandEvent, t ErrorType, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{ErrorEmbed(t, message)},
		Flags:  discord.MessageFlagEphemeral,
	})
}

func (h *ResponseHandler) CreateUserError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, UserError, message)
}

// CreateSystemError reports an internal failure without leaking its details.
func (h *ResponseHandler) CreateSystemError(event *handler.CommandEvent, message string) error {
	return h.CreateClassifiedError(event, SystemError, message)
}

func (h *ResponseHandler) CreateNotFoundError(event *handler.CommandEvent, resource, identifier string) error {
	return h.CreateClassifiedError(event, NotFoundError, fmt.Sprintf("%s '%s' not found", resource, identifier))
}

func (h *ResponseHandler) CreatePermissionError(event *handler.CommandEvent, action string) error {
	return h.CreateClassifiedError(event, PermissionError, "You don't have permission to "+action)
}

func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: "✅ " + message,
			Color:       config.SuccessColor,
		}},
	})
}

func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       config.InfoColor,
		}},
	})
}

// FollowupError reports a failure after the interaction was deferred.
func (h *ResponseHandler) FollowupError(event *handler.CommandEvent, t ErrorType, message string) error {
	_, err := event.CreateFollowupMessage(discord.MessageCreate{
		Embeds: []discord.Embed{ErrorEmbed(t, message)},
		Flags:  discord.MessageFlagEphemeral,
	})
	return err
}

func (h *ResponseHandler) FollowupSuccess(event *handler.CommandEvent, message string) error {
	_, err := event.CreateFollowupMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: "✅ " + message,
			Color:       config.SuccessColor,
		}},
	})
	return err
}
