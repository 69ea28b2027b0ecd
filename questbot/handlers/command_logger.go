package handlers

import (
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/questbot/config"
)

// WrapWithLogging wraps a command handler with logging, panic recovery and
// a completion deadline.
func WrapWithLogging(name string, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()
		user := e.User()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", user.ID.String()),
			slog.String("user_name", user.Username),
			slog.String("guild_id", guildID(e.GuildID())),
			slog.String("channel_id", e.ChannelID().String()),
		)

		done := make(chan error, 1)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Command panicked",
						slog.String("type", "error"),
						slog.String("name", name),
						slog.Any("panic", r),
						slog.String("stack", string(debug.Stack())))
					done <- fmt.Errorf("command %s panicked: %v", name, r)
				}
			}()
			done <- h(e)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)
			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", user.ID.String()),
				slog.String("user_name", user.Username),
				slog.Duration("took", duration),
			}
			switch {
			case err != nil:
				slog.Error("Command failed", append(attrs,
					slog.Any("error", err),
					slog.String("status", "failed"),
				)...)
			case duration > config.SlowCommandThreshold:
				slog.Warn("Command executed slowly", append(attrs,
					slog.String("status", "slow"),
				)...)
			default:
				slog.Info("Command completed", append(attrs,
					slog.String("status", "success"),
				)...)
			}
			return err

		case <-time.After(config.CommandExecutionTimeout):
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", user.ID.String()),
				slog.String("user_name", user.Username),
				slog.String("status", "timeout"),
				slog.Duration("timeout", config.CommandExecutionTimeout),
			)
			return fmt.Errorf("command timed out after %s", config.CommandExecutionTimeout)
		}
	}
}

// WrapAutocompleteWithLogging only reports failures; autocomplete fires on
// every keystroke.
func WrapAutocompleteWithLogging(name string, h handler.AutocompleteHandler) handler.AutocompleteHandler {
	return func(e *handler.AutocompleteEvent) (err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("autocomplete %s panicked: %v", name, r)
			}
			if err != nil {
				slog.Error("Autocomplete failed",
					slog.String("type", "cmd"),
					slog.String("name", name),
					slog.String("status", "failed"),
					slog.Duration("took", time.Since(start)),
					slog.Any("error", err))
			}
		}()
		return h(e)
	}
}

func guildID(id *snowflake.ID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
