package web

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

// requestLogger logs every request at a level chosen by its status code.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		level := slog.LevelDebug
		switch {
		case status >= 500:
			level = slog.LevelError
		case status >= 400:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			slog.String("type", "sys"),
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", status),
			slog.Duration("took", time.Since(start)),
			slog.String("ip", c.IP()),
		}
		if err != nil {
			attrs = append(attrs, slog.Any("error", err))
		}
		slog.LogAttrs(c.UserContext(), level, "HTTP request processed", attrs...)
		return err
	}
}
