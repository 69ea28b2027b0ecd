// Package web serves the keep-alive and health endpoints.
package web

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type QueueStats interface {
	Depth() int
	Dropped() int
}

type Health struct {
	Status     string `json:"status"`
	Database   string `json:"database"`
	QueueDepth int    `json:"queue_depth"`
	Dropped    int    `json:"queue_dropped"`
	Uptime     string `json:"uptime"`
}

type Server struct {
	app     *fiber.App
	addr    string
	db      Pinger
	queue   QueueStats
	started time.Time
}

func New(addr string, db Pinger, queue QueueStats) *Server {
	s := &Server{
		app:     fiber.New(fiber.Config{DisableStartupMessage: true}),
		addr:    addr,
		db:      db,
		queue:   queue,
		started: time.Now(),
	}
	s.app.Use(recover.New(), requestLogger())
	s.app.Get("/", s.alive)
	s.app.Get("/health", s.health)
	return s
}

func (s *Server) alive(c *fiber.Ctx) error {
	return c.SendString("QuestBot is alive")
}

func (s *Server) health(c *fiber.Ctx) error {
	h := Health{Status: "ok", Database: "ok", Uptime: time.Since(s.started).Round(time.Second).String()}
	if s.queue != nil {
		h.QueueDepth = s.queue.Depth()
		h.Dropped = s.queue.Dropped()
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()
	if err := s.db.Ping(ctx); err != nil {
		h.Status = "degraded"
		h.Database = err.Error()
		return c.Status(fiber.StatusServiceUnavailable).JSON(h)
	}
	return c.JSON(h)
}

// Run listens until ctx is cancelled.
func (s *Server) Run(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Warn("Web server shutdown failed", slog.Any("error", err))
		}
	}()

	slog.Info("Web server listening", slog.String("type", "sys"), slog.String("addr", s.addr))
	if err := s.app.Listen(s.addr); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Web server stopped", slog.String("type", "sys"), slog.Any("error", err))
	}
}

// App exposes the fiber app for in-process requests.
func (s *Server) App() *fiber.App {
	return s.app
}
