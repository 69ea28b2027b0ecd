package utils

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// BackgroundProcessManager runs the bot's long-lived goroutines (the reconcile
// queue, the web server) and stops them together on shutdown.
type BackgroundProcessManager struct {
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	processes map[string]context.CancelFunc
}

func NewBackgroundProcessManager(parent context.Context) *BackgroundProcessManager {
	ctx, cancel := context.WithCancel(parent)
	return &BackgroundProcessManager{
		ctx:       ctx,
		cancel:    cancel,
		processes: make(map[string]context.CancelFunc),
	}
}

// StartProcess runs fn in its own goroutine. A process already registered
// under name is stopped first.
func (bpm *BackgroundProcessManager) StartProcess(name, description string, fn func(ctx context.Context)) {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()

	if stop, ok := bpm.processes[name]; ok {
		slog.Warn("Process already exists, stopping existing one",
			slog.String("type", "sys"),
			slog.String("process", name))
		stop()
	}

	ctx, cancel := context.WithCancel(bpm.ctx)
	bpm.processes[name] = cancel

	bpm.wg.Add(1)
	go func() {
		defer bpm.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Background process panic",
					slog.String("type", "error"),
					slog.String("process", name),
					slog.Any("panic", r))
			}
		}()

		slog.Info("Starting background process",
			slog.String("type", "sys"),
			slog.String("process", name),
			slog.String("description", description))
		fn(ctx)
		slog.Info("Background process ended",
			slog.String("type", "sys"),
			slog.String("process", name))
	}()
}

func (bpm *BackgroundProcessManager) Running() int {
	bpm.mu.Lock()
	defer bpm.mu.Unlock()
	return len(bpm.processes)
}

// Shutdown cancels every process and waits up to timeout for them to return.
func (bpm *BackgroundProcessManager) Shutdown(timeout time.Duration) error {
	slog.Info("Shutting down background processes",
		slog.String("type", "sys"),
		slog.Int("process_count", bpm.Running()))

	bpm.cancel()

	done := make(chan struct{})
	go func() {
		bpm.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("All background processes stopped gracefully", slog.String("type", "sys"))
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background processes to stop",
			slog.String("type", "sys"),
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}
