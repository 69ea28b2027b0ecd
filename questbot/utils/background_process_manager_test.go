package utils

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestBackgroundProcessManager_Shutdown(t *testing.T) {
	bpm := NewBackgroundProcessManager(context.Background())
	var stopped atomic.Int32
	for _, name := range []string{"queue", "web"} {
		bpm.StartProcess(name, "test", func(ctx context.Context) {
			<-ctx.Done()
			stopped.Add(1)
		})
	}

	if err := bpm.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if got := stopped.Load(); got != 2 {
		t.Errorf("stopped = %d, want 2", got)
	}
}

func TestBackgroundProcessManager_ShutdownTimeout(t *testing.T) {
	bpm := NewBackgroundProcessManager(context.Background())
	release := make(chan struct{})
	defer close(release)
	bpm.StartProcess("stuck", "ignores cancellation", func(context.Context) { <-release })

	if err := bpm.Shutdown(20 * time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() error = %v, want deadline exceeded", err)
	}
}

func TestBackgroundProcessManager_RecoversPanic(t *testing.T) {
	bpm := NewBackgroundProcessManager(context.Background())
	bpm.StartProcess("boom", "panics", func(context.Context) { panic("boom") })
	if err := bpm.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}
