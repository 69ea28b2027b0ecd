package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestCustomHandler(t *testing.T) {
	tests := []struct {
		name     string
		log      func(*slog.Logger)
		contains []string
		empty    bool
	}{
		{
			name: "command completion",
			log: func(l *slog.Logger) {
				l.Info("Command completed",
					slog.String("type", "cmd"),
					slog.String("name", "addxp"),
					slog.String("user_name", "mod"),
					slog.String("status", "success"),
					slog.Duration("took", 1500*time.Millisecond))
			},
			contains: []string{"[QuestBot]", "[CMD]", "[addxp by mod]", "[Status: success]", "took=1.5s"},
		},
		{
			name: "error with details",
			log: func(l *slog.Logger) {
				l.Error("Reconcile job gave up", slog.String("type", "job"), slog.Any("error", errors.New("boom")))
			},
			contains: []string{"[ERROR]", "[JOB]", "Reconcile job gave up", ": boom"},
		},
		{
			name:  "gateway noise",
			log:   func(l *slog.Logger) { l.Info("sending heartbeat") },
			empty: true,
		},
		{
			name:  "below level",
			log:   func(l *slog.Logger) { l.Debug("not shown") },
			empty: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := slog.New(New(Options{Level: slog.LevelInfo, Output: &buf}))
			tt.log(l)
			out := buf.String()
			if tt.empty {
				if out != "" {
					t.Errorf("expected no output, got %q", out)
				}
				return
			}
			for _, want := range tt.contains {
				if !strings.Contains(out, want) {
					t.Errorf("output %q missing %q", out, want)
				}
			}
		})
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := slog.New(New(Options{Format: "json", Output: &buf}))
	l.Info("hello", slog.String("type", "sys"))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if rec["msg"] != "hello" || rec["type"] != "sys" {
		t.Errorf("record = %v", rec)
	}
}
