package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
	TypeEvent   LogType = "EVT"
	TypeJob     LogType = "JOB"
)

// Options configure New.
type Options struct {
	Level     slog.Leveler
	Format    string // "text" or "json"
	AddSource bool
	Output    io.Writer
}

// New returns the process log handler: the colored console handler, or a
// JSON handler when opts.Format is "json".
func New(opts Options) slog.Handler {
	if opts.Level == nil {
		opts.Level = slog.LevelInfo
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Format == "json" {
		return slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource})
	}
	return &CustomHandler{
		opts: &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource},
		out:  opts.Output,
		mu:   &sync.Mutex{},
	}
}

type CustomHandler struct {
	opts   *slog.HandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	attrs  []slog.Attr
	groups []string
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &c
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.groups = append(append([]string{}, h.groups...), name)
	return &c
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if shouldSkipLog(&r) {
		return nil
	}

	levelColor, levelText := levelStyle(r.Level)
	fields := collect(&r, h.attrs)

	message := r.Message
	if r.Level >= slog.LevelError {
		if loc := fields.location; loc != "" {
			message = fmt.Sprintf("%s (%s)", message, loc)
		} else if h.opts.AddSource && r.PC != 0 {
			frames := runtime.CallersFrames([]uintptr{r.PC})
			f, _ := frames.Next()
			message = fmt.Sprintf("%s (%s:%d)", message, filepath.Base(f.File), f.Line)
		}
		if fields.err != "" {
			message = fmt.Sprintf("%s: %s", message, fields.err)
		}
	}
	if fields.name != "" && fields.user != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, fields.name, fields.user)
	}
	if fields.status != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, fields.status)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s[QuestBot] [%s] [%s%s%s] [%s] %s",
		colorWhite,
		r.Time.Format("15:04:05"),
		levelColor,
		levelText,
		colorWhite,
		fields.logType,
		message,
	)
	prefix := strings.Join(h.groups, ".")
	for _, a := range fields.rest {
		key := a.Key
		if prefix != "" {
			key = prefix + "." + key
		}
		fmt.Fprintf(&b, " %s=%v", key, a.Value)
	}
	b.WriteString(colorReset)
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	default:
		return colorPurple, "DEBUG"
	}
}

type recordFields struct {
	logType  LogType
	name     string
	user     string
	status   string
	err      string
	location string
	rest     []slog.Attr
}

func collect(r *slog.Record, base []slog.Attr) recordFields {
	f := recordFields{logType: TypeSystem}
	visit := func(a slog.Attr) bool {
		switch a.Key {
		case "type":
			f.logType = logTypeOf(a.Value.String())
		case "name":
			f.name = a.Value.String()
		case "user_name":
			f.user = a.Value.String()
		case "status":
			f.status = a.Value.String()
		case "error":
			f.err = fmt.Sprintf("%v", a.Value.Any())
		case "error_location":
			f.location = a.Value.String()
		case "took":
			f.rest = append(f.rest, slog.String("took", a.Value.Duration().Round(time.Millisecond).String()))
		default:
			f.rest = append(f.rest, a)
		}
		return true
	}
	for _, a := range base {
		visit(a)
	}
	r.Attrs(visit)
	return f
}

func logTypeOf(v string) LogType {
	switch v {
	case "cmd", "component":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	case "event":
		return TypeEvent
	case "job":
		return TypeJob
	default:
		return TypeSystem
	}
}

// Gateway chatter disgo logs at debug level.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"opening gateway connection",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

func shouldSkipLog(r *slog.Record) bool {
	msg := strings.ToLower(r.Message)
	for _, skip := range skippedMessages {
		if strings.Contains(msg, skip) {
			return true
		}
	}
	return false
}
