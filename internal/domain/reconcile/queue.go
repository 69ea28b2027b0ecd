package reconcile

import (
	"context"
	"errors"
	"hash/fnv"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/platform"
)

const (
	DefaultWorkers   = 4
	DefaultShardSize = 256
	DefaultAttempts  = 5
)

// LevelSource settles and returns a member's current level.
type LevelSource interface {
	SettleLevel(ctx context.Context, guildID, userID snowflake.ID) (int, error)
}

type Runner interface {
	Reconcile(ctx context.Context, guildID, userID snowflake.ID, oldLevel, newLevel int) error
}

type QueueConfig struct {
	Workers     int
	ShardSize   int
	MaxAttempts int
	// JobTimeout bounds a single attempt.
	JobTimeout time.Duration
}

// Queue runs reconciliation jobs off the request path. Jobs for one member
// always land on the same shard so they run in order.
type Queue struct {
	shards  []chan Job
	levels  LevelSource
	runner  Runner
	cfg     QueueConfig
	pending atomic.Int64
	dropped atomic.Int64
}

func NewQueue(cfg QueueConfig, levels LevelSource, runner Runner) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.ShardSize <= 0 {
		cfg.ShardSize = DefaultShardSize
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultAttempts
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = 30 * time.Second
	}
	shards := make([]chan Job, cfg.Workers)
	for i := range shards {
		shards[i] = make(chan Job, cfg.ShardSize)
	}
	return &Queue{shards: shards, levels: levels, runner: runner, cfg: cfg}
}

// SetLevelSource wires the level source after construction, since the
// service that settles levels also enqueues into this queue.
func (q *Queue) SetLevelSource(levels LevelSource) {
	q.levels = levels
}

// Enqueue never blocks. It reports false when the member's shard is full.
func (q *Queue) Enqueue(job Job) bool {
	select {
	case q.shards[q.shard(job.GuildID, job.UserID)] <- job:
		q.pending.Add(1)
		return true
	default:
		q.dropped.Add(1)
		return false
	}
}

func (q *Queue) Depth() int {
	return int(q.pending.Load())
}

func (q *Queue) Dropped() int {
	return int(q.dropped.Load())
}

// Run drains every shard until ctx is cancelled.
func (q *Queue) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i, shard := range q.shards {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.work(ctx, i, shard)
		}()
	}
	wg.Wait()
}

func (q *Queue) work(ctx context.Context, worker int, jobs <-chan Job) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-jobs:
			q.process(ctx, worker, job)
			q.pending.Add(-1)
		}
	}
}

func (q *Queue) process(ctx context.Context, worker int, job Job) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Reconcile job panicked",
				slog.String("type", "job"),
				slog.String("job_id", job.ID),
				slog.Any("panic", r))
		}
	}()

	start := time.Now()
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		job.Attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, q.cfg.JobTimeout)
		defer cancel()

		err := q.attempt(attemptCtx, &job)
		if err != nil && (platform.IsPermanent(err) || errors.Is(err, context.Canceled)) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	},
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(q.cfg.MaxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			slog.Warn("Reconcile job failed, retrying",
				slog.String("type", "job"),
				slog.String("job_id", job.ID),
				slog.Int("attempt", job.Attempt),
				slog.Duration("retry_in", next),
				slog.Any("error", err))
		}),
	)

	status := "success"
	if err != nil {
		status = "failed"
		slog.Error("Reconcile job gave up",
			slog.String("type", "job"),
			slog.String("job_id", job.ID),
			slog.String("guild_id", job.GuildID.String()),
			slog.String("user_id", job.UserID.String()),
			slog.Int("attempts", job.Attempt),
			slog.Any("error", err))
	}
	slog.Debug("Reconcile job finished",
		slog.String("type", "job"),
		slog.Int("worker", worker),
		slog.String("job_id", job.ID),
		slog.String("reason", job.Reason),
		slog.Duration("queued", start.Sub(job.EnqueuedAt)),
		slog.Duration("took", time.Since(start)),
		slog.String("status", status))
}

// attempt acts on the level the member has now, not the one captured at
// enqueue time.
func (q *Queue) attempt(ctx context.Context, job *Job) error {
	target := job.NewLevel
	if q.levels != nil {
		level, err := q.levels.SettleLevel(ctx, job.GuildID, job.UserID)
		if err != nil {
			return err
		}
		target = level
	}
	return q.runner.Reconcile(ctx, job.GuildID, job.UserID, job.OldLevel, target)
}

func (q *Queue) shard(guildID, userID snowflake.ID) int {
	h := fnv.New32a()
	var buf [16]byte
	g, u := uint64(guildID), uint64(userID)
	for i := 0; i < 8; i++ {
		buf[i] = byte(g >> (8 * i))
		buf[8+i] = byte(u >> (8 * i))
	}
	_, _ = h.Write(buf[:])
	return int(h.Sum32() % uint32(len(q.shards)))
}
