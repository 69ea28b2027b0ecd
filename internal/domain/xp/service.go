// Package xp derives total XP and levels from the ledger and a member's roles.
package xp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/internal/domain/reconcile"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/gateways/database/models"
	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/internal/retry"
)

const leaderboardConcurrency = 8

// ErrNotSettled means a write was stored but the level could not be
// recomputed. The write must not be repeated; the level settles on the next
// change or resync.
var ErrNotSettled = errors.New("xp stored, level not recomputed")

type Ledger interface {
	GetOrCreate(ctx context.Context, guildID, userID snowflake.ID) (*models.UserXP, error)
	AddBaseXP(ctx context.Context, guildID, userID snowflake.ID, delta int) (*models.UserXP, error)
	SetLevel(ctx context.Context, guildID, userID snowflake.ID, level int) error
	ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.UserXP, error)
}

type StreakLog interface {
	Record(ctx context.Context, gain *models.StreakRoleGain) error
	Total(ctx context.Context, guildID, userID snowflake.ID) (int, error)
	TotalsByGuild(ctx context.Context, guildID snowflake.ID) (map[snowflake.ID]int, error)
}

type Members interface {
	Member(ctx context.Context, guildID, userID snowflake.ID) (platform.Member, error)
}

type Classifier interface {
	Classify(ctx context.Context, guildID, roleID snowflake.ID) (registry.Class, error)
}

type Enqueuer interface {
	Enqueue(job reconcile.Job) bool
}

// Breakdown splits a member's total XP by source.
type Breakdown struct {
	BaseXP   int
	BadgeXP  int
	StreakXP int
	TotalXP  int
	// LevelRoleXP is the threshold of the highest Level role held. It is
	// informational and never part of TotalXP.
	LevelRoleXP int
	Resolved    bool
}

// Result describes the state after an XP change.
type Result struct {
	GuildID  snowflake.ID
	UserID   snowflake.ID
	BaseXP   int
	TotalXP  int
	OldLevel int
	NewLevel int
}

func (r Result) LevelChanged() bool {
	return r.OldLevel != r.NewLevel
}

type Standing struct {
	Rank    int
	UserID  snowflake.ID
	TotalXP int
	Level   int
}

type Service struct {
	ledger  Ledger
	streaks StreakLog
	members Members
	roles   Classifier
	queue   Enqueuer
}

func NewService(ledger Ledger, streaks StreakLog, members Members, roles Classifier, queue Enqueuer) *Service {
	return &Service{
		ledger:  ledger,
		streaks: streaks,
		members: members,
		roles:   roles,
		queue:   queue,
	}
}

// ComputeTotalXP returns base XP plus held badge XP plus accumulated streak XP.
func (s *Service) ComputeTotalXP(ctx context.Context, guildID, userID snowflake.ID) (int, error) {
	b, err := s.Breakdown(ctx, guildID, userID)
	if err != nil {
		return 0, err
	}
	return b.TotalXP, nil
}

func (s *Service) GetUserLevel(ctx context.Context, guildID, userID snowflake.ID) (int, error) {
	total, err := s.ComputeTotalXP(ctx, guildID, userID)
	if err != nil {
		return 0, err
	}
	return leveling.ResolveLevel(total), nil
}

func (s *Service) Breakdown(ctx context.Context, guildID, userID snowflake.ID) (Breakdown, error) {
	rec, err := retry.Storage(ctx, "get_user_xp", func(ctx context.Context) (*models.UserXP, error) {
		return s.ledger.GetOrCreate(ctx, guildID, userID)
	})
	if err != nil {
		return Breakdown{}, fmt.Errorf("read ledger: %w", err)
	}
	return s.breakdown(ctx, guildID, userID, rec.BaseXP)
}

func (s *Service) breakdown(ctx context.Context, guildID, userID snowflake.ID, base int) (Breakdown, error) {
	b := Breakdown{BaseXP: base, TotalXP: base}
	if !s.addRoleXP(ctx, guildID, userID, &b) {
		return b, nil
	}

	streak, err := retry.Storage(ctx, "sum_streak_xp", func(ctx context.Context) (int, error) {
		return s.streaks.Total(ctx, guildID, userID)
	})
	if err != nil {
		return Breakdown{}, fmt.Errorf("sum streak xp: %w", err)
	}
	b.StreakXP = streak
	b.TotalXP = max(0, b.BaseXP+b.BadgeXP+b.StreakXP)
	return b, nil
}

// guildBreakdown is breakdown with the streak sum taken from totals fetched
// once for the whole guild.
func (s *Service) guildBreakdown(ctx context.Context, guildID, userID snowflake.ID, base int, streaks map[snowflake.ID]int) Breakdown {
	b := Breakdown{BaseXP: base, TotalXP: base}
	if !s.addRoleXP(ctx, guildID, userID, &b) {
		return b
	}
	b.StreakXP = streaks[userID]
	b.TotalXP = max(0, b.BaseXP+b.BadgeXP+b.StreakXP)
	return b
}

// addRoleXP adds held role XP to b and reports whether the member resolved.
func (s *Service) addRoleXP(ctx context.Context, guildID, userID snowflake.ID, b *Breakdown) bool {
	member, err := s.members.Member(ctx, guildID, userID)
	if err != nil {
		slog.Warn("Member not resolvable, using base XP only",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID.String()),
			slog.String("user_id", userID.String()),
			slog.Any("error", err))
		return false
	}
	b.Resolved = true

	for _, roleID := range member.RoleIDs {
		class, err := s.roles.Classify(ctx, guildID, roleID)
		if err != nil {
			slog.Warn("Could not classify role",
				slog.String("guild_id", guildID.String()),
				slog.String("role_id", roleID.String()),
				slog.Any("error", err))
			continue
		}
		b.BadgeXP += class.HeldXP()
		if class.Kind == registry.KindLevel {
			b.LevelRoleXP = max(b.LevelRoleXP, leveling.Threshold(class.Level))
		}
	}
	return true
}

// ApplyXPDelta adds delta to base XP, clamped at zero, and re-derives the level.
func (s *Service) ApplyXPDelta(ctx context.Context, guildID, userID snowflake.ID, delta int, reason string) (Result, error) {
	// Not retried: an error after commit would apply delta twice.
	rec, err := s.ledger.AddBaseXP(ctx, guildID, userID, delta)
	if err != nil {
		return Result{}, fmt.Errorf("apply xp delta: %w", err)
	}

	res, err := s.settle(ctx, guildID, userID, rec, reason)
	if err != nil {
		return unsettled(guildID, userID, rec), fmt.Errorf("%w: %w", ErrNotSettled, err)
	}

	slog.Info("XP updated",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID.String()),
		slog.String("user_id", userID.String()),
		slog.Int("delta", delta),
		slog.Int("total_xp", res.TotalXP),
		slog.Int("level", res.NewLevel),
		slog.String("reason", reason))
	return res, nil
}

func unsettled(guildID, userID snowflake.ID, rec *models.UserXP) Result {
	return Result{
		GuildID:  guildID,
		UserID:   userID,
		BaseXP:   rec.BaseXP,
		OldLevel: rec.Level,
		NewLevel: rec.Level,
	}
}

// SetBaseXP moves base XP to target by applying the difference as a delta.
func (s *Service) SetBaseXP(ctx context.Context, guildID, userID snowflake.ID, target int, reason string) (Result, error) {
	if target < 0 {
		return Result{}, fmt.Errorf("target xp must not be negative, got %d", target)
	}
	rec, err := retry.Storage(ctx, "get_user_xp", func(ctx context.Context) (*models.UserXP, error) {
		return s.ledger.GetOrCreate(ctx, guildID, userID)
	})
	if err != nil {
		return Result{}, fmt.Errorf("read ledger: %w", err)
	}
	return s.ApplyXPDelta(ctx, guildID, userID, target-rec.BaseXP, reason)
}

// Recheck re-derives the level after something other than base XP changed.
func (s *Service) Recheck(ctx context.Context, guildID, userID snowflake.ID, reason string) (Result, error) {
	rec, err := retry.Storage(ctx, "get_user_xp", func(ctx context.Context) (*models.UserXP, error) {
		return s.ledger.GetOrCreate(ctx, guildID, userID)
	})
	if err != nil {
		return Result{}, fmt.Errorf("read ledger: %w", err)
	}
	return s.settle(ctx, guildID, userID, rec, reason)
}

// RecordStreakGain appends a streak gain and re-derives the level. Every
// acquisition counts, including re-acquiring a role held before.
func (s *Service) RecordStreakGain(ctx context.Context, guildID, userID, roleID snowflake.ID, roleName string, xp int) (Result, error) {
	gain := &models.StreakRoleGain{
		UserID:    userID.String(),
		GuildID:   guildID.String(),
		RoleID:    roleID.String(),
		RoleName:  roleName,
		XPAwarded: xp,
	}
	// Appends are not retried for the same reason as ApplyXPDelta.
	if err := s.streaks.Record(ctx, gain); err != nil {
		return Result{}, fmt.Errorf("record streak gain: %w", err)
	}
	res, err := s.Recheck(ctx, guildID, userID, "streak role gained: "+roleName)
	if err != nil {
		return res, fmt.Errorf("%w: %w", ErrNotSettled, err)
	}
	return res, nil
}

// SettleLevel recomputes the level from current state and persists it
// without queueing reconciliation. Reconcile workers call it so they act on
// the latest level rather than the one captured at enqueue time.
func (s *Service) SettleLevel(ctx context.Context, guildID, userID snowflake.ID) (int, error) {
	rec, err := retry.Storage(ctx, "get_user_xp", func(ctx context.Context) (*models.UserXP, error) {
		return s.ledger.GetOrCreate(ctx, guildID, userID)
	})
	if err != nil {
		return 0, err
	}
	b, err := s.breakdown(ctx, guildID, userID, rec.BaseXP)
	if err != nil {
		return 0, err
	}
	level := leveling.ResolveLevel(b.TotalXP)
	if level != rec.Level {
		if err := s.persistLevel(ctx, guildID, userID, level); err != nil {
			return 0, err
		}
	}
	return level, nil
}

// Leaderboard ranks the guild's ledger members by total XP, highest first,
// breaking ties by user id.
func (s *Service) Leaderboard(ctx context.Context, guildID snowflake.ID, limit int) ([]Standing, error) {
	recs, err := retry.Storage(ctx, "list_user_xp", func(ctx context.Context) ([]*models.UserXP, error) {
		return s.ledger.ListByGuild(ctx, guildID)
	})
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	streaks, err := s.streakTotals(ctx, guildID)
	if err != nil {
		return nil, err
	}

	standings := make([]Standing, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(leaderboardConcurrency)
	for i, rec := range recs {
		userID, err := snowflake.Parse(rec.UserID)
		if err != nil {
			continue
		}
		g.Go(func() error {
			b := s.guildBreakdown(gctx, guildID, userID, rec.BaseXP, streaks)
			standings[i] = Standing{UserID: userID, TotalXP: b.TotalXP, Level: leveling.ResolveLevel(b.TotalXP)}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("compute leaderboard: %w", err)
	}

	ranked := standings[:0]
	for _, st := range standings {
		if st.UserID != 0 {
			ranked = append(ranked, st)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalXP != ranked[j].TotalXP {
			return ranked[i].TotalXP > ranked[j].TotalXP
		}
		return ranked[i].UserID < ranked[j].UserID
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}

// ResyncGuild re-derives every ledger member's level and queues a
// reconciliation for each, changed or not. It returns the number queued.
func (s *Service) ResyncGuild(ctx context.Context, guildID snowflake.ID) (int, error) {
	recs, err := retry.Storage(ctx, "list_user_xp", func(ctx context.Context) ([]*models.UserXP, error) {
		return s.ledger.ListByGuild(ctx, guildID)
	})
	if err != nil {
		return 0, fmt.Errorf("list ledger: %w", err)
	}
	streaks, err := s.streakTotals(ctx, guildID)
	if err != nil {
		return 0, err
	}

	queued := 0
	for _, rec := range recs {
		userID, err := snowflake.Parse(rec.UserID)
		if err != nil {
			continue
		}
		b := s.guildBreakdown(ctx, guildID, userID, rec.BaseXP, streaks)
		level := leveling.ResolveLevel(b.TotalXP)
		if level != rec.Level {
			if err := s.persistLevel(ctx, guildID, userID, level); err != nil {
				return queued, err
			}
		}
		if s.queue.Enqueue(reconcile.NewJob(guildID, userID, rec.Level, level, "level role resync")) {
			queued++
		}
	}
	return queued, nil
}

func (s *Service) streakTotals(ctx context.Context, guildID snowflake.ID) (map[snowflake.ID]int, error) {
	totals, err := retry.Storage(ctx, "sum_streak_xp_by_guild", func(ctx context.Context) (map[snowflake.ID]int, error) {
		return s.streaks.TotalsByGuild(ctx, guildID)
	})
	if err != nil {
		return nil, fmt.Errorf("sum streak xp: %w", err)
	}
	return totals, nil
}

func (s *Service) settle(ctx context.Context, guildID, userID snowflake.ID, rec *models.UserXP, reason string) (Result, error) {
	b, err := s.breakdown(ctx, guildID, userID, rec.BaseXP)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		GuildID:  guildID,
		UserID:   userID,
		BaseXP:   rec.BaseXP,
		TotalXP:  b.TotalXP,
		OldLevel: rec.Level,
		NewLevel: leveling.ResolveLevel(b.TotalXP),
	}
	if !res.LevelChanged() {
		return res, nil
	}

	if err := s.persistLevel(ctx, guildID, userID, res.NewLevel); err != nil {
		return Result{}, err
	}
	if !s.queue.Enqueue(reconcile.NewJob(guildID, userID, res.OldLevel, res.NewLevel, reason)) {
		slog.Warn("Reconcile queue full, level role will sync on next change",
			slog.String("type", "job"),
			slog.String("guild_id", guildID.String()),
			slog.String("user_id", userID.String()),
			slog.Int("level", res.NewLevel))
	}
	return res, nil
}

func (s *Service) persistLevel(ctx context.Context, guildID, userID snowflake.ID, level int) error {
	err := retry.StorageErr(ctx, "set_level", func(ctx context.Context) error {
		return s.ledger.SetLevel(ctx, guildID, userID, level)
	})
	if err != nil {
		return fmt.Errorf("persist level: %w", err)
	}
	return nil
}
