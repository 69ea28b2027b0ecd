// Package registry owns per-guild settings: the role to XP assignment map,
// the quest ping role and quest channel, and the role classification index.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/sync/singleflight"

	"github.com/questbot/questbot/internal/gateways/database/models"
	"github.com/questbot/questbot/internal/gateways/database/repositories"
	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/internal/retry"
)

const DefaultCacheSize = 1024

type Repository interface {
	Get(ctx context.Context, guildID snowflake.ID) (*models.GuildSettings, error)
	Save(ctx context.Context, settings *models.GuildSettings) error
	List(ctx context.Context) ([]*models.GuildSettings, error)
}

type RoleLister interface {
	Roles(ctx context.Context, guildID snowflake.ID) ([]platform.Role, error)
}

// Registry is a read-through, write-through cache over guild settings.
// Cached values are never mutated in place; writers swap in a fresh copy
// after it has been persisted.
type Registry struct {
	repo  Repository
	roles RoleLister
	cache *lru.Cache
	index *Index

	loads singleflight.Group
	locks sync.Map // guild id -> *sync.Mutex
}

func New(repo Repository, roles RoleLister, cacheSize int) (*Registry, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create settings cache: %w", err)
	}
	return &Registry{
		repo:  repo,
		roles: roles,
		cache: cache,
		index: NewIndex(),
	}, nil
}

func (r *Registry) Index() *Index {
	return r.index
}

// Settings returns a copy of the guild's settings.
func (r *Registry) Settings(ctx context.Context, guildID snowflake.ID) (*Settings, error) {
	s, err := r.load(ctx, guildID)
	if err != nil {
		return nil, err
	}
	return s.clone(), nil
}

func (r *Registry) Get(ctx context.Context, guildID, roleID snowflake.ID) (Assignment, bool, error) {
	s, err := r.load(ctx, guildID)
	if err != nil {
		return Assignment{}, false, err
	}
	a, ok := s.Assignments[roleID]
	return a, ok, nil
}

// Assign upserts an assignment.
func (r *Registry) Assign(ctx context.Context, guildID, roleID snowflake.ID, xp int, category Category) error {
	if xp < 0 {
		return fmt.Errorf("xp must not be negative, got %d", xp)
	}
	if !category.Valid() {
		return fmt.Errorf("unknown category %q", category)
	}
	a := Assignment{XP: xp, Category: category}
	err := r.mutate(ctx, guildID, func(s *Settings) bool {
		s.Assignments[roleID] = a
		return true
	})
	if err != nil {
		return err
	}
	r.index.Reassign(guildID, roleID, a, true)
	return nil
}

// AssignIfAbsent assigns only when the role has no assignment yet and
// returns the existing one otherwise.
func (r *Registry) AssignIfAbsent(ctx context.Context, guildID, roleID snowflake.ID, xp int, category Category) (Assignment, bool, error) {
	if xp < 0 || !category.Valid() {
		return Assignment{}, false, fmt.Errorf("invalid assignment %d/%q", xp, category)
	}
	var existing Assignment
	var assigned bool
	a := Assignment{XP: xp, Category: category}
	err := r.mutate(ctx, guildID, func(s *Settings) bool {
		if cur, ok := s.Assignments[roleID]; ok {
			existing = cur
			return false
		}
		s.Assignments[roleID] = a
		assigned = true
		return true
	})
	if err != nil {
		return Assignment{}, false, err
	}
	if assigned {
		r.index.Reassign(guildID, roleID, a, true)
		return a, true, nil
	}
	return existing, false, nil
}

// Unassign removes an assignment and reports whether one existed.
func (r *Registry) Unassign(ctx context.Context, guildID, roleID snowflake.ID) (bool, error) {
	var existed bool
	err := r.mutate(ctx, guildID, func(s *Settings) bool {
		if _, existed = s.Assignments[roleID]; existed {
			delete(s.Assignments, roleID)
		}
		return existed
	})
	if err != nil {
		return false, err
	}
	if existed {
		r.index.Reassign(guildID, roleID, Assignment{}, false)
	}
	return existed, nil
}

func (r *Registry) SetQuestPingRole(ctx context.Context, guildID, roleID snowflake.ID) error {
	return r.mutate(ctx, guildID, func(s *Settings) bool {
		s.QuestPingRoleID = roleID
		return true
	})
}

func (r *Registry) SetQuestChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	return r.mutate(ctx, guildID, func(s *Settings) bool {
		s.QuestChannelID = channelID
		return true
	})
}

// Classify returns the class of a role, building or refreshing the guild's
// index when the role is not known yet.
func (r *Registry) Classify(ctx context.Context, guildID, roleID snowflake.ID) (Class, error) {
	if err := r.ensureIndexed(ctx, guildID); err != nil {
		return Class{}, err
	}
	if c, ok := r.index.Lookup(guildID, roleID); ok {
		return c, nil
	}
	if err := r.Refresh(ctx, guildID); err != nil {
		return Class{}, err
	}
	if c, ok := r.index.Lookup(guildID, roleID); ok {
		return c, nil
	}
	return Class{Kind: KindPlain}, nil
}

// LevelRole returns the role id currently named "Level N" for level.
func (r *Registry) LevelRole(ctx context.Context, guildID snowflake.ID, level int) (snowflake.ID, bool, error) {
	if err := r.ensureIndexed(ctx, guildID); err != nil {
		return 0, false, err
	}
	id, ok := r.index.LevelRole(guildID, level)
	return id, ok, nil
}

// Observe records a role seen on the gateway or created by the bot.
func (r *Registry) Observe(ctx context.Context, role platform.Role) {
	a, ok, err := r.Get(ctx, role.GuildID, role.ID)
	if err != nil {
		slog.Warn("Could not read assignment for observed role",
			slog.String("guild_id", role.GuildID.String()),
			slog.String("role_id", role.ID.String()),
			slog.Any("error", err))
	}
	r.index.Upsert(role.GuildID, role, a, ok)
}

// Drop removes a deleted role from the index. Its assignment is kept.
func (r *Registry) Drop(guildID, roleID snowflake.ID) {
	r.index.Remove(guildID, roleID)
}

// Refresh rebuilds the guild's classification index from the platform.
func (r *Registry) Refresh(ctx context.Context, guildID snowflake.ID) error {
	_, err, _ := r.loads.Do("roles:"+guildID.String(), func() (interface{}, error) {
		roles, err := r.roles.Roles(ctx, guildID)
		if err != nil {
			return nil, fmt.Errorf("list roles: %w", err)
		}
		s, err := r.load(ctx, guildID)
		if err != nil {
			return nil, err
		}
		r.index.Build(guildID, roles, s.Assignments)
		slog.Debug("Role index built",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID.String()),
			slog.Int("roles", len(roles)))
		return nil, nil
	})
	return err
}

// Evict drops a guild from the cache and index.
func (r *Registry) Evict(guildID snowflake.ID) {
	r.cache.Remove(guildID)
	r.index.Forget(guildID)
}

// Canonicalize rewrites every stored settings row that still holds legacy
// assignment values and returns how many rows changed.
func (r *Registry) Canonicalize(ctx context.Context) (int, error) {
	all, err := r.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list settings: %w", err)
	}
	rewritten := 0
	for _, m := range all {
		s, legacy, err := FromModel(m)
		if err != nil {
			slog.Warn("Skipping unreadable settings row",
				slog.String("guild_id", m.GuildID),
				slog.Any("error", err))
			continue
		}
		if !legacy {
			continue
		}
		mu := r.lock(s.GuildID)
		mu.Lock()
		err = r.repo.Save(ctx, s.ToModel())
		if err == nil {
			r.cache.Add(s.GuildID, s)
		}
		mu.Unlock()
		if err != nil {
			return rewritten, fmt.Errorf("save settings for %s: %w", s.GuildID, err)
		}
		rewritten++
	}
	return rewritten, nil
}

// Import writes settings read from another store and refreshes the cache.
func (r *Registry) Import(ctx context.Context, s *Settings) error {
	mu := r.lock(s.GuildID)
	mu.Lock()
	defer mu.Unlock()
	if err := r.repo.Save(ctx, s.ToModel()); err != nil {
		return err
	}
	r.cache.Add(s.GuildID, s.clone())
	return nil
}

func (r *Registry) ensureIndexed(ctx context.Context, guildID snowflake.ID) error {
	if r.index.Has(guildID) {
		return nil
	}
	return r.Refresh(ctx, guildID)
}

func (r *Registry) load(ctx context.Context, guildID snowflake.ID) (*Settings, error) {
	if v, ok := r.cache.Get(guildID); ok {
		return v.(*Settings), nil
	}

	v, err, _ := r.loads.Do("settings:"+guildID.String(), func() (interface{}, error) {
		m, err := retry.Storage(ctx, "get_settings", func(ctx context.Context) (*models.GuildSettings, error) {
			return r.repo.Get(ctx, guildID)
		})
		var s *Settings
		switch {
		case repositories.IsNotFound(err):
			s = newSettings(guildID)
		case err != nil:
			return nil, fmt.Errorf("load settings for %s: %w", guildID, err)
		default:
			var legacy bool
			if s, legacy, err = FromModel(m); err != nil {
				return nil, err
			}
			if legacy {
				slog.Info("Guild settings hold legacy role XP values; they will be rewritten on next save",
					slog.String("type", "db"),
					slog.String("guild_id", guildID.String()))
			}
		}
		// A writer may have populated the entry while we were reading.
		if prev, ok, _ := r.cache.PeekOrAdd(guildID, s); ok {
			return prev.(*Settings), nil
		}
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Settings), nil
}

func (r *Registry) mutate(ctx context.Context, guildID snowflake.ID, fn func(*Settings) bool) error {
	mu := r.lock(guildID)
	mu.Lock()
	defer mu.Unlock()

	cur, err := r.load(ctx, guildID)
	if err != nil {
		return err
	}
	next := cur.clone()
	if !fn(next) {
		return nil
	}
	err = retry.StorageErr(ctx, "save_settings", func(ctx context.Context) error {
		return r.repo.Save(ctx, next.ToModel())
	})
	if err != nil {
		return fmt.Errorf("save settings for %s: %w", guildID, err)
	}
	r.cache.Add(guildID, next)
	return nil
}

func (r *Registry) lock(guildID snowflake.ID) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(guildID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
