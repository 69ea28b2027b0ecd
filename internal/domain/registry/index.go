package registry

import (
	"strings"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/leveling"
	"github.com/questbot/questbot/internal/platform"
)

// AutoBadgeXP is granted for held roles with "badge" in the name and no assignment.
const AutoBadgeXP = 5

type Kind int

const (
	KindPlain Kind = iota
	KindLevel
	KindBadge
	KindStreak
	KindAutoBadge
)

func (k Kind) String() string {
	switch k {
	case KindLevel:
		return "level"
	case KindBadge:
		return "badge"
	case KindStreak:
		return "streak"
	case KindAutoBadge:
		return "auto_badge"
	default:
		return "plain"
	}
}

type Class struct {
	Kind  Kind
	Name  string
	Level int // KindLevel only
	XP    int // assigned XP for badge and streak, AutoBadgeXP for auto badges
}

// HeldXP is what the role contributes to total XP while a member holds it.
// Streak roles contribute through the gain log instead.
func (c Class) HeldXP() int {
	switch c.Kind {
	case KindBadge, KindAutoBadge:
		return c.XP
	default:
		return 0
	}
}

// Classify derives a role's class from its name and optional assignment.
// Level roles, and anything named like one, win over assignments so they
// never contribute XP.
func Classify(name string, a Assignment, assigned bool) Class {
	if n, ok := leveling.ParseRoleName(name); ok {
		return Class{Kind: KindLevel, Name: name, Level: n}
	}
	if leveling.IsLevelLike(name) {
		return Class{Kind: KindPlain, Name: name}
	}
	if assigned {
		if a.Category == CategoryStreak {
			return Class{Kind: KindStreak, Name: name, XP: a.XP}
		}
		return Class{Kind: KindBadge, Name: name, XP: a.XP}
	}
	if strings.Contains(strings.ToLower(name), "badge") {
		return Class{Kind: KindAutoBadge, Name: name, XP: AutoBadgeXP}
	}
	return Class{Kind: KindPlain, Name: name}
}

// RolesNamedFor returns the roles whose name contains the category word,
// ignoring case. Level-like and managed roles are left out.
func RolesNamedFor(roles []platform.Role, c Category) []platform.Role {
	var out []platform.Role
	for _, r := range roles {
		if r.Managed || leveling.IsLevelLike(r.Name) {
			continue
		}
		if strings.Contains(strings.ToLower(r.Name), string(c)) {
			out = append(out, r)
		}
	}
	return out
}

type guildIndex struct {
	classes    map[snowflake.ID]Class
	levelRoles map[int]snowflake.ID
}

// Index is the per-guild role classification table. It is rebuilt from a
// role listing and patched by role events and assignment changes.
type Index struct {
	mu     sync.RWMutex
	guilds map[snowflake.ID]*guildIndex
}

func NewIndex() *Index {
	return &Index{guilds: make(map[snowflake.ID]*guildIndex)}
}

func (x *Index) Build(guildID snowflake.ID, roles []platform.Role, assignments map[snowflake.ID]Assignment) {
	g := &guildIndex{
		classes:    make(map[snowflake.ID]Class, len(roles)),
		levelRoles: make(map[int]snowflake.ID),
	}
	for _, r := range roles {
		a, ok := assignments[r.ID]
		g.put(r.ID, Classify(r.Name, a, ok))
	}

	x.mu.Lock()
	x.guilds[guildID] = g
	x.mu.Unlock()
}

func (x *Index) Has(guildID snowflake.ID) bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	_, ok := x.guilds[guildID]
	return ok
}

func (x *Index) Lookup(guildID, roleID snowflake.ID) (Class, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	g, ok := x.guilds[guildID]
	if !ok {
		return Class{}, false
	}
	c, ok := g.classes[roleID]
	return c, ok
}

func (x *Index) LevelRole(guildID snowflake.ID, level int) (snowflake.ID, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()
	g, ok := x.guilds[guildID]
	if !ok {
		return 0, false
	}
	id, ok := g.levelRoles[level]
	return id, ok
}

// Upsert records a created or renamed role. Ignored until the guild is built.
func (x *Index) Upsert(guildID snowflake.ID, role platform.Role, a Assignment, assigned bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g, ok := x.guilds[guildID]
	if !ok {
		return
	}
	g.remove(role.ID)
	g.put(role.ID, Classify(role.Name, a, assigned))
}

func (x *Index) Remove(guildID, roleID snowflake.ID) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if g, ok := x.guilds[guildID]; ok {
		g.remove(roleID)
	}
}

// Reassign reclassifies a known role after its assignment changed.
func (x *Index) Reassign(guildID, roleID snowflake.ID, a Assignment, assigned bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	g, ok := x.guilds[guildID]
	if !ok {
		return
	}
	old, ok := g.classes[roleID]
	if !ok {
		return
	}
	g.remove(roleID)
	g.put(roleID, Classify(old.Name, a, assigned))
}

func (x *Index) Forget(guildID snowflake.ID) {
	x.mu.Lock()
	delete(x.guilds, guildID)
	x.mu.Unlock()
}

func (g *guildIndex) put(id snowflake.ID, c Class) {
	g.classes[id] = c
	if c.Kind != KindLevel {
		return
	}
	// Keep the first role seen per level so duplicates do not flip-flop.
	if _, exists := g.levelRoles[c.Level]; !exists {
		g.levelRoles[c.Level] = id
	}
}

func (g *guildIndex) remove(id snowflake.ID) {
	c, ok := g.classes[id]
	if !ok {
		return
	}
	delete(g.classes, id)
	if c.Kind == KindLevel && g.levelRoles[c.Level] == id {
		delete(g.levelRoles, c.Level)
		for otherID, other := range g.classes {
			if other.Kind == KindLevel && other.Level == c.Level {
				g.levelRoles[c.Level] = otherID
				break
			}
		}
	}
}
