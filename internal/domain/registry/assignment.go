package registry

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

type Category string

const (
	CategoryBadge  Category = "badge"
	CategoryStreak Category = "streak"
)

func (c Category) Valid() bool {
	return c == CategoryBadge || c == CategoryStreak
}

type Assignment struct {
	XP       int      `json:"xp"`
	Category Category `json:"category"`
}

// storedAssignment accepts both the current "category" key and the "type"
// key some older rows carry.
type storedAssignment struct {
	XP       *int     `json:"xp"`
	Category Category `json:"category"`
	Type     Category `json:"type"`
}

// DecodeAssignment reads one stored value. A bare integer is a badge.
func DecodeAssignment(raw json.RawMessage) (Assignment, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return Assignment{}, fmt.Errorf("empty assignment")
	}

	if trimmed[0] != '{' {
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return Assignment{}, fmt.Errorf("decode legacy assignment %q: %w", trimmed, err)
		}
		xp, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return Assignment{}, fmt.Errorf("decode legacy assignment %q: %w", trimmed, err)
		}
		return Assignment{XP: max(0, int(xp)), Category: CategoryBadge}, nil
	}

	var s storedAssignment
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return Assignment{}, fmt.Errorf("decode assignment: %w", err)
	}
	if s.XP == nil {
		return Assignment{}, fmt.Errorf("assignment missing xp")
	}
	cat := s.Category
	if cat == "" {
		cat = s.Type
	}
	if cat == "" {
		cat = CategoryBadge
	}
	if !cat.Valid() {
		return Assignment{}, fmt.Errorf("unknown assignment category %q", cat)
	}
	return Assignment{XP: max(0, *s.XP), Category: cat}, nil
}

// Settings is the in-memory form of a guild's settings row.
type Settings struct {
	GuildID         snowflake.ID
	QuestPingRoleID snowflake.ID
	QuestChannelID  snowflake.ID
	Assignments     map[snowflake.ID]Assignment
}

func newSettings(guildID snowflake.ID) *Settings {
	return &Settings{GuildID: guildID, Assignments: map[snowflake.ID]Assignment{}}
}

func (s *Settings) clone() *Settings {
	c := *s
	c.Assignments = make(map[snowflake.ID]Assignment, len(s.Assignments))
	for k, v := range s.Assignments {
		c.Assignments[k] = v
	}
	return &c
}

// FromModel decodes a stored row. Entries that cannot be decoded are logged
// and skipped; legacy reports whether any entry was not in canonical form.
func FromModel(m *models.GuildSettings) (s *Settings, legacy bool, err error) {
	guildID, err := snowflake.Parse(m.GuildID)
	if err != nil {
		return nil, false, fmt.Errorf("parse guild id %q: %w", m.GuildID, err)
	}
	s = newSettings(guildID)
	s.QuestPingRoleID = parseOptionalID(m.QuestPingRoleID)
	s.QuestChannelID = parseOptionalID(m.QuestChannelID)

	for key, raw := range m.RoleXPAssignments {
		roleID, err := snowflake.Parse(key)
		if err != nil {
			slog.Warn("Skipping role XP entry with invalid role id",
				slog.String("guild_id", m.GuildID),
				slog.String("role_id", key))
			continue
		}
		a, err := DecodeAssignment(raw)
		if err != nil {
			slog.Warn("Skipping undecodable role XP entry",
				slog.String("guild_id", m.GuildID),
				slog.String("role_id", key),
				slog.Any("error", err))
			continue
		}
		if !isCanonical(raw) {
			legacy = true
		}
		s.Assignments[roleID] = a
	}
	return s, legacy, nil
}

// ToModel encodes settings in canonical form.
func (s *Settings) ToModel() *models.GuildSettings {
	m := &models.GuildSettings{
		GuildID:           s.GuildID.String(),
		RoleXPAssignments: make(map[string]json.RawMessage, len(s.Assignments)),
	}
	if s.QuestPingRoleID != 0 {
		m.QuestPingRoleID = s.QuestPingRoleID.String()
	}
	if s.QuestChannelID != 0 {
		m.QuestChannelID = s.QuestChannelID.String()
	}
	for roleID, a := range s.Assignments {
		raw, _ := json.Marshal(a)
		m.RoleXPAssignments[roleID.String()] = raw
	}
	return m
}

func isCanonical(raw json.RawMessage) bool {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return false
	}
	_, hasCategory := fields["category"]
	_, hasType := fields["type"]
	return hasCategory && !hasType && len(fields) == 2
}

func parseOptionalID(s string) snowflake.ID {
	if s == "" {
		return 0
	}
	id, err := snowflake.Parse(s)
	if err != nil {
		return 0
	}
	return id
}
