package registry

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

func TestDecodeAssignment(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    Assignment
		wantErr bool
	}{
		{name: "legacy integer is a badge", raw: `7`, want: Assignment{XP: 7, Category: CategoryBadge}},
		{name: "legacy float truncates", raw: `12.0`, want: Assignment{XP: 12, Category: CategoryBadge}},
		{name: "legacy negative clamps", raw: `-3`, want: Assignment{XP: 0, Category: CategoryBadge}},
		{name: "canonical streak", raw: `{"xp":10,"category":"streak"}`, want: Assignment{XP: 10, Category: CategoryStreak}},
		{name: "type key", raw: `{"xp":25,"type":"streak"}`, want: Assignment{XP: 25, Category: CategoryStreak}},
		{name: "no category defaults to badge", raw: `{"xp":3}`, want: Assignment{XP: 3, Category: CategoryBadge}},
		{name: "missing xp", raw: `{"category":"badge"}`, wantErr: true},
		{name: "unknown category", raw: `{"xp":1,"category":"level"}`, wantErr: true},
		{name: "garbage", raw: `"ten"`, wantErr: true},
		{name: "empty", raw: ``, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeAssignment(json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeAssignment() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("DecodeAssignment() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFromModel(t *testing.T) {
	m := &models.GuildSettings{
		GuildID:         "100",
		QuestPingRoleID: "200",
		RoleXPAssignments: map[string]json.RawMessage{
			"1":      json.RawMessage(`7`),
			"2":      json.RawMessage(`{"xp":10,"category":"streak"}`),
			"3":      json.RawMessage(`{"xp":"bad"}`),
			"not-id": json.RawMessage(`4`),
		},
	}

	s, legacy, err := FromModel(m)
	if err != nil {
		t.Fatalf("FromModel() error = %v", err)
	}
	if !legacy {
		t.Error("a bare integer entry should mark the row as legacy")
	}
	want := map[snowflake.ID]Assignment{
		1: {XP: 7, Category: CategoryBadge},
		2: {XP: 10, Category: CategoryStreak},
	}
	if !reflect.DeepEqual(s.Assignments, want) {
		t.Errorf("Assignments = %+v, want %+v", s.Assignments, want)
	}
	if s.QuestPingRoleID != 200 || s.QuestChannelID != 0 {
		t.Errorf("ids = %d/%d", s.QuestPingRoleID, s.QuestChannelID)
	}
}

func TestToModelIsCanonical(t *testing.T) {
	s := newSettings(100)
	s.Assignments[1] = Assignment{XP: 7, Category: CategoryBadge}
	s.QuestChannelID = 300

	m := s.ToModel()
	if m.QuestPingRoleID != "" || m.QuestChannelID != "300" {
		t.Errorf("ids = %q/%q", m.QuestPingRoleID, m.QuestChannelID)
	}

	back, legacy, err := FromModel(m)
	if err != nil {
		t.Fatal(err)
	}
	if legacy {
		t.Error("encoded settings should be canonical")
	}
	if !reflect.DeepEqual(back, s) {
		t.Errorf("FromModel(ToModel()) = %+v, want %+v", back, s)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	s := newSettings(1)
	s.Assignments[5] = Assignment{XP: 1, Category: CategoryBadge}
	c := s.clone()
	c.Assignments[6] = Assignment{XP: 2, Category: CategoryStreak}
	if len(s.Assignments) != 1 {
		t.Error("mutating a clone changed the original")
	}
}
