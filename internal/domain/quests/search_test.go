package quests

import (
	"testing"

	"github.com/questbot/questbot/internal/gateways/database/models"
)

func TestSearch(t *testing.T) {
	list := []*models.Quest{
		{MessageID: "1", Title: "Say hi in general"},
		{MessageID: "2", Title: "Share a screenshot"},
		{MessageID: "3", Title: "Invite a friend"},
	}
	tests := []struct {
		name  string
		query string
		limit int
		want  []string
	}{
		{"empty query keeps order", "", 2, []string{"1", "2"}},
		{"fuzzy title match", "scrnsht", 25, []string{"2"}},
		{"case insensitive", "INVITE", 25, []string{"3"}},
		{"no match", "zzz", 25, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Search(list, tt.query, tt.limit)
			if len(got) != len(tt.want) {
				t.Fatalf("Search() returned %d quests, want %d", len(got), len(tt.want))
			}
			for i, q := range got {
				if q.MessageID != tt.want[i] {
					t.Errorf("result %d = %s, want %s", i, q.MessageID, tt.want[i])
				}
			}
		})
	}
}

func TestJumpURL(t *testing.T) {
	q := &models.Quest{GuildID: "1", ChannelID: "2", MessageID: "3"}
	if got := JumpURL(q); got != "https://discord.com/channels/1/2/3" {
		t.Errorf("JumpURL() = %q", got)
	}
}
