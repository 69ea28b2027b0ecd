package backup

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disgoorg/snowflake/v2"

	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/gateways/database/models"
)

type fakeUploader struct {
	key  string
	body []byte
}

func (f *fakeUploader) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.key = aws.ToString(in.Key)
	b, err := io.ReadAll(in.Body)
	f.body = b
	return &s3.PutObjectOutput{}, err
}

type fakeSources struct{}

func (fakeSources) ListByGuild(context.Context, snowflake.ID) ([]*models.UserXP, error) {
	return []*models.UserXP{{UserID: "11", BaseXP: 150, Level: 2}, {UserID: "12", Level: 1}}, nil
}

func (fakeSources) TotalsByGuild(context.Context, snowflake.ID) (map[snowflake.ID]int, error) {
	return map[snowflake.ID]int{11: 30}, nil
}

func (fakeSources) Settings(_ context.Context, guildID snowflake.ID) (*registry.Settings, error) {
	return &registry.Settings{
		GuildID:        guildID,
		QuestChannelID: 9,
		Assignments:    map[snowflake.ID]registry.Assignment{300: {XP: 7, Category: registry.CategoryBadge}},
	}, nil
}

type fakeQuests struct{}

func (fakeQuests) ListByGuild(context.Context, snowflake.ID) ([]*models.Quest, error) {
	return []*models.Quest{{
		MessageID: "500",
		ChannelID: "9",
		Title:     "Say hi",
		Completions: []*models.QuestCompletion{
			{UserID: "12"}, {UserID: "11"},
		},
	}}, nil
}

func TestExporter_Export(t *testing.T) {
	up := &fakeUploader{}
	src := fakeSources{}
	e := NewExporter(up, "bucket", "/exports/", Sources{Ledger: src, Streaks: src, Settings: src, Quests: fakeQuests{}})
	e.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	key, err := e.Export(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if want := "exports/1/20240501T123000Z.json"; key != want || up.key != want {
		t.Errorf("key = %q (uploaded %q), want %q", key, up.key, want)
	}

	var snap Snapshot
	if err := json.Unmarshal(up.body, &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Members) != 2 || snap.Members[0].StreakXP != 30 || snap.Members[1].StreakXP != 0 {
		t.Errorf("members = %+v", snap.Members)
	}
	if snap.Settings.QuestChannelID != "9" || snap.Settings.QuestPingRoleID != "" {
		t.Errorf("settings = %+v", snap.Settings)
	}
	if a := snap.Settings.RoleXP["300"]; a.XP != 7 || a.Category != registry.CategoryBadge {
		t.Errorf("role xp = %+v", snap.Settings.RoleXP)
	}
	if got := snap.Quests[0].CompletedBy; len(got) != 2 || got[0] != "11" {
		t.Errorf("completed by = %v", got)
	}
}
