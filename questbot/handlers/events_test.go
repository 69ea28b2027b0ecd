package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/mock/gomock"

	"github.com/questbot/questbot/internal/domain/quests"
	"github.com/questbot/questbot/internal/domain/reconcile"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/domain/xp"
	"github.com/questbot/questbot/internal/gateways/database/models"
	"github.com/questbot/questbot/internal/platform"
	"github.com/questbot/questbot/internal/platform/mock"
)

const (
	guild  snowflake.ID = 1
	member snowflake.ID = 42
)

type fakeXP struct {
	rechecks []string
	gains    []snowflake.ID
}

func (f *fakeXP) Recheck(_ context.Context, _, _ snowflake.ID, reason string) (xp.Result, error) {
	f.rechecks = append(f.rechecks, reason)
	return xp.Result{TotalXP: 105, NewLevel: 2}, nil
}

func (f *fakeXP) RecordStreakGain(_ context.Context, _, _, roleID snowflake.ID, _ string, amount int) (xp.Result, error) {
	f.gains = append(f.gains, roleID)
	return xp.Result{TotalXP: amount}, nil
}

type fakeClasses map[snowflake.ID]registry.Class

func (f fakeClasses) Classify(_ context.Context, _, roleID snowflake.ID) (registry.Class, error) {
	if c, ok := f[roleID]; ok {
		return c, nil
	}
	return registry.Class{Kind: registry.KindPlain}, nil
}

type recordedAnnouncement struct {
	title    string
	lifetime time.Duration
}

type fakeAnnouncer struct {
	sent []recordedAnnouncement
}

func (f *fakeAnnouncer) Announce(_ context.Context, _ snowflake.ID, embed discord.Embed, lifetime time.Duration) {
	f.sent = append(f.sent, recordedAnnouncement{embed.Title, lifetime})
}

func (f *fakeAnnouncer) Send(_ context.Context, _ snowflake.ID, embed discord.Embed, lifetime time.Duration) {
	f.sent = append(f.sent, recordedAnnouncement{embed.Title, lifetime})
}

func TestRoleEvents_MemberRolesChanged(t *testing.T) {
	classes := fakeClasses{
		10: {Kind: registry.KindStreak, Name: "Daily Badge Streak", XP: 10},
		11: {Kind: registry.KindBadge, Name: "Helper", XP: 25},
		12: {Kind: registry.KindAutoBadge, Name: "Event Badge", XP: registry.AutoBadgeXP},
		13: {Kind: registry.KindLevel, Name: "Level 2", Level: 2},
		14: {Kind: registry.KindPlain, Name: "Member"},
	}

	tests := []struct {
		name          string
		before, after []snowflake.ID
		wantGains     int
		wantRechecks  int
		wantAnnounced []string
	}{
		{
			name:          "streak role records a gain",
			after:         []snowflake.ID{10},
			wantGains:     1,
			wantAnnounced: []string{"🔥 Streak Role Gained!"},
		},
		{
			name:          "badge and auto badge recheck and announce",
			before:        []snowflake.ID{14},
			after:         []snowflake.ID{14, 11, 12},
			wantRechecks:  2,
			wantAnnounced: []string{"🏅 Role Gained!", "🏅 Role Gained!"},
		},
		{
			name:  "level and plain roles are ignored",
			after: []snowflake.ID{13, 14},
		},
		{
			name:         "losing xp roles rechecks once silently",
			before:       []snowflake.ID{10, 11, 12, 14},
			after:        []snowflake.ID{14},
			wantRechecks: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := &fakeXP{}
			ann := &fakeAnnouncer{}
			r := &RoleEvents{XP: x, Roles: classes, Announcer: ann}

			r.MemberRolesChanged(context.Background(), guild, member, tt.before, tt.after)

			if len(x.gains) != tt.wantGains {
				t.Errorf("gains = %d, want %d", len(x.gains), tt.wantGains)
			}
			if len(x.rechecks) != tt.wantRechecks {
				t.Errorf("rechecks = %d, want %d", len(x.rechecks), tt.wantRechecks)
			}
			if len(ann.sent) != len(tt.wantAnnounced) {
				t.Fatalf("announcements = %+v, want %v", ann.sent, tt.wantAnnounced)
			}
			for i, want := range tt.wantAnnounced {
				if ann.sent[i].title != want || ann.sent[i].lifetime != 15*time.Second {
					t.Errorf("announcement %d = %+v, want %q for 15s", i, ann.sent[i], want)
				}
			}
		})
	}
}

type fakeCompleter struct {
	calls int
	res   quests.Completion
	err   error
}

func (f *fakeCompleter) Complete(context.Context, snowflake.ID, snowflake.ID, snowflake.ID) (quests.Completion, error) {
	f.calls++
	return f.res, f.err
}

type fakeConfirm struct{ pending bool }

func (f fakeConfirm) Resolve(_, _ snowflake.ID, _ string) bool { return f.pending }

func TestReactionEvents_ReactionAdded(t *testing.T) {
	awarded := quests.Completion{
		Quest:   &models.Quest{Title: "Say hi"},
		Result:  xp.Result{TotalXP: 150, NewLevel: 2},
		Awarded: true,
		Settled: true,
	}
	unsettled := quests.Completion{Quest: awarded.Quest, Awarded: true}
	tests := []struct {
		name      string
		bot       bool
		emoji     string
		confirm   bool
		res       quests.Completion
		err       error
		wantCalls int
		wantSent  bool
	}{
		{name: "first completion", emoji: "✅", res: awarded, wantCalls: 1, wantSent: true},
		{name: "level not settled yet", emoji: "✅", res: unsettled, wantCalls: 1, wantSent: true},
		{name: "repeat completion", emoji: "✅", res: quests.Completion{Quest: awarded.Quest}, wantCalls: 1},
		{name: "bots are ignored", bot: true, emoji: "✅"},
		{name: "other emoji", emoji: "👍"},
		{name: "answers a confirmation", emoji: "✅", confirm: true},
		{name: "not a quest", emoji: "✅", err: quests.ErrUnknownQuest, wantCalls: 1},
		{name: "award failed", emoji: "✅", err: errors.New("db down"), wantCalls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &fakeCompleter{res: tt.res, err: tt.err}
			ann := &fakeAnnouncer{}
			q := &ReactionEvents{Quests: c, Confirmations: fakeConfirm{tt.confirm}, Announcer: ann}

			q.ReactionAdded(context.Background(), guild, 5, 500, member, tt.bot, tt.emoji)

			if c.calls != tt.wantCalls {
				t.Errorf("Complete calls = %d, want %d", c.calls, tt.wantCalls)
			}
			if got := len(ann.sent) == 1; got != tt.wantSent {
				t.Fatalf("sent = %+v, want sent %v", ann.sent, tt.wantSent)
			}
			if tt.wantSent && ann.sent[0].lifetime != 10*time.Second {
				t.Errorf("lifetime = %s, want 10s", ann.sent[0].lifetime)
			}
		})
	}
}

type fakeSettings struct{ channel snowflake.ID }

func (f fakeSettings) Settings(_ context.Context, guildID snowflake.ID) (*registry.Settings, error) {
	return &registry.Settings{GuildID: guildID, QuestChannelID: f.channel}, nil
}

func TestAnnouncer_ChannelSelection(t *testing.T) {
	tests := []struct {
		name     string
		configed snowflake.ID
		text     []snowflake.ID
		want     snowflake.ID
	}{
		{name: "quest channel", configed: 7, want: 7},
		{name: "first text channel", text: []snowflake.ID{8, 9}, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mock.NewMockPlatform(ctrl)
			if tt.configed == 0 {
				p.EXPECT().TextChannels(gomock.Any(), guild).Return(tt.text, nil)
			}
			p.EXPECT().SendMessage(gomock.Any(), tt.want, gomock.Any()).Return(snowflake.ID(99), nil)
			p.EXPECT().DeleteMessage(gomock.Any(), tt.want, snowflake.ID(99)).Return(nil)

			a := NewAnnouncer(fakeSettings{tt.configed}, p)
			var waited time.Duration
			a.after = func(d time.Duration, fn func()) { waited = d; fn() }

			a.LevelRolesChanged(context.Background(), reconcile.Change{GuildID: guild, UserID: member, OldLevel: 1, NewLevel: 2, Added: "Level 2"})
			if waited != 15*time.Second {
				t.Errorf("deleted after %s, want 15s", waited)
			}
		})
	}
}

func TestAnnouncer_SkipsChannelsWithoutAccess(t *testing.T) {
	tests := []struct {
		name     string
		configed snowflake.ID
		text     []snowflake.ID
		denied   []snowflake.ID
		want     snowflake.ID
	}{
		{name: "first text channel locked", text: []snowflake.ID{8, 9}, denied: []snowflake.ID{8}, want: 9},
		{name: "quest channel locked", configed: 7, text: []snowflake.ID{8}, denied: []snowflake.ID{7}, want: 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			p := mock.NewMockPlatform(ctrl)
			p.EXPECT().TextChannels(gomock.Any(), guild).Return(tt.text, nil)
			for _, id := range tt.denied {
				p.EXPECT().SendMessage(gomock.Any(), id, gomock.Any()).Return(snowflake.ID(0), platform.ErrMissingPermissions)
			}
			p.EXPECT().SendMessage(gomock.Any(), tt.want, gomock.Any()).Return(snowflake.ID(99), nil)
			p.EXPECT().DeleteMessage(gomock.Any(), tt.want, snowflake.ID(99)).Return(nil)

			a := NewAnnouncer(fakeSettings{tt.configed}, p)
			a.after = func(_ time.Duration, fn func()) { fn() }
			a.Announce(context.Background(), guild, discord.Embed{Title: "hi"}, time.Second)
		})
	}
}

func TestAnnouncer_StopsOnOtherErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock.NewMockPlatform(ctrl)
	p.EXPECT().TextChannels(gomock.Any(), guild).Return([]snowflake.ID{8, 9}, nil)
	p.EXPECT().SendMessage(gomock.Any(), snowflake.ID(8), gomock.Any()).Return(snowflake.ID(0), errors.New("rate limited"))

	a := NewAnnouncer(fakeSettings{}, p)
	a.Announce(context.Background(), guild, discord.Embed{Title: "hi"}, time.Second)
}

func TestAnnouncer_IgnoresLevelDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	p := mock.NewMockPlatform(ctrl)
	a := NewAnnouncer(fakeSettings{7}, p)
	a.LevelRolesChanged(context.Background(), reconcile.Change{GuildID: guild, OldLevel: 3, NewLevel: 2})
}

func TestDiffRoles(t *testing.T) {
	added, removed := diffRoles([]snowflake.ID{1, 2, 3}, []snowflake.ID{2, 3, 4})
	if len(added) != 1 || added[0] != 4 {
		t.Errorf("added = %v", added)
	}
	if len(removed) != 1 || removed[0] != 1 {
		t.Errorf("removed = %v", removed)
	}
}

type fakeStartup struct {
	calls     []string
	ladderErr error
	settErr   error
}

func (f *fakeStartup) Settings(_ context.Context, guildID snowflake.ID) (*registry.Settings, error) {
	f.calls = append(f.calls, "settings")
	return &registry.Settings{GuildID: guildID}, f.settErr
}

func (f *fakeStartup) Refresh(context.Context, snowflake.ID) error {
	f.calls = append(f.calls, "refresh")
	return nil
}

func (f *fakeStartup) Ensure(context.Context, snowflake.ID) ([]string, error) {
	f.calls = append(f.calls, "ensure")
	return nil, f.ladderErr
}

func TestGuildStartup_GuildReady(t *testing.T) {
	tests := []struct {
		name      string
		ladderErr error
		settErr   error
		wantErr   bool
		wantCalls []string
	}{
		{name: "ready", wantCalls: []string{"settings", "ensure", "refresh"}},
		{name: "ladder denied", ladderErr: errors.New("missing permissions"), wantCalls: []string{"settings", "ensure", "refresh"}},
		{name: "settings unavailable", settErr: errors.New("db down"), wantErr: true, wantCalls: []string{"settings"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeStartup{ladderErr: tt.ladderErr, settErr: tt.settErr}
			g := &GuildStartup{Registry: f, Ladder: f}
			err := g.GuildReady(context.Background(), guild)
			if (err != nil) != tt.wantErr {
				t.Fatalf("GuildReady() error = %v, wantErr %v", err, tt.wantErr)
			}
			if len(f.calls) != len(tt.wantCalls) {
				t.Fatalf("calls = %v, want %v", f.calls, tt.wantCalls)
			}
			for i := range f.calls {
				if f.calls[i] != tt.wantCalls[i] {
					t.Errorf("calls = %v, want %v", f.calls, tt.wantCalls)
					break
				}
			}
		})
	}
}
