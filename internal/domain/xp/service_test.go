package xp

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/mock/gomock"

	"github.com/questbot/questbot/internal/domain/reconcile"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/domain/xp/mock"
	"github.com/questbot/questbot/internal/gateways/database/models"
	"github.com/questbot/questbot/internal/platform"
)

const (
	guild snowflake.ID = 1
	user  snowflake.ID = 2
)

type mocks struct {
	ledger  *mock.MockLedger
	streaks *mock.MockStreakLog
	members *mock.MockMembers
	roles   *mock.MockClassifier
	queue   *mock.MockEnqueuer
}

func newTestService(t *testing.T) (*Service, mocks) {
	ctrl := gomock.NewController(t)
	m := mocks{
		ledger:  mock.NewMockLedger(ctrl),
		streaks: mock.NewMockStreakLog(ctrl),
		members: mock.NewMockMembers(ctrl),
		roles:   mock.NewMockClassifier(ctrl),
		queue:   mock.NewMockEnqueuer(ctrl),
	}
	return NewService(m.ledger, m.streaks, m.members, m.roles, m.queue), m
}

func (m mocks) memberWithRoles(classes map[snowflake.ID]registry.Class) {
	ids := make([]snowflake.ID, 0, len(classes))
	for id := range classes {
		ids = append(ids, id)
	}
	m.members.EXPECT().
		Member(gomock.Any(), guild, user).
		Return(platform.Member{GuildID: guild, UserID: user, RoleIDs: ids}, nil).
		AnyTimes()
	for id, c := range classes {
		m.roles.EXPECT().Classify(gomock.Any(), guild, id).Return(c, nil).AnyTimes()
	}
}

func TestService_Breakdown(t *testing.T) {
	tests := []struct {
		name    string
		base    int
		classes map[snowflake.ID]registry.Class
		streak  int
		want    Breakdown
	}{
		{
			name: "base only",
			base: 40,
			want: Breakdown{BaseXP: 40, TotalXP: 40, Resolved: true},
		},
		{
			name: "badges and streaks add up",
			base: 100,
			classes: map[snowflake.ID]registry.Class{
				10: {Kind: registry.KindBadge, XP: 20},
				11: {Kind: registry.KindAutoBadge, XP: registry.AutoBadgeXP},
				12: {Kind: registry.KindStreak, XP: 10},
			},
			streak: 30,
			want:   Breakdown{BaseXP: 100, BadgeXP: 25, StreakXP: 30, TotalXP: 155, Resolved: true},
		},
		{
			name: "level roles never add xp",
			base: 0,
			classes: map[snowflake.ID]registry.Class{
				20: {Kind: registry.KindLevel, Level: 5},
			},
			want: Breakdown{TotalXP: 0, LevelRoleXP: 2200, Resolved: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newTestService(t)
			m.ledger.EXPECT().
				GetOrCreate(gomock.Any(), guild, user).
				Return(&models.UserXP{BaseXP: tt.base, Level: 1}, nil)
			m.memberWithRoles(tt.classes)
			m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(tt.streak, nil)

			got, err := s.Breakdown(context.Background(), guild, user)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Breakdown() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestService_UnresolvedMemberUsesBaseOnly(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		GetOrCreate(gomock.Any(), guild, user).
		Return(&models.UserXP{BaseXP: 130, Level: 2}, nil)
	m.members.EXPECT().
		Member(gomock.Any(), guild, user).
		Return(platform.Member{}, platform.ErrNotFound)

	got, err := s.ComputeTotalXP(context.Background(), guild, user)
	if err != nil || got != 130 {
		t.Errorf("ComputeTotalXP() = %d, %v, want 130", got, err)
	}
}

func TestService_ApplyXPDeltaLevelUp(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		AddBaseXP(gomock.Any(), guild, user, 100).
		Return(&models.UserXP{BaseXP: 100, Level: 1}, nil)
	m.memberWithRoles(nil)
	m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(0, nil)
	m.ledger.EXPECT().SetLevel(gomock.Any(), guild, user, 2).Return(nil)

	var queued reconcile.Job
	m.queue.EXPECT().
		Enqueue(gomock.Any()).
		DoAndReturn(func(j reconcile.Job) bool {
			queued = j
			return true
		})

	res, err := s.ApplyXPDelta(context.Background(), guild, user, 100, "test")
	if err != nil {
		t.Fatal(err)
	}
	if res.OldLevel != 1 || res.NewLevel != 2 || !res.LevelChanged() {
		t.Errorf("ApplyXPDelta() = %+v", res)
	}
	if queued.GuildID != guild || queued.UserID != user || queued.OldLevel != 1 || queued.NewLevel != 2 || queued.ID == "" {
		t.Errorf("queued job = %+v", queued)
	}
}

func TestService_ApplyXPDeltaWithoutLevelChange(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		AddBaseXP(gomock.Any(), guild, user, 5).
		Return(&models.UserXP{BaseXP: 105, Level: 2}, nil)
	m.memberWithRoles(nil)
	m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(0, nil)

	res, err := s.ApplyXPDelta(context.Background(), guild, user, 5, "test")
	if err != nil {
		t.Fatal(err)
	}
	if res.LevelChanged() || res.TotalXP != 105 {
		t.Errorf("ApplyXPDelta() = %+v", res)
	}
}

func TestService_SetBaseXPAppliesDifference(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		GetOrCreate(gomock.Any(), guild, user).
		Return(&models.UserXP{BaseXP: 120, Level: 2}, nil)
	m.ledger.EXPECT().
		AddBaseXP(gomock.Any(), guild, user, 380).
		Return(&models.UserXP{BaseXP: 500, Level: 2}, nil)
	m.memberWithRoles(nil)
	m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(0, nil)
	m.ledger.EXPECT().SetLevel(gomock.Any(), guild, user, 3).Return(nil)
	m.queue.EXPECT().Enqueue(gomock.Any()).Return(true)

	res, err := s.SetBaseXP(context.Background(), guild, user, 500, "test")
	if err != nil {
		t.Fatal(err)
	}
	if res.BaseXP != 500 || res.NewLevel != 3 {
		t.Errorf("SetBaseXP() = %+v", res)
	}
}

func TestService_SetBaseXPRejectsNegative(t *testing.T) {
	s, _ := newTestService(t)
	if _, err := s.SetBaseXP(context.Background(), guild, user, -1, "test"); err == nil {
		t.Error("negative target should fail")
	}
}

func TestService_RecordStreakGainAccumulates(t *testing.T) {
	s, m := newTestService(t)
	recorded := 0
	m.streaks.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g *models.StreakRoleGain) error {
			if g.XPAwarded != 10 || g.RoleID != "7" {
				t.Errorf("unexpected gain %+v", g)
			}
			recorded++
			return nil
		}).
		Times(3)
	m.ledger.EXPECT().
		GetOrCreate(gomock.Any(), guild, user).
		Return(&models.UserXP{BaseXP: 0, Level: 1}, nil).
		Times(3)
	// The member no longer holds the streak role; its gains still count.
	m.memberWithRoles(nil)
	gomock.InOrder(
		m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(10, nil),
		m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(20, nil),
		m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(30, nil),
	)

	var res Result
	var err error
	for i := 0; i < 3; i++ {
		res, err = s.RecordStreakGain(context.Background(), guild, user, 7, "Daily", 10)
		if err != nil {
			t.Fatal(err)
		}
	}
	if recorded != 3 || res.TotalXP != 30 {
		t.Errorf("recorded %d gains, total %d, want 3 and 30", recorded, res.TotalXP)
	}
}

func TestService_StreakSumErrorPropagates(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		GetOrCreate(gomock.Any(), guild, user).
		Return(&models.UserXP{BaseXP: 0, Level: 1}, nil)
	m.memberWithRoles(nil)
	m.streaks.EXPECT().
		Total(gomock.Any(), guild, user).
		Return(0, context.Canceled)

	if _, err := s.ComputeTotalXP(context.Background(), guild, user); !errors.Is(err, context.Canceled) {
		t.Errorf("ComputeTotalXP() error = %v", err)
	}
}

func TestService_SettleLevelDoesNotEnqueue(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		GetOrCreate(gomock.Any(), guild, user).
		Return(&models.UserXP{BaseXP: 1200, Level: 3}, nil)
	m.memberWithRoles(nil)
	m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(0, nil)
	m.ledger.EXPECT().SetLevel(gomock.Any(), guild, user, 4).Return(nil)

	level, err := s.SettleLevel(context.Background(), guild, user)
	if err != nil || level != 4 {
		t.Errorf("SettleLevel() = %d, %v", level, err)
	}
}

func TestService_Leaderboard(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		ListByGuild(gomock.Any(), guild).
		Return([]*models.UserXP{
			{UserID: "30", BaseXP: 100},
			{UserID: "10", BaseXP: 500},
			{UserID: "20", BaseXP: 100},
			{UserID: "bogus", BaseXP: 9000},
		}, nil)
	m.members.EXPECT().
		Member(gomock.Any(), guild, gomock.Any()).
		Return(platform.Member{}, nil).
		AnyTimes()
	// One guild-wide sum, no per-member Total calls.
	m.streaks.EXPECT().
		TotalsByGuild(gomock.Any(), guild).
		Return(map[snowflake.ID]int{20: 450}, nil).
		Times(1)

	got, err := s.Leaderboard(context.Background(), guild, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []Standing{
		{Rank: 1, UserID: 20, TotalXP: 550, Level: 3},
		{Rank: 2, UserID: 10, TotalXP: 500, Level: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Leaderboard() = %+v, want %+v", got, want)
	}
}

func TestService_ResyncGuildQueuesEveryone(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		ListByGuild(gomock.Any(), guild).
		Return([]*models.UserXP{
			{UserID: "2", BaseXP: 600, Level: 1},
			{UserID: "3", BaseXP: 0, Level: 1},
		}, nil)
	m.members.EXPECT().Member(gomock.Any(), guild, gomock.Any()).Return(platform.Member{}, nil).AnyTimes()
	m.streaks.EXPECT().TotalsByGuild(gomock.Any(), guild).Return(map[snowflake.ID]int{}, nil).Times(1)
	m.ledger.EXPECT().SetLevel(gomock.Any(), guild, snowflake.ID(2), 3).Return(nil)
	m.queue.EXPECT().Enqueue(gomock.Any()).Return(true).Times(2)

	n, err := s.ResyncGuild(context.Background(), guild)
	if err != nil || n != 2 {
		t.Errorf("ResyncGuild() = %d, %v", n, err)
	}
}

func TestService_LeaderboardStreakSumError(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		ListByGuild(gomock.Any(), guild).
		Return([]*models.UserXP{{UserID: "10", BaseXP: 5}}, nil)
	m.streaks.EXPECT().
		TotalsByGuild(gomock.Any(), guild).
		Return(nil, context.Canceled)

	if _, err := s.Leaderboard(context.Background(), guild, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("Leaderboard() error = %v", err)
	}
}

func TestService_ApplyXPDeltaWriteIsNotRetried(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		AddBaseXP(gomock.Any(), guild, user, 50).
		Return(nil, errors.New("connection reset by peer")).
		Times(1)

	if _, err := s.ApplyXPDelta(context.Background(), guild, user, 50, "test"); err == nil {
		t.Error("ApplyXPDelta() should fail")
	}
}

func TestService_ApplyXPDeltaUnsettledKeepsWrite(t *testing.T) {
	s, m := newTestService(t)
	m.ledger.EXPECT().
		AddBaseXP(gomock.Any(), guild, user, 100).
		Return(&models.UserXP{BaseXP: 100, Level: 1}, nil).
		Times(1)
	m.memberWithRoles(nil)
	m.streaks.EXPECT().
		Total(gomock.Any(), guild, user).
		Return(0, context.Canceled)

	res, err := s.ApplyXPDelta(context.Background(), guild, user, 100, "test")
	if !errors.Is(err, ErrNotSettled) {
		t.Fatalf("ApplyXPDelta() error = %v, want ErrNotSettled", err)
	}
	if res.BaseXP != 100 || res.LevelChanged() {
		t.Errorf("ApplyXPDelta() = %+v", res)
	}
}

func TestService_RecordStreakGainIsNotRetried(t *testing.T) {
	s, m := newTestService(t)
	m.streaks.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		Return(errors.New("connection reset by peer")).
		Times(1)

	_, err := s.RecordStreakGain(context.Background(), guild, user, 7, "Daily", 10)
	if err == nil || errors.Is(err, ErrNotSettled) {
		t.Errorf("RecordStreakGain() error = %v", err)
	}
}

func TestService_RecordStreakGainUnsettled(t *testing.T) {
	s, m := newTestService(t)
	m.streaks.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil).Times(1)
	m.ledger.EXPECT().
		GetOrCreate(gomock.Any(), guild, user).
		Return(&models.UserXP{BaseXP: 0, Level: 1}, nil)
	m.memberWithRoles(nil)
	m.streaks.EXPECT().Total(gomock.Any(), guild, user).Return(0, context.Canceled)

	if _, err := s.RecordStreakGain(context.Background(), guild, user, 7, "Daily", 10); !errors.Is(err, ErrNotSettled) {
		t.Errorf("RecordStreakGain() error = %v, want ErrNotSettled", err)
	}
}
