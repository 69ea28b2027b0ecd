package reconcile_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/mock/gomock"

	"github.com/questbot/questbot/internal/domain/reconcile"
	"github.com/questbot/questbot/internal/domain/reconcile/mock"
	"github.com/questbot/questbot/internal/domain/registry"
	"github.com/questbot/questbot/internal/platform"
	platformmock "github.com/questbot/questbot/internal/platform/mock"
)

const (
	guild snowflake.ID = 1
	user  snowflake.ID = 2
)

var levelRoles = map[snowflake.ID]registry.Class{
	101: {Kind: registry.KindLevel, Name: "Level 1", Level: 1},
	102: {Kind: registry.KindLevel, Name: "Level 2", Level: 2},
	103: {Kind: registry.KindLevel, Name: "Level 3", Level: 3},
	5:   {Kind: registry.KindPlain, Name: "Member"},
}

type fixture struct {
	guilds   *platformmock.MockPlatform
	table    *mock.MockRoleTable
	notifier *mock.MockNotifier
	rec      *reconcile.Reconciler
}

func newFixture(t *testing.T) fixture {
	ctrl := gomock.NewController(t)
	f := fixture{
		guilds:   platformmock.NewMockPlatform(ctrl),
		table:    mock.NewMockRoleTable(ctrl),
		notifier: mock.NewMockNotifier(ctrl),
	}
	f.rec = reconcile.NewReconciler(f.guilds, f.table, reconcile.NewLadder(f.guilds, f.table), f.notifier)
	for id, c := range levelRoles {
		f.table.EXPECT().Classify(gomock.Any(), guild, id).Return(c, nil).AnyTimes()
		if c.Kind == registry.KindLevel {
			f.table.EXPECT().LevelRole(gomock.Any(), guild, c.Level).Return(id, true, nil).AnyTimes()
		}
	}
	return f
}

func TestReconcile_ReplacesStaleLevelRoles(t *testing.T) {
	f := newFixture(t)
	f.guilds.EXPECT().
		Member(gomock.Any(), guild, user).
		Return(platform.Member{GuildID: guild, UserID: user, RoleIDs: []snowflake.ID{5, 101, 103}}, nil)
	f.guilds.EXPECT().RemoveMemberRole(gomock.Any(), guild, user, snowflake.ID(101), gomock.Any()).Return(nil)
	f.guilds.EXPECT().RemoveMemberRole(gomock.Any(), guild, user, snowflake.ID(103), gomock.Any()).Return(nil)
	f.guilds.EXPECT().AddMemberRole(gomock.Any(), guild, user, snowflake.ID(102), gomock.Any()).Return(nil)

	var change reconcile.Change
	f.notifier.EXPECT().
		LevelRolesChanged(gomock.Any(), gomock.Any()).
		Do(func(_ context.Context, c reconcile.Change) { change = c })

	if err := f.rec.Reconcile(context.Background(), guild, user, 1, 2); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(change.Removed, []string{"Level 1", "Level 3"}) || change.Added != "Level 2" {
		t.Errorf("change = %+v", change)
	}
}

func TestReconcile_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.guilds.EXPECT().
		Member(gomock.Any(), guild, user).
		Return(platform.Member{GuildID: guild, UserID: user, RoleIDs: []snowflake.ID{5, 102}}, nil)
	// No role edits and no notification expected.

	if err := f.rec.Reconcile(context.Background(), guild, user, 1, 2); err != nil {
		t.Fatal(err)
	}
}

func TestReconcile_MemberGone(t *testing.T) {
	f := newFixture(t)
	f.guilds.EXPECT().
		Member(gomock.Any(), guild, user).
		Return(platform.Member{}, platform.ErrNotFound)

	if err := f.rec.Reconcile(context.Background(), guild, user, 1, 2); err != nil {
		t.Errorf("missing member should not be an error, got %v", err)
	}
}

func TestReconcile_ContinuesPastMissingPermissions(t *testing.T) {
	f := newFixture(t)
	f.guilds.EXPECT().
		Member(gomock.Any(), guild, user).
		Return(platform.Member{GuildID: guild, UserID: user, RoleIDs: []snowflake.ID{101}}, nil)
	f.guilds.EXPECT().
		RemoveMemberRole(gomock.Any(), guild, user, snowflake.ID(101), gomock.Any()).
		Return(platform.ErrMissingPermissions)
	f.guilds.EXPECT().AddMemberRole(gomock.Any(), guild, user, snowflake.ID(103), gomock.Any()).Return(nil)
	f.notifier.EXPECT().LevelRolesChanged(gomock.Any(), gomock.Any())

	if err := f.rec.Reconcile(context.Background(), guild, user, 1, 3); err != nil {
		t.Fatal(err)
	}
}

func TestReconcile_CreatesMissingLadder(t *testing.T) {
	ctrl := gomock.NewController(t)
	guilds := platformmock.NewMockPlatform(ctrl)
	table := mock.NewMockRoleTable(ctrl)
	rec := reconcile.NewReconciler(guilds, table, reconcile.NewLadder(guilds, table), nil)

	guilds.EXPECT().
		Member(gomock.Any(), guild, user).
		Return(platform.Member{GuildID: guild, UserID: user}, nil)
	gomock.InOrder(
		table.EXPECT().LevelRole(gomock.Any(), guild, 1).Return(snowflake.ID(0), false, nil),
		table.EXPECT().LevelRole(gomock.Any(), guild, 1).Return(snowflake.ID(900), true, nil),
	)
	// Every level except 10 is missing.
	guilds.EXPECT().
		Roles(gomock.Any(), guild).
		Return([]platform.Role{{ID: 910, GuildID: guild, Name: "Level 10"}}, nil)
	guilds.EXPECT().
		CreateRole(gomock.Any(), guild, gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, g snowflake.ID, name string, _ int, _ string) (platform.Role, error) {
			return platform.Role{ID: 900, GuildID: g, Name: name}, nil
		}).
		Times(9)
	table.EXPECT().Observe(gomock.Any(), gomock.Any()).Times(9)
	guilds.EXPECT().AddMemberRole(gomock.Any(), guild, user, snowflake.ID(900), gomock.Any()).Return(nil)

	if err := rec.Reconcile(context.Background(), guild, user, 0, 1); err != nil {
		t.Fatal(err)
	}
}

func TestLadder_EnsureCreatesOnlyMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	guilds := platformmock.NewMockPlatform(ctrl)
	table := mock.NewMockRoleTable(ctrl)
	ladder := reconcile.NewLadder(guilds, table)

	existing := make([]platform.Role, 0, 10)
	for i, name := range []string{"Level 1", "Level 2", "Level 4", "Level 5", "Level 6", "Level 7", "Level 8", "Level 9", "Level 10"} {
		existing = append(existing, platform.Role{ID: snowflake.ID(i + 1), Name: name})
	}
	guilds.EXPECT().Roles(gomock.Any(), guild).Return(existing, nil)
	guilds.EXPECT().
		CreateRole(gomock.Any(), guild, "Level 3", gomock.Any(), "Auto-created level role for Level 3").
		Return(platform.Role{ID: 30, GuildID: guild, Name: "Level 3"}, nil)
	table.EXPECT().Observe(gomock.Any(), platform.Role{ID: 30, GuildID: guild, Name: "Level 3"})

	created, err := ladder.Ensure(context.Background(), guild)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(created, []string{"Level 3"}) {
		t.Errorf("Ensure() = %v", created)
	}
}
