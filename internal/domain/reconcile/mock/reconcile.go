package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	reconcile "github.com/questbot/questbot/internal/domain/reconcile"
	registry "github.com/questbot/questbot/internal/domain/registry"
	platform "github.com/questbot/questbot/internal/platform"
	gomock "go.uber.org/mock/gomock"
)

// MockRoleTable is a mock of RoleTable interface.
type MockRoleTable struct {
	ctrl     *gomock.Controller
	recorder *MockRoleTableMockRecorder
	isgomock struct{}
}

// MockRoleTableMockRecorder is the mock recorder for MockRoleTable.
type MockRoleTableMockRecorder struct {
	mock *MockRoleTable
}

// NewMockRoleTable creates a new mock instance.
func NewMockRoleTable(ctrl *gomock.Controller) *MockRoleTable {
	mock := &MockRoleTable{ctrl: ctrl}
	mock.recorder = &MockRoleTableMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRoleTable) EXPECT() *MockRoleTableMockRecorder {
	return m.recorder
}

// Classify mocks base method.
func (m *MockRoleTable) Classify(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) (registry.Class, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Classify", ctx, guildID, roleID)
	ret0, _ := ret[0].(registry.Class)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Classify indicates an expected call of Classify.
func (mr *MockRoleTableMockRecorder) Classify(ctx, guildID, roleID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Classify", reflect.TypeOf((*MockRoleTable)(nil).Classify), ctx, guildID, roleID)
}

// LevelRole mocks base method.
func (m *MockRoleTable) LevelRole(ctx context.Context, guildID snowflake.ID, level int) (snowflake.ID, bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "LevelRole", ctx, guildID, level)
	ret0, _ := ret[0].(snowflake.ID)
	ret1, _ := ret[1].(bool)
	ret2, _ := ret[2].(error)
	return ret0, ret1, ret2
}

// LevelRole indicates an expected call of LevelRole.
func (mr *MockRoleTableMockRecorder) LevelRole(ctx, guildID, level any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LevelRole", reflect.TypeOf((*MockRoleTable)(nil).LevelRole), ctx, guildID, level)
}

// Observe mocks base method.
func (m *MockRoleTable) Observe(ctx context.Context, role platform.Role) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "Observe", ctx, role)
}

// Observe indicates an expected call of Observe.
func (mr *MockRoleTableMockRecorder) Observe(ctx, role any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Observe", reflect.TypeOf((*MockRoleTable)(nil).Observe), ctx, role)
}

// MockNotifier is a mock of Notifier interface.
type MockNotifier struct {
	ctrl     *gomock.Controller
	recorder *MockNotifierMockRecorder
	isgomock struct{}
}

// MockNotifierMockRecorder is the mock recorder for MockNotifier.
type MockNotifierMockRecorder struct {
	mock *MockNotifier
}

// NewMockNotifier creates a new mock instance.
func NewMockNotifier(ctrl *gomock.Controller) *MockNotifier {
	mock := &MockNotifier{ctrl: ctrl}
	mock.recorder = &MockNotifierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockNotifier) EXPECT() *MockNotifierMockRecorder {
	return m.recorder
}

// LevelRolesChanged mocks base method.
func (m *MockNotifier) LevelRolesChanged(ctx context.Context, change reconcile.Change) {
	m.ctrl.T.Helper()
	m.ctrl.Call(m, "LevelRolesChanged", ctx, change)
}

// LevelRolesChanged indicates an expected call of LevelRolesChanged.
func (mr *MockNotifierMockRecorder) LevelRolesChanged(ctx, change any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "LevelRolesChanged", reflect.TypeOf((*MockNotifier)(nil).LevelRolesChanged), ctx, change)
}

// MockLevelSource is a mock of LevelSource interface.
type MockLevelSource struct {
	ctrl     *gomock.Controller
	recorder *MockLevelSourceMockRecorder
	isgomock struct{}
}

// MockLevelSourceMockRecorder is the mock recorder for MockLevelSource.
type MockLevelSourceMockRecorder struct {
	mock *MockLevelSource
}

// NewMockLevelSource creates a new mock instance.
func NewMockLevelSource(ctrl *gomock.Controller) *MockLevelSource {
	mock := &MockLevelSource{ctrl: ctrl}
	mock.recorder = &MockLevelSourceMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLevelSource) EXPECT() *MockLevelSourceMockRecorder {
	return m.recorder
}

// SettleLevel mocks base method.
func (m *MockLevelSource) SettleLevel(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SettleLevel", ctx, guildID, userID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SettleLevel indicates an expected call of SettleLevel.
func (mr *MockLevelSourceMockRecorder) SettleLevel(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SettleLevel", reflect.TypeOf((*MockLevelSource)(nil).SettleLevel), ctx, guildID, userID)
}

// MockRunner is a mock of Runner interface.
type MockRunner struct {
	ctrl     *gomock.Controller
	recorder *MockRunnerMockRecorder
	isgomock struct{}
}

// MockRunnerMockRecorder is the mock recorder for MockRunner.
type MockRunnerMockRecorder struct {
	mock *MockRunner
}

// NewMockRunner creates a new mock instance.
func NewMockRunner(ctrl *gomock.Controller) *MockRunner {
	mock := &MockRunner{ctrl: ctrl}
	mock.recorder = &MockRunnerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRunner) EXPECT() *MockRunnerMockRecorder {
	return m.recorder
}

// Reconcile mocks base method.
func (m *MockRunner) Reconcile(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, oldLevel int, newLevel int) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Reconcile", ctx, guildID, userID, oldLevel, newLevel)
	ret0, _ := ret[0].(error)
	return ret0
}

// Reconcile indicates an expected call of Reconcile.
func (mr *MockRunnerMockRecorder) Reconcile(ctx, guildID, userID, oldLevel, newLevel any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Reconcile", reflect.TypeOf((*MockRunner)(nil).Reconcile), ctx, guildID, userID, oldLevel, newLevel)
}
