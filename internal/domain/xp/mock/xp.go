package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	reconcile "github.com/questbot/questbot/internal/domain/reconcile"
	registry "github.com/questbot/questbot/internal/domain/registry"
	models "github.com/questbot/questbot/internal/gateways/database/models"
	platform "github.com/questbot/questbot/internal/platform"
	gomock "go.uber.org/mock/gomock"
)

// MockLedger is a mock of Ledger interface.
type MockLedger struct {
	ctrl     *gomock.Controller
	recorder *MockLedgerMockRecorder
	isgomock struct{}
}

// MockLedgerMockRecorder is the mock recorder for MockLedger.
type MockLedgerMockRecorder struct {
	mock *MockLedger
}

// NewMockLedger creates a new mock instance.
func NewMockLedger(ctrl *gomock.Controller) *MockLedger {
	mock := &MockLedger{ctrl: ctrl}
	mock.recorder = &MockLedgerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockLedger) EXPECT() *MockLedgerMockRecorder {
	return m.recorder
}

// AddBaseXP mocks base method.
func (m *MockLedger) AddBaseXP(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, delta int) (*models.UserXP, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddBaseXP", ctx, guildID, userID, delta)
	ret0, _ := ret[0].(*models.UserXP)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// AddBaseXP indicates an expected call of AddBaseXP.
func (mr *MockLedgerMockRecorder) AddBaseXP(ctx, guildID, userID, delta any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddBaseXP", reflect.TypeOf((*MockLedger)(nil).AddBaseXP), ctx, guildID, userID, delta)
}

// GetOrCreate mocks base method.
func (m *MockLedger) GetOrCreate(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (*models.UserXP, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetOrCreate", ctx, guildID, userID)
	ret0, _ := ret[0].(*models.UserXP)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetOrCreate indicates an expected call of GetOrCreate.
func (mr *MockLedgerMockRecorder) GetOrCreate(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetOrCreate", reflect.TypeOf((*MockLedger)(nil).GetOrCreate), ctx, guildID, userID)
}

// ListByGuild mocks base method.
func (m *MockLedger) ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.UserXP, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByGuild", ctx, guildID)
	ret0, _ := ret[0].([]*models.UserXP)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByGuild indicates an expected call of ListByGuild.
func (mr *MockLedgerMockRecorder) ListByGuild(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByGuild", reflect.TypeOf((*MockLedger)(nil).ListByGuild), ctx, guildID)
}

// SetLevel mocks base method.
func (m *MockLedger) SetLevel(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, level int) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SetLevel", ctx, guildID, userID, level)
	ret0, _ := ret[0].(error)
	return ret0
}

// SetLevel indicates an expected call of SetLevel.
func (mr *MockLedgerMockRecorder) SetLevel(ctx, guildID, userID, level any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SetLevel", reflect.TypeOf((*MockLedger)(nil).SetLevel), ctx, guildID, userID, level)
}

// MockStreakLog is a mock of StreakLog interface.
type MockStreakLog struct {
	ctrl     *gomock.Controller
	recorder *MockStreakLogMockRecorder
	isgomock struct{}
}

// MockStreakLogMockRecorder is the mock recorder for MockStreakLog.
type MockStreakLogMockRecorder struct {
	mock *MockStreakLog
}

// NewMockStreakLog creates a new mock instance.
func NewMockStreakLog(ctrl *gomock.Controller) *MockStreakLog {
	mock := &MockStreakLog{ctrl: ctrl}
	mock.recorder = &MockStreakLogMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockStreakLog) EXPECT() *MockStreakLogMockRecorder {
	return m.recorder
}

// Record mocks base method.
func (m *MockStreakLog) Record(ctx context.Context, gain *models.StreakRoleGain) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Record", ctx, gain)
	ret0, _ := ret[0].(error)
	return ret0
}

// Record indicates an expected call of Record.
func (mr *MockStreakLogMockRecorder) Record(ctx, gain any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Record", reflect.TypeOf((*MockStreakLog)(nil).Record), ctx, gain)
}

// Total mocks base method.
func (m *MockStreakLog) Total(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Total", ctx, guildID, userID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Total indicates an expected call of Total.
func (mr *MockStreakLogMockRecorder) Total(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Total", reflect.TypeOf((*MockStreakLog)(nil).Total), ctx, guildID, userID)
}

// TotalsByGuild mocks base method.
func (m *MockStreakLog) TotalsByGuild(ctx context.Context, guildID snowflake.ID) (map[snowflake.ID]int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TotalsByGuild", ctx, guildID)
	ret0, _ := ret[0].(map[snowflake.ID]int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TotalsByGuild indicates an expected call of TotalsByGuild.
func (mr *MockStreakLogMockRecorder) TotalsByGuild(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TotalsByGuild", reflect.TypeOf((*MockStreakLog)(nil).TotalsByGuild), ctx, guildID)
}

// MockMembers is a mock of Members interface.
type MockMembers struct {
	ctrl     *gomock.Controller
	recorder *MockMembersMockRecorder
	isgomock struct{}
}

// MockMembersMockRecorder is the mock recorder for MockMembers.
type MockMembersMockRecorder struct {
	mock *MockMembers
}

// NewMockMembers creates a new mock instance.
func NewMockMembers(ctrl *gomock.Controller) *MockMembers {
	mock := &MockMembers{ctrl: ctrl}
	mock.recorder = &MockMembersMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockMembers) EXPECT() *MockMembersMockRecorder {
	return m.recorder
}

// Member mocks base method.
func (m *MockMembers) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (platform.Member, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Member", ctx, guildID, userID)
	ret0, _ := ret[0].(platform.Member)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Member indicates an expected call of Member.
func (mr *MockMembersMockRecorder) Member(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Member", reflect.TypeOf((*MockMembers)(nil).Member), ctx, guildID, userID)
}

// MockClassifier is a mock of Classifier interface.
type MockClassifier struct {
	ctrl     *gomock.Controller
	recorder *MockClassifierMockRecorder
	isgomock struct{}
}

// MockClassifierMockRecorder is the mock recorder for MockClassifier.
type MockClassifierMockRecorder struct {
	mock *MockClassifier
}

// NewMockClassifier creates a new mock instance.
func NewMockClassifier(ctrl *gomock.Controller) *MockClassifier {
	mock := &MockClassifier{ctrl: ctrl}
	mock.recorder = &MockClassifierMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockClassifier) EXPECT() *MockClassifierMockRecorder {
	return m.recorder
}

// Classify mocks base method.
func (m *MockClassifier) Classify(ctx context.Context, guildID snowflake.ID, roleID snowflake.ID) (registry.Class, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Classify", ctx, guildID, roleID)
	ret0, _ := ret[0].(registry.Class)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Classify indicates an expected call of Classify.
func (mr *MockClassifierMockRecorder) Classify(ctx, guildID, roleID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Classify", reflect.TypeOf((*MockClassifier)(nil).Classify), ctx, guildID, roleID)
}

// MockEnqueuer is a mock of Enqueuer interface.
type MockEnqueuer struct {
	ctrl     *gomock.Controller
	recorder *MockEnqueuerMockRecorder
	isgomock struct{}
}

// MockEnqueuerMockRecorder is the mock recorder for MockEnqueuer.
type MockEnqueuerMockRecorder struct {
	mock *MockEnqueuer
}

// NewMockEnqueuer creates a new mock instance.
func NewMockEnqueuer(ctrl *gomock.Controller) *MockEnqueuer {
	mock := &MockEnqueuer{ctrl: ctrl}
	mock.recorder = &MockEnqueuerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockEnqueuer) EXPECT() *MockEnqueuerMockRecorder {
	return m.recorder
}

// Enqueue mocks base method.
func (m *MockEnqueuer) Enqueue(job reconcile.Job) bool {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Enqueue", job)
	ret0, _ := ret[0].(bool)
	return ret0
}

// Enqueue indicates an expected call of Enqueue.
func (mr *MockEnqueuerMockRecorder) Enqueue(job any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Enqueue", reflect.TypeOf((*MockEnqueuer)(nil).Enqueue), job)
}
