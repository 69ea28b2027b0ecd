package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	registry "github.com/questbot/questbot/internal/domain/registry"
	xp "github.com/questbot/questbot/internal/domain/xp"
	models "github.com/questbot/questbot/internal/gateways/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// CompleteAndAward mocks base method.
func (m *MockRepository) CompleteAndAward(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID, userID snowflake.ID, reward int) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CompleteAndAward", ctx, guildID, messageID, userID, reward)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CompleteAndAward indicates an expected call of CompleteAndAward.
func (mr *MockRepositoryMockRecorder) CompleteAndAward(ctx, guildID, messageID, userID, reward any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CompleteAndAward", reflect.TypeOf((*MockRepository)(nil).CompleteAndAward), ctx, guildID, messageID, userID, reward)
}

// Create mocks base method.
func (m *MockRepository) Create(ctx context.Context, quest *models.Quest) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, quest)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockRepositoryMockRecorder) Create(ctx, quest any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRepository)(nil).Create), ctx, quest)
}

// Delete mocks base method.
func (m *MockRepository) Delete(ctx context.Context, guildID snowflake.ID, messageID snowflake.ID) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, guildID, messageID)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Delete indicates an expected call of Delete.
func (mr *MockRepositoryMockRecorder) Delete(ctx, guildID, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockRepository)(nil).Delete), ctx, guildID, messageID)
}

// DeleteByGuild mocks base method.
func (m *MockRepository) DeleteByGuild(ctx context.Context, guildID snowflake.ID) (int, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteByGuild", ctx, guildID)
	ret0, _ := ret[0].(int)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// DeleteByGuild indicates an expected call of DeleteByGuild.
func (mr *MockRepositoryMockRecorder) DeleteByGuild(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteByGuild", reflect.TypeOf((*MockRepository)(nil).DeleteByGuild), ctx, guildID)
}

// Get mocks base method.
func (m *MockRepository) Get(ctx context.Context, messageID snowflake.ID) (*models.Quest, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, messageID)
	ret0, _ := ret[0].(*models.Quest)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockRepositoryMockRecorder) Get(ctx, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockRepository)(nil).Get), ctx, messageID)
}

// ListByGuild mocks base method.
func (m *MockRepository) ListByGuild(ctx context.Context, guildID snowflake.ID) ([]*models.Quest, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListByGuild", ctx, guildID)
	ret0, _ := ret[0].([]*models.Quest)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListByGuild indicates an expected call of ListByGuild.
func (mr *MockRepositoryMockRecorder) ListByGuild(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListByGuild", reflect.TypeOf((*MockRepository)(nil).ListByGuild), ctx, guildID)
}

// MockAwarder is a mock of Awarder interface.
type MockAwarder struct {
	ctrl     *gomock.Controller
	recorder *MockAwarderMockRecorder
	isgomock struct{}
}

// MockAwarderMockRecorder is the mock recorder for MockAwarder.
type MockAwarderMockRecorder struct {
	mock *MockAwarder
}

// NewMockAwarder creates a new mock instance.
func NewMockAwarder(ctrl *gomock.Controller) *MockAwarder {
	mock := &MockAwarder{ctrl: ctrl}
	mock.recorder = &MockAwarderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockAwarder) EXPECT() *MockAwarderMockRecorder {
	return m.recorder
}

// Recheck mocks base method.
func (m *MockAwarder) Recheck(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, reason string) (xp.Result, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Recheck", ctx, guildID, userID, reason)
	ret0, _ := ret[0].(xp.Result)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Recheck indicates an expected call of Recheck.
func (mr *MockAwarderMockRecorder) Recheck(ctx, guildID, userID, reason any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Recheck", reflect.TypeOf((*MockAwarder)(nil).Recheck), ctx, guildID, userID, reason)
}

// MockSettings is a mock of Settings interface.
type MockSettings struct {
	ctrl     *gomock.Controller
	recorder *MockSettingsMockRecorder
	isgomock struct{}
}

// MockSettingsMockRecorder is the mock recorder for MockSettings.
type MockSettingsMockRecorder struct {
	mock *MockSettings
}

// NewMockSettings creates a new mock instance.
func NewMockSettings(ctrl *gomock.Controller) *MockSettings {
	mock := &MockSettings{ctrl: ctrl}
	mock.recorder = &MockSettingsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSettings) EXPECT() *MockSettingsMockRecorder {
	return m.recorder
}

// Settings mocks base method.
func (m *MockSettings) Settings(ctx context.Context, guildID snowflake.ID) (*registry.Settings, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Settings", ctx, guildID)
	ret0, _ := ret[0].(*registry.Settings)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Settings indicates an expected call of Settings.
func (mr *MockSettingsMockRecorder) Settings(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Settings", reflect.TypeOf((*MockSettings)(nil).Settings), ctx, guildID)
}
