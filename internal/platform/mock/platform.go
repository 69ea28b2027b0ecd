package mock

import (
	context "context"
	reflect "reflect"

	discord "github.com/disgoorg/disgo/discord"
	snowflake "github.com/disgoorg/snowflake/v2"
	platform "github.com/questbot/questbot/internal/platform"
	gomock "go.uber.org/mock/gomock"
)

// MockPlatform is a mock of Platform interface.
type MockPlatform struct {
	ctrl     *gomock.Controller
	recorder *MockPlatformMockRecorder
	isgomock struct{}
}

// MockPlatformMockRecorder is the mock recorder for MockPlatform.
type MockPlatformMockRecorder struct {
	mock *MockPlatform
}

// NewMockPlatform creates a new mock instance.
func NewMockPlatform(ctrl *gomock.Controller) *MockPlatform {
	mock := &MockPlatform{ctrl: ctrl}
	mock.recorder = &MockPlatformMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPlatform) EXPECT() *MockPlatformMockRecorder {
	return m.recorder
}

// AddMemberRole mocks base method.
func (m *MockPlatform) AddMemberRole(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, reason string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddMemberRole", ctx, guildID, userID, roleID, reason)
	ret0, _ := ret[0].(error)
	return ret0
}

// AddMemberRole indicates an expected call of AddMemberRole.
func (mr *MockPlatformMockRecorder) AddMemberRole(ctx, guildID, userID, roleID, reason any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddMemberRole", reflect.TypeOf((*MockPlatform)(nil).AddMemberRole), ctx, guildID, userID, roleID, reason)
}

// AddReaction mocks base method.
func (m *MockPlatform) AddReaction(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, emoji string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "AddReaction", ctx, channelID, messageID, emoji)
	ret0, _ := ret[0].(error)
	return ret0
}

// AddReaction indicates an expected call of AddReaction.
func (mr *MockPlatformMockRecorder) AddReaction(ctx, channelID, messageID, emoji any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "AddReaction", reflect.TypeOf((*MockPlatform)(nil).AddReaction), ctx, channelID, messageID, emoji)
}

// CreateRole mocks base method.
func (m *MockPlatform) CreateRole(ctx context.Context, guildID snowflake.ID, name string, color int, reason string) (platform.Role, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CreateRole", ctx, guildID, name, color, reason)
	ret0, _ := ret[0].(platform.Role)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CreateRole indicates an expected call of CreateRole.
func (mr *MockPlatformMockRecorder) CreateRole(ctx, guildID, name, color, reason any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CreateRole", reflect.TypeOf((*MockPlatform)(nil).CreateRole), ctx, guildID, name, color, reason)
}

// DeleteMessage mocks base method.
func (m *MockPlatform) DeleteMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "DeleteMessage", ctx, channelID, messageID)
	ret0, _ := ret[0].(error)
	return ret0
}

// DeleteMessage indicates an expected call of DeleteMessage.
func (mr *MockPlatformMockRecorder) DeleteMessage(ctx, channelID, messageID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "DeleteMessage", reflect.TypeOf((*MockPlatform)(nil).DeleteMessage), ctx, channelID, messageID)
}

// EditMessage mocks base method.
func (m *MockPlatform) EditMessage(ctx context.Context, channelID snowflake.ID, messageID snowflake.ID, msg discord.MessageUpdate) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "EditMessage", ctx, channelID, messageID, msg)
	ret0, _ := ret[0].(error)
	return ret0
}

// EditMessage indicates an expected call of EditMessage.
func (mr *MockPlatformMockRecorder) EditMessage(ctx, channelID, messageID, msg any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "EditMessage", reflect.TypeOf((*MockPlatform)(nil).EditMessage), ctx, channelID, messageID, msg)
}

// Member mocks base method.
func (m *MockPlatform) Member(ctx context.Context, guildID snowflake.ID, userID snowflake.ID) (platform.Member, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Member", ctx, guildID, userID)
	ret0, _ := ret[0].(platform.Member)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Member indicates an expected call of Member.
func (mr *MockPlatformMockRecorder) Member(ctx, guildID, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Member", reflect.TypeOf((*MockPlatform)(nil).Member), ctx, guildID, userID)
}

// RemoveMemberRole mocks base method.
func (m *MockPlatform) RemoveMemberRole(ctx context.Context, guildID snowflake.ID, userID snowflake.ID, roleID snowflake.ID, reason string) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RemoveMemberRole", ctx, guildID, userID, roleID, reason)
	ret0, _ := ret[0].(error)
	return ret0
}

// RemoveMemberRole indicates an expected call of RemoveMemberRole.
func (mr *MockPlatformMockRecorder) RemoveMemberRole(ctx, guildID, userID, roleID, reason any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RemoveMemberRole", reflect.TypeOf((*MockPlatform)(nil).RemoveMemberRole), ctx, guildID, userID, roleID, reason)
}

// Roles mocks base method.
func (m *MockPlatform) Roles(ctx context.Context, guildID snowflake.ID) ([]platform.Role, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Roles", ctx, guildID)
	ret0, _ := ret[0].([]platform.Role)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Roles indicates an expected call of Roles.
func (mr *MockPlatformMockRecorder) Roles(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Roles", reflect.TypeOf((*MockPlatform)(nil).Roles), ctx, guildID)
}

// SendMessage mocks base method.
func (m *MockPlatform) SendMessage(ctx context.Context, channelID snowflake.ID, msg discord.MessageCreate) (snowflake.ID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SendMessage", ctx, channelID, msg)
	ret0, _ := ret[0].(snowflake.ID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SendMessage indicates an expected call of SendMessage.
func (mr *MockPlatformMockRecorder) SendMessage(ctx, channelID, msg any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SendMessage", reflect.TypeOf((*MockPlatform)(nil).SendMessage), ctx, channelID, msg)
}

// TextChannels mocks base method.
func (m *MockPlatform) TextChannels(ctx context.Context, guildID snowflake.ID) ([]snowflake.ID, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "TextChannels", ctx, guildID)
	ret0, _ := ret[0].([]snowflake.ID)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// TextChannels indicates an expected call of TextChannels.
func (mr *MockPlatformMockRecorder) TextChannels(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "TextChannels", reflect.TypeOf((*MockPlatform)(nil).TextChannels), ctx, guildID)
}
