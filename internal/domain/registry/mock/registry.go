package mock

import (
	context "context"
	reflect "reflect"

	snowflake "github.com/disgoorg/snowflake/v2"
	models "github.com/questbot/questbot/internal/gateways/database/models"
	platform "github.com/questbot/questbot/internal/platform"
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

// Get mocks base method.
func (m *MockRepository) Get(ctx context.Context, guildID snowflake.ID) (*models.GuildSettings, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Get", ctx, guildID)
	ret0, _ := ret[0].(*models.GuildSettings)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Get indicates an expected call of Get.
func (mr *MockRepositoryMockRecorder) Get(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Get", reflect.TypeOf((*MockRepository)(nil).Get), ctx, guildID)
}

// List mocks base method.
func (m *MockRepository) List(ctx context.Context) ([]*models.GuildSettings, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "List", ctx)
	ret0, _ := ret[0].([]*models.GuildSettings)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// List indicates an expected call of List.
func (mr *MockRepositoryMockRecorder) List(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "List", reflect.TypeOf((*MockRepository)(nil).List), ctx)
}

// Save mocks base method.
func (m *MockRepository) Save(ctx context.Context, settings *models.GuildSettings) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Save", ctx, settings)
	ret0, _ := ret[0].(error)
	return ret0
}

// Save indicates an expected call of Save.
func (mr *MockRepositoryMockRecorder) Save(ctx, settings any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Save", reflect.TypeOf((*MockRepository)(nil).Save), ctx, settings)
}

// MockRoleLister is a mock of RoleLister interface.
type MockRoleLister struct {
	ctrl     *gomock.Controller
	recorder *MockRoleListerMockRecorder
	isgomock struct{}
}

// MockRoleListerMockRecorder is the mock recorder for MockRoleLister.
type MockRoleListerMockRecorder struct {
	mock *MockRoleLister
}

// NewMockRoleLister creates a new mock instance.
func NewMockRoleLister(ctrl *gomock.Controller) *MockRoleLister {
	mock := &MockRoleLister{ctrl: ctrl}
	mock.recorder = &MockRoleListerMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRoleLister) EXPECT() *MockRoleListerMockRecorder {
	return m.recorder
}

// Roles mocks base method.
func (m *MockRoleLister) Roles(ctx context.Context, guildID snowflake.ID) ([]platform.Role, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Roles", ctx, guildID)
	ret0, _ := ret[0].([]platform.Role)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Roles indicates an expected call of Roles.
func (mr *MockRoleListerMockRecorder) Roles(ctx, guildID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Roles", reflect.TypeOf((*MockRoleLister)(nil).Roles), ctx, guildID)
}
