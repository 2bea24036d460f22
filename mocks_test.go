package authkit_test

import (
	"context"

	"github.com/rezume/authkit"
	"github.com/stretchr/testify/mock"
)

// MockDirectory implements authkit.UserDirectory
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) FindByEmail(ctx context.Context, email string) (*authkit.Identity, error) {
	args := m.Called(ctx, email)
	if identity, ok := args.Get(0).(*authkit.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockDirectory) Insert(ctx context.Context, identity *authkit.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

// MockSessionStore implements authkit.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Save(ctx context.Context, identity *authkit.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *MockSessionStore) Load(ctx context.Context) (*authkit.Identity, error) {
	args := m.Called(ctx)
	if identity, ok := args.Get(0).(*authkit.Identity); ok {
		return identity, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSessionStore) Clear(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingSink collects activity events in order
type recordingSink struct {
	events []authkit.ActivityEvent
}

func (s *recordingSink) Record(_ context.Context, event authkit.ActivityEvent) error {
	s.events = append(s.events, event)
	return nil
}

// recordingDispatcher collects dispatched actions in order
type recordingDispatcher struct {
	actions []authkit.Action
}

func (d *recordingDispatcher) dispatch(action authkit.Action) {
	d.actions = append(d.actions, action)
}

type testLogger struct{}

func (testLogger) Debug(string, ...any) {}
func (testLogger) Info(string, ...any)  {}
func (testLogger) Warn(string, ...any)  {}
func (testLogger) Error(string, ...any) {}
