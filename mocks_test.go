package enroll_test

import (
	"context"

	"github.com/goliatone/go-enroll"
	"github.com/stretchr/testify/mock"
)

// MockUserTracker implements enroll.UserTracker
type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string) (*enroll.User, error) {
	args := m.Called(ctx, identifier)
	if user, ok := args.Get(0).(*enroll.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *enroll.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *enroll.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockLogger implements enroll.Logger
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

// testIdentity implements enroll.Identity
type testIdentity struct {
	id    string
	email string
	name  string
	role  string
}

func (i testIdentity) ID() string    { return i.id }
func (i testIdentity) Email() string { return i.email }
func (i testIdentity) Name() string  { return i.name }
func (i testIdentity) Role() string  { return i.role }

// MockIdentityProvider mocks the IdentityProvider interface
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (enroll.Identity, error) {
	args := m.Called(ctx, identifier, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(enroll.Identity), args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (enroll.Identity, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(enroll.Identity), args.Error(1)
}
