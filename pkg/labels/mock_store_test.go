package labels

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockStore is a mock implementation of Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) ListLabels(ctx context.Context) ([]ObservedLabel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ObservedLabel), args.Error(1)
}

func (m *MockStore) CreateLabel(ctx context.Context, label DesiredLabel) (*ObservedLabel, error) {
	args := m.Called(ctx, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ObservedLabel), args.Error(1)
}

func (m *MockStore) DeleteLabel(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockStore) RepositoryExists(ctx context.Context) (bool, error) {
	args := m.Called(ctx)
	return args.Bool(0), args.Error(1)
}

// MockUpdaterStore additionally supports in-place updates
type MockUpdaterStore struct {
	MockStore
}

func (m *MockUpdaterStore) UpdateLabel(ctx context.Context, currentName string, label DesiredLabel) (*ObservedLabel, error) {
	args := m.Called(ctx, currentName, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ObservedLabel), args.Error(1)
}
