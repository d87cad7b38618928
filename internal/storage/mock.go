package storage

import (
	"github.com/stretchr/testify/mock"
)

// MockStore is a testify mock of Store.
//
//	store := new(storage.MockStore)
//	store.On("GetAll").Return(map[string]any{"trim": false}, nil)
//	store.On("Set", "trim", true).Return(errors.New("disk full"))
type MockStore struct {
	mock.Mock
}

var _ Store = (*MockStore)(nil)

// GetAll returns the configured map and error.
func (m *MockStore) GetAll() (map[string]any, error) {
	args := m.Called()
	values, _ := args.Get(0).(map[string]any)
	return values, args.Error(1)
}

// Set returns the configured error.
func (m *MockStore) Set(key string, value any) error {
	return m.Called(key, value).Error(0)
}

// Close returns the configured error.
func (m *MockStore) Close() error {
	return m.Called().Error(0)
}
