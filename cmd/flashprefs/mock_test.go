package main

import (
	"github.com/cristianoliveira/flashprefs/internal/app"
	"github.com/cristianoliveira/flashprefs/internal/labels"
	"github.com/cristianoliveira/flashprefs/internal/storage/sqlite"
	"github.com/stretchr/testify/mock"
)

type mockService struct {
	mock.Mock
	labels *labels.Labels
}

func (m *mockService) Rows() []app.Row {
	return m.Called().Get(0).([]app.Row)
}

func (m *mockService) Snapshot() map[string]bool {
	return m.Called().Get(0).(map[string]bool)
}

func (m *mockService) Get(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

// Toggle answers the confirmation with the "confirm" argument when the
// expectation sets one.
func (m *mockService) Toggle(name string, confirm app.ConfirmFunc) (bool, error) {
	args := m.Called(name)
	if len(args) > 2 {
		guard := args.String(2)
		if confirm == nil || !confirm(guard, "Enable unsafe mode") {
			return false, args.Error(1)
		}
	}
	return args.Bool(0), args.Error(1)
}

func (m *mockService) Reset() error {
	return m.Called().Error(0)
}

func (m *mockService) Events(limit int) ([]sqlite.EventRow, error) {
	args := m.Called(limit)
	rows, _ := args.Get(0).([]sqlite.EventRow)
	return rows, args.Error(1)
}

func (m *mockService) Labels() *labels.Labels {
	return m.labels
}

func (m *mockService) Close() error {
	return m.Called().Error(0)
}

func openerFor(svc *mockService) serviceOpener {
	return func() (settingsService, error) { return svc, nil }
}
