package main

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	tuiapp "github.com/cristianoliveira/flashprefs/internal/tui/app"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTUIClient struct {
	mock.Mock
}

func (m *mockTUIClient) OpenService() (tuiapp.Service, error) {
	args := m.Called()
	svc, _ := args.Get(0).(tuiapp.Service)
	return svc, args.Error(1)
}

func (m *mockTUIClient) CreateModel(svc tuiapp.Service) tea.Model {
	model, _ := m.Called(svc).Get(0).(tea.Model)
	return model
}

func (m *mockTUIClient) RunProgram(model tea.Model) error {
	return m.Called(model).Error(0)
}

type closer struct {
	tuiapp.Service
	closed bool
}

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func TestTUICmdRunsProgram(t *testing.T) {
	svc := &closer{}
	client := new(mockTUIClient)
	client.On("OpenService").Return(svc, nil)
	client.On("CreateModel", svc).Return(nil)
	client.On("RunProgram", nil).Return(nil)

	_, err := run(t, NewTUICmd(client), "")
	assert.NoError(t, err)
	assert.True(t, svc.closed)
	client.AssertExpectations(t)
}

func TestTUICmdOpenFailure(t *testing.T) {
	boom := errors.New("no store")
	client := new(mockTUIClient)
	client.On("OpenService").Return(nil, boom)

	_, err := run(t, NewTUICmd(client), "")
	assert.ErrorIs(t, err, boom)
	client.AssertNotCalled(t, "RunProgram", mock.Anything)
}
