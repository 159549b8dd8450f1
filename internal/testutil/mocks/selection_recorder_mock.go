package mocks

import "github.com/stretchr/testify/mock"

// MockSelectionRecorder is a mock implementation of services.SelectionRecorder
type MockSelectionRecorder struct {
	mock.Mock
}

func (m *MockSelectionRecorder) RecordTeamSelection(requirements, selected int, err error) {
	m.Called(requirements, selected, err)
}
