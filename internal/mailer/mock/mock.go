package mock

import (
	"github.com/stretchr/testify/mock"
)

// NotifierMock records Send calls for tests.
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Send(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}
