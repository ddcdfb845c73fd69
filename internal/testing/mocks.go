// Package testing provides shared test doubles for the remote transport.
package testing

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/halvard/swarmctl/internal/sshx"
)

// MockCommunicator is a testify mock of sshx.Communicator.
type MockCommunicator struct {
	mock.Mock
}

// Execute runs a mocked command.
func (m *MockCommunicator) Execute(ctx context.Context, command string) (string, int, error) {
	args := m.Called(ctx, command)
	return args.String(0), args.Int(1), args.Error(2)
}

// Upload records a mocked file copy.
func (m *MockCommunicator) Upload(ctx context.Context, remotePath string, data []byte, mode os.FileMode) error {
	args := m.Called(ctx, remotePath, data, mode)
	return args.Error(0)
}

var _ sshx.Communicator = (*MockCommunicator)(nil)
