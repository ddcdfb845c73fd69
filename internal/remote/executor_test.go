package remote

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/halvard/swarmctl/internal/sshx"
	testutil "github.com/halvard/swarmctl/internal/testing"
)

type recordingSink struct {
	results []Result
}

func (r *recordingSink) Record(res Result) {
	r.results = append(r.results, res)
}

func newTestExecutor(fleet testutil.Fleet, rec Recorder) *Executor {
	return NewExecutor(fleet.Dialer(), zerolog.Nop(), rec, false)
}

func TestRun_Success(t *testing.T) {
	t.Parallel()
	fleet := testutil.Fleet{
		"10.0.1.5": {Rules: []testutil.Rule{
			{Match: "docker version", Output: "24.0.7\n", Code: 0},
		}},
	}
	sink := &recordingSink{}
	exec := newTestExecutor(fleet, sink)

	result := exec.Run(context.Background(), "10.0.1.5", "probe engine", "docker version --format '{{.Server.Version}}'")

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "24.0.7\n", result.Output)
	assert.Equal(t, "probe engine", result.Description)
	require.Len(t, sink.results, 1)
	assert.Equal(t, result, sink.results[0])
}

func TestRun_CommandFailure(t *testing.T) {
	t.Parallel()
	fleet := testutil.Fleet{
		"10.0.1.6": {Rules: []testutil.Rule{
			{Match: "swarm join", Output: "Error response from daemon: invalid join token\n", Code: 1},
		}},
	}
	sink := &recordingSink{}
	exec := newTestExecutor(fleet, sink)

	result := exec.Run(context.Background(), "10.0.1.6", "join cluster", "docker swarm join --token T 10.0.1.5:2377")

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.ExitCode)
	assert.Contains(t, result.Output, "invalid join token")
	require.Len(t, sink.results, 1)
	assert.False(t, sink.results[0].Success)
}

func TestRun_TransportFailure(t *testing.T) {
	t.Parallel()
	fleet := testutil.Fleet{
		"10.0.1.7": {Rules: []testutil.Rule{
			{Match: "docker", Code: -1, Err: errors.New("transport failure on 10.0.1.7: dial tcp: timeout")},
		}},
	}
	sink := &recordingSink{}
	exec := newTestExecutor(fleet, sink)

	result := exec.Run(context.Background(), "10.0.1.7", "probe engine", "docker version")

	assert.False(t, result.Success)
	assert.Equal(t, -1, result.ExitCode)
	assert.Contains(t, result.Output, "transport failure")
}

func TestRun_RedactsSecrets(t *testing.T) {
	t.Parallel()
	const token = "SWMTKN-1-abcdef0123456789-secretsecret"
	fleet := testutil.Fleet{
		"10.0.1.6": {Rules: []testutil.Rule{
			{Match: "swarm join", Output: "This node joined a swarm as a worker.\n", Code: 0},
		}},
	}
	sink := &recordingSink{}
	exec := newTestExecutor(fleet, sink)
	exec.Redact(token, "SWMTKN-1-abc…")

	result := exec.Run(context.Background(), "10.0.1.6", "join cluster", "docker swarm join --token "+token+" 10.0.1.5:2377")

	assert.NotContains(t, result.Command, token)
	assert.Contains(t, result.Command, "SWMTKN-1-abc…")
	// The raw command still reached the host untouched.
	require.Len(t, fleet["10.0.1.6"].Commands, 1)
	assert.Contains(t, fleet["10.0.1.6"].Commands[0], token)
}

func TestRun_PassesCommandAndUploadVerbatim(t *testing.T) {
	t.Parallel()
	comm := &testutil.MockCommunicator{}
	comm.On("Execute", mock.Anything, "sudo docker info").Return("{}", 0, nil).Once()
	comm.On("Upload", mock.Anything, "/opt/swarm-setup/install-engine.sh", []byte("#!/bin/sh\n"), os.FileMode(0o755)).
		Return(nil).Once()
	dialer := sshx.Dialer(func(string) sshx.Communicator { return comm })
	exec := NewExecutor(dialer, zerolog.Nop(), nil, true)

	result := exec.Run(context.Background(), "10.0.1.7", "query", "sudo docker info")
	require.True(t, result.Success)

	err := exec.Upload(context.Background(), "10.0.1.7", "/opt/swarm-setup/install-engine.sh", []byte("#!/bin/sh\n"), 0o755)
	require.NoError(t, err)

	comm.AssertExpectations(t)
}

func TestRun_NilRecorder(t *testing.T) {
	t.Parallel()
	fleet := testutil.Fleet{"h": {}}
	exec := NewExecutor(fleet.Dialer(), zerolog.Nop(), nil, true)

	assert.NotPanics(t, func() {
		exec.Run(context.Background(), "h", "noop", "true")
	})
}

func TestRun_ReusesCommunicatorPerHost(t *testing.T) {
	t.Parallel()
	dials := 0
	dialer := sshx.Dialer(func(host string) sshx.Communicator {
		dials++
		return &testutil.FakeHost{}
	})
	exec := NewExecutor(dialer, zerolog.Nop(), nil, false)

	exec.Run(context.Background(), "h1", "a", "true")
	exec.Run(context.Background(), "h1", "b", "true")
	exec.Run(context.Background(), "h2", "c", "true")

	assert.Equal(t, 2, dials)
}

func TestTail(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "c\nd\ne", Tail("a\nb\nc\nd\ne\n"))
	assert.Equal(t, "only", Tail("only\n"))
	assert.Equal(t, "", Tail(""))
}
