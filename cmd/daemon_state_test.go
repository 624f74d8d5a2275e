package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDaemonStateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "callboardd.json")
	want := daemonState{PID: os.Getpid(), Addr: "127.0.0.1:9999", StartedAt: time.Now().UTC().Truncate(time.Second), DataDir: "/data"}

	require.NoError(t, writeDaemonState(path, want))
	got, err := readDaemonState(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestEnsureDaemonNotRunning(t *testing.T) {
	dir := t.TempDir()

	assert.NoError(t, ensureDaemonNotRunning(filepath.Join(dir, "absent.json")))

	live := filepath.Join(dir, "live.json")
	require.NoError(t, writeDaemonState(live, daemonState{PID: os.Getpid()}))
	assert.Error(t, ensureDaemonNotRunning(live))
	assert.FileExists(t, live)

	corrupt := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corrupt, []byte("{not json"), 0o600))
	assert.NoError(t, ensureDaemonNotRunning(corrupt))
	assert.NoFileExists(t, corrupt)
}

func TestWithoutDetach(t *testing.T) {
	got := withoutDetach([]string{"daemon", "--detach", "--addr", ":1", "--detach=true"})
	assert.Equal(t, []string{"daemon", "--addr", ":1"}, got)
}
