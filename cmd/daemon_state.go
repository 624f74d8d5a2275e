package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// daemonState is persisted while a daemon runs; its presence doubles as the
// pid lock.
type daemonState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	StartedAt time.Time `json:"started_at"`
	DataDir   string    `json:"data_dir"`
}

func writeDaemonState(path string, st daemonState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func readDaemonState(path string) (daemonState, error) {
	var st daemonState
	//nolint:gosec // daemon state path is configured by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("reading %s: %w", path, err)
	}
	if st.PID <= 0 {
		return st, fmt.Errorf("invalid pid in %s", path)
	}
	return st, nil
}

// ensureDaemonNotRunning fails if a live daemon owns the state file and
// clears the file when its process is gone.
func ensureDaemonNotRunning(path string) error {
	st, err := readDaemonState(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		_ = os.Remove(path)
		return nil
	}
	if processAlive(st.PID) {
		return fmt.Errorf("daemon already running (pid %d)", st.PID)
	}
	_ = os.Remove(path)
	return nil
}

func processAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
