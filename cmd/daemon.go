package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/callboard/internal/cli"
	"github.com/theirongolddev/callboard/internal/daemon"
	"github.com/theirongolddev/callboard/internal/pipeline"
)

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonStateFile    string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
	flagDaemonNoWatch      bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background call monitor with HTTP/SSE endpoints",
	Long: "Poll the data directory, re-aggregate on every change and serve " +
		"/v1/status, /v1/stats, /v1/calls, /v1/events and /v1/stream.",
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	defaultState := filepath.Join(pipeline.CacheDir(), "callboardd.json")
	defaultLog := filepath.Join(pipeline.CacheDir(), "callboardd.log")

	daemonCmd.PersistentFlags().StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	daemonCmd.PersistentFlags().StringVar(&flagDaemonStateFile, "state-file", defaultState, "Daemon state file (pid, address)")
	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", 0, "Polling interval (default from config)")
	daemonCmd.Flags().StringVar(&flagDaemonLogFile, "log-file", defaultLog, "Log file path for detached mode")
	daemonCmd.Flags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")
	daemonCmd.Flags().BoolVar(&flagDaemonNoWatch, "no-watch", false, "Disable the data directory watcher, poll only")
	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	daemonCmd.Flags().BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// applyDaemonDefaults fills daemon flags left unset from the config file.
func applyDaemonDefaults() {
	if flagDaemonAddr == "" {
		flagDaemonAddr = appCfg.Daemon.Addr
	}
	if flagDaemonInterval == 0 {
		flagDaemonInterval = time.Duration(appCfg.Daemon.IntervalSec) * time.Second
	}
	if flagDaemonEventsBuffer == 0 {
		flagDaemonEventsBuffer = appCfg.Daemon.EventsBuffer
	}
}

func runDaemon(_ *cobra.Command, _ []string) error {
	applyDaemonDefaults()
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("invalid daemon launch mode")
	case flagDaemonDetach:
		return startDaemonDetached()
	default:
		return runDaemonForeground()
	}
}

func startDaemonDetached() error {
	if err := ensureDaemonNotRunning(flagDaemonStateFile); err != nil {
		return err
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	args := append(withoutDetach(os.Args[1:]), "--child")

	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create daemon log directory: %w", err)
	}
	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, args...) //nolint:gosec // exe/args come from current process invocation
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  State: %s\n", flagDaemonStateFile)
	fmt.Printf("  API: http://%s/v1/status\n", flagDaemonAddr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	if err := ensureDaemonNotRunning(flagDaemonStateFile); err != nil {
		return err
	}

	state := daemonState{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		StartedAt: time.Now(),
		DataDir:   flagDataDir,
	}
	if err := writeDaemonState(flagDaemonStateFile, state); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonStateFile) }()

	svc := daemon.New(daemon.Config{
		DataDir:        flagDataDir,
		Days:           flagDays,
		Direction:      flagDirection,
		UseCache:       !flagNoCache,
		Watch:          !flagDaemonNoWatch,
		Interval:       flagDaemonInterval,
		Addr:           flagDaemonAddr,
		EventsBuffer:   flagDaemonEventsBuffer,
		PageSize:       appCfg.Table.PageSize,
		Location:       location(),
		AllowedOrigins: appCfg.Daemon.AllowedOrigins,
		Logger:         log.Logger,
	})

	fmt.Printf("  callboard daemon listening on http://%s\n", flagDaemonAddr)
	fmt.Printf("  Polling every %s from %s\n", flagDaemonInterval, flagDataDir)
	fmt.Printf("  Stop with: callboard daemon stop --state-file %s\n", flagDaemonStateFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(_ *cobra.Command, _ []string) error {
	applyDaemonDefaults()

	state, err := readDaemonState(flagDaemonStateFile)
	if err != nil {
		fmt.Printf("  Daemon: not running (no state file)\n")
		return nil
	}
	if !processAlive(state.PID) {
		fmt.Printf("  Daemon: stale state file (pid %d not alive)\n", state.PID)
		return nil
	}

	addr := flagDaemonAddr
	if state.Addr != "" {
		addr = state.Addr
	}
	fmt.Printf("  Daemon PID: %d (up %s)\n", state.PID, time.Since(state.StartedAt).Round(time.Second))
	fmt.Printf("  Address: http://%s\n", addr)

	st, err := fetchDaemonStatus(addr)
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Printf("  Last poll: pending\n")
	} else {
		fmt.Printf("  Last poll: %s\n", st.LastPollAt.In(location()).Format(time.RFC3339))
	}
	fmt.Printf("  Poll count: %d\n", st.PollCount)
	fmt.Printf("  Watching: %v\n", st.Watching)
	fmt.Printf("  Calls: %s (%s today)\n",
		cli.FormatNumber(int64(st.Summary.Total)), cli.FormatNumber(int64(st.Summary.CallsToday)))
	fmt.Printf("  Answer rate: %s\n", cli.FormatPercent(st.Summary.AnswerRate))
	fmt.Printf("  Avg duration: %s\n", cli.FormatDuration(st.Summary.AvgDurationMs))
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func fetchDaemonStatus(addr string) (*daemon.Status, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	var st daemon.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return nil, fmt.Errorf("malformed response (%w)", err)
	}
	return &st, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	state, err := readDaemonState(flagDaemonStateFile)
	if err != nil {
		return errors.New("daemon is not running")
	}

	proc, err := os.FindProcess(state.PID)
	if err != nil {
		return fmt.Errorf("find daemon process: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon process: %w", err)
	}

	deadline := time.Now().Add(8 * time.Second)
	for time.Now().Before(deadline) {
		if !processAlive(state.PID) {
			_ = os.Remove(flagDaemonStateFile)
			fmt.Printf("  Stopped daemon (pid %d)\n", state.PID)
			return nil
		}
		time.Sleep(150 * time.Millisecond)
	}
	return fmt.Errorf("daemon (pid %d) did not exit in time", state.PID)
}

func withoutDetach(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}
