// Package daemon provides the long-running background call monitor service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/store"
)

// LoadFunc returns the current call records.
type LoadFunc func() ([]model.CallRecord, error)

// Config controls the daemon runtime behavior.
type Config struct {
	DataDir        string
	Days           int
	Direction      string
	UseCache       bool
	Watch          bool
	Interval       time.Duration
	Addr           string
	EventsBuffer   int
	PageSize       int
	Location       *time.Location
	AllowedOrigins []string
	Logger         zerolog.Logger

	// Load overrides the data-directory loader.
	Load LoadFunc
}

// Snapshot is a compact call state for status/event payloads.
type Snapshot struct {
	At                time.Time `json:"at"`
	Total             int       `json:"total"`
	Answered          int       `json:"answered"`
	Missed            int       `json:"missed"`
	InProgress        int       `json:"in_progress"`
	CallsToday        int       `json:"calls_today"`
	AnsweredToday     int       `json:"answered_today"`
	MissedToday       int       `json:"missed_today"`
	AnswerRate        float64   `json:"answer_rate"`
	AvgDurationMs     float64   `json:"avg_duration_ms"`
	PositiveSentiment *float64  `json:"positive_sentiment"`
}

// Delta captures snapshot deltas between polls.
type Delta struct {
	Total      int `json:"total"`
	Answered   int `json:"answered"`
	Missed     int `json:"missed"`
	InProgress int `json:"in_progress"`
	CallsToday int `json:"calls_today"`
}

func (d Delta) isZero() bool {
	return d.Total == 0 &&
		d.Answered == 0 &&
		d.Missed == 0 &&
		d.InProgress == 0 &&
		d.CallsToday == 0
}

// Event types.
const (
	EventSnapshot   = "snapshot"
	EventCallsDelta = "calls_delta"
)

// Event is emitted whenever the call snapshot changes.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Snapshot  Snapshot  `json:"snapshot"`
	Delta     Delta     `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time `json:"started_at"`
	LastPollAt      time.Time `json:"last_poll_at"`
	PollIntervalSec int       `json:"poll_interval_sec"`
	PollCount       int64     `json:"poll_count"`
	DataDir         string    `json:"data_dir"`
	Days            int       `json:"days"`
	Direction       string    `json:"direction,omitempty"`
	Watching        bool      `json:"watching"`
	Summary         Snapshot  `json:"summary"`
	LastError       string    `json:"last_error,omitempty"`
	EventCount      int       `json:"event_count"`
	SubscriberCount int       `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg Config
	log zerolog.Logger

	trigger chan struct{}

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	watching    bool
	hasSnapshot bool
	snapshot    Snapshot
	stats       model.AggregateStats
	records     []model.CallRecord
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config) *Service {
	if cfg.Interval < 2*time.Second {
		cfg.Interval = 10 * time.Second
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.PageSize < 1 {
		cfg.PageSize = 10
	}
	if cfg.Location == nil {
		cfg.Location = time.Local
	}

	s := &Service{
		cfg:       cfg,
		log:       cfg.Logger.With().Str("component", "daemon").Logger(),
		trigger:   make(chan struct{}, 1),
		startedAt: time.Now(),
		subs:      make(map[int]chan Event),
	}
	if s.cfg.Load == nil {
		s.cfg.Load = s.loadFromDisk
	}
	return s
}

// Run starts HTTP endpoints, the optional file watcher and polling until ctx
// is canceled.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if s.cfg.Watch {
		stop, err := s.watch(ctx)
		if err != nil {
			s.log.Warn().Err(err).Str("dir", s.cfg.DataDir).Msg("file watcher disabled")
		} else {
			defer stop()
		}
	}

	// Seed initial snapshot so status is useful immediately.
	s.pollOnce()
	s.log.Info().Str("addr", s.cfg.Addr).Dur("interval", s.cfg.Interval).Msg("daemon started")

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		case <-ticker.C:
			s.pollOnce()
		case <-s.trigger:
			s.pollOnce()
		case err := <-errCh:
			return fmt.Errorf("daemon http server: %w", err)
		}
	}
}

// requestPoll asks the run loop for an early poll; repeated requests coalesce.
func (s *Service) requestPoll() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

func (s *Service) pollOnce() {
	records, err := s.cfg.Load()
	if err != nil {
		s.mu.Lock()
		s.lastError = err.Error()
		s.lastPollAt = time.Now()
		s.pollCount++
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}

	now := time.Now().In(s.cfg.Location)
	filtered := records
	if s.cfg.Days > 0 {
		filtered = pipeline.FilterByTime(filtered, now.AddDate(0, 0, -s.cfg.Days), time.Time{})
	}
	filtered = pipeline.FilterByDirection(filtered, s.cfg.Direction)
	filtered = pipeline.SortNewestFirst(filtered)

	stats := pipeline.Aggregate(filtered, now)
	snap := snapshotFromStats(stats, now)

	var (
		ev      Event
		publish bool
	)

	s.mu.Lock()
	prev := s.snapshot
	prevExists := s.hasSnapshot

	s.hasSnapshot = true
	s.snapshot = snap
	s.stats = stats
	s.records = filtered
	s.lastPollAt = now
	s.pollCount++
	s.lastError = ""

	if !prevExists {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventSnapshot, Timestamp: now, Snapshot: snap}
		publish = true
	} else if delta := diffSnapshots(prev, snap); !delta.isZero() {
		s.nextEventID++
		ev = Event{ID: s.nextEventID, Type: EventCallsDelta, Timestamp: now, Snapshot: snap, Delta: delta}
		publish = true
	}
	s.mu.Unlock()

	s.log.Debug().Int("calls", snap.Total).Bool("changed", publish).Msg("poll complete")
	if publish {
		s.publishEvent(ev)
	}
}

func (s *Service) loadFromDisk() ([]model.CallRecord, error) {
	if s.cfg.UseCache {
		cache, err := store.Open(pipeline.CachePath())
		if err == nil {
			defer func() { _ = cache.Close() }()
			cr, loadErr := pipeline.LoadWithCache(s.cfg.DataDir, cache, nil)
			if loadErr == nil {
				return cr.Calls, nil
			}
			s.log.Warn().Err(loadErr).Msg("cached load failed, reparsing")
		}
	}

	result, err := pipeline.Load(s.cfg.DataDir, nil)
	if err != nil {
		return nil, err
	}
	return result.Calls, nil
}

func snapshotFromStats(stats model.AggregateStats, at time.Time) Snapshot {
	return Snapshot{
		At:                at,
		Total:             stats.Total,
		Answered:          stats.Answered,
		Missed:            stats.Missed,
		InProgress:        stats.InProgress,
		CallsToday:        stats.CallsToday,
		AnsweredToday:     stats.AnsweredToday,
		MissedToday:       stats.MissedToday,
		AnswerRate:        stats.AnswerRate,
		AvgDurationMs:     stats.AvgDurationMs,
		PositiveSentiment: stats.PositiveSentiment,
	}
}

func diffSnapshots(prev, curr Snapshot) Delta {
	return Delta{
		Total:      curr.Total - prev.Total,
		Answered:   curr.Answered - prev.Answered,
		Missed:     curr.Missed - prev.Missed,
		InProgress: curr.InProgress - prev.InProgress,
		CallsToday: curr.CallsToday - prev.CallsToday,
	}
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		PollIntervalSec: int(s.cfg.Interval.Seconds()),
		PollCount:       s.pollCount,
		DataDir:         s.cfg.DataDir,
		Days:            s.cfg.Days,
		Direction:       s.cfg.Direction,
		Watching:        s.watching,
		Summary:         s.snapshot,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
