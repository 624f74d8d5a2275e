package daemon

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/theirongolddev/callboard/internal/model"
	"github.com/theirongolddev/callboard/internal/pipeline"
	"github.com/theirongolddev/callboard/internal/table"
)

// CallsPage is served at /v1/calls.
type CallsPage struct {
	Rows       []model.ActivityRow `json:"rows"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
	Total      int                 `json:"total"`
}

// Handler returns the daemon HTTP API.
func (s *Service) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(s.log))
	if len(s.cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: s.cfg.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Last-Event-ID"},
			MaxAge:         300,
		}).Handler)
	}

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/status", s.handleStatus)
		r.Get("/stats", s.handleStats)
		r.Get("/calls", s.handleCalls)
		r.Get("/events", s.handleEvents)
		r.Get("/stream", s.handleStream)
	})
	return r
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	stats := s.stats
	ready := s.hasSnapshot
	s.mu.RUnlock()

	if !ready {
		writeError(w, http.StatusServiceUnavailable, errors.New("no data loaded yet"))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleCalls pages through the latest records. Query: page, page_size,
// search, status, direction.
func (s *Service) handleCalls(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	pageSize := s.cfg.PageSize
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("page_size: %w", err))
			return
		}
		if n < 1 {
			writeError(w, http.StatusBadRequest, table.ErrInvalidPageSize)
			return
		}
		pageSize = n
	}
	page := 1
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("page: %w", err))
			return
		}
		page = n
	}

	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	engine, err := pipeline.NewCallTable(records, pageSize, s.cfg.Location, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	engine.SetSearch(q.Get("search"))
	engine.SetFilter(pipeline.FilterStatus, q.Get("status"))
	engine.SetFilter(pipeline.FilterDirection, q.Get("direction"))
	engine.GoToPage(page)

	v := engine.View()
	out := CallsPage{
		Rows:       make([]model.ActivityRow, 0, len(v.Rows)),
		Page:       v.Page,
		PageSize:   v.PageSize,
		TotalPages: v.TotalPages,
		Total:      v.Total,
	}
	for i := range v.Rows {
		out.Rows = append(out.Rows, pipeline.ProjectRow(&v.Rows[i], s.cfg.Location))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Service) handleEvents(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	events := make([]Event, len(s.events))
	copy(events, s.events)
	s.mu.RUnlock()

	writeJSON(w, http.StatusOK, events)
}

func (s *Service) handleStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan Event, 16)
	id := s.addSubscriber(ch)
	defer s.removeSubscriber(id)

	// Send current snapshot immediately.
	current := Event{
		Type:      EventSnapshot,
		Timestamp: time.Now(),
		Snapshot:  s.snapshotStatus().Summary,
	}
	writeSSE(w, current)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev := <-ch:
			writeSSE(w, ev)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		return
	}
	if ev.ID > 0 {
		_, _ = fmt.Fprintf(w, "id: %d\n", ev.ID)
	}
	_, _ = fmt.Fprintf(w, "event: %s\n", ev.Type)
	_, _ = fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
