package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	apperrors "github.com/agbru/splashseq/internal/errors"
	"github.com/agbru/splashseq/internal/logging"
	"github.com/agbru/splashseq/internal/presentation"
	"github.com/agbru/splashseq/internal/sequence"
)

// Server timeouts.
const (
	ReadHeaderTimeout = 5 * time.Second
	ShutdownTimeout   = 5 * time.Second
)

// Server serves one splash run.
type Server struct {
	addr     string
	hub      *Hub
	cfg      sequence.Config
	metrics  *Metrics
	logger   logging.Logger
	security SecurityConfig
	http     *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics replaces the server's metrics, typically to share a registry
// with the sequence metrics.
func WithMetrics(m *Metrics) Option { return func(s *Server) { s.metrics = m } }

// WithSecurity replaces DefaultSecurityConfig.
func WithSecurity(c SecurityConfig) Option { return func(s *Server) { s.security = c } }

// New builds a server for the run described by cfg. hub must be registered
// as an observer of that run's controller.
func New(addr string, hub *Hub, cfg sequence.Config, logger logging.Logger, opts ...Option) *Server {
	s := &Server{
		addr:     addr,
		hub:      hub,
		cfg:      cfg,
		logger:   logger,
		security: DefaultSecurityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	routes := map[string]http.HandlerFunc{
		"/directives": s.handleDirectives,
		"/events":     s.handleEvents,
		"/timeline":   s.handleTimeline,
		"/healthz":    s.handleHealth,
		"/metrics":    s.handleMetrics,
	}
	for path, h := range routes {
		mux.HandleFunc(path, SecurityMiddleware(s.security, s.metricsMiddleware(h)))
	}
	return mux
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully. Open event streams are ended first.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return apperrors.WrapError(err, "listen on %s", s.addr)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
	}
	s.logger.Info("http server listening", logging.String("addr", ln.Addr().String()))

	errCh := make(chan error, 1)
	go func() { errCh <- s.http.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("http shutdown", err)
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}

func (s *Server) allowGet(w http.ResponseWriter, r *http.Request) bool {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return true
	}
	s.logger.Debug("method not allowed",
		logging.String("method", r.Method), logging.String("path", r.URL.Path))
	w.Header().Set("Allow", "GET, HEAD")
	http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	return false
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", err)
	}
}

func (s *Server) handleDirectives(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	s.writeJSON(w, s.hub.Directives())
}

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status  string         `json:"status"`
	Phase   sequence.Phase `json:"phase"`
	Version uint64         `json:"version"`
	Streams int            `json:"streams"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	st := s.hub.Latest()
	s.writeJSON(w, HealthResponse{
		Status:  "ok",
		Phase:   st.Phase,
		Version: st.Version,
		Streams: s.hub.Subscribers(),
	})
}

// TimelineEntry is one row of the /timeline body.
type TimelineEntry struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"`
	Anchor   string `json:"anchor"`
	OffsetMS int64  `json:"offset_ms"`
	Effect   string `json:"effect"`
}

// TimelineResponse is the body of /timeline.
type TimelineResponse struct {
	Entries          []TimelineEntry `json:"entries"`
	WordCount        int             `json:"word_count"`
	RotationPeriodMS int64           `json:"rotation_period_ms"`
	EstimatedMS      int64           `json:"estimated_ms"`
}

// NewTimelineResponse describes cfg.
func NewTimelineResponse(cfg sequence.Config) TimelineResponse {
	resp := TimelineResponse{
		Entries:          make([]TimelineEntry, 0, len(cfg.Timeline)),
		WordCount:        cfg.WordCount,
		RotationPeriodMS: cfg.RotationPeriod.Milliseconds(),
		EstimatedMS:      cfg.Duration().Milliseconds(),
	}
	for _, e := range cfg.Timeline {
		resp.Entries = append(resp.Entries, TimelineEntry{
			Name:     e.Name,
			Kind:     e.Kind.String(),
			Anchor:   e.Anchor.String(),
			OffsetMS: e.Offset.Milliseconds(),
			Effect:   e.Effect.String(),
		})
	}
	return resp
}

func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	s.writeJSON(w, NewTimelineResponse(s.cfg))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// handleEvents streams directives as server-sent events until the client
// leaves or the hub closes.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if !s.allowGet(w, r) {
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ch, cancel, err := s.hub.Subscribe()
	if err != nil {
		s.logger.Debug("stream refused", logging.Err(err))
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	defer cancel()

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case d, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, d); err != nil {
				s.logger.Debug("stream write failed", logging.Err(err))
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, d presentation.Directives) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "id: %d\nevent: directives\ndata: %s\n\n", d.Version, data)
	return err
}
