package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/gitgraph"
	"github.com/aretw0/gitgraph/internal/logging"
	"github.com/aretw0/gitgraph/internal/presentation/graph"
	"github.com/aretw0/gitgraph/pkg/domain"
	"github.com/aretw0/gitgraph/pkg/tracker"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes a tracker over HTTP.
type Server struct {
	Tracker *tracker.Tracker
	Streams *StreamManager
	Metrics *Metrics
	Logger  *slog.Logger
}

// Option configures the handler.
type Option func(*handlerConfig)

type handlerConfig struct {
	logger   *slog.Logger
	registry *prometheus.Registry
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *handlerConfig) {
		c.logger = logger
	}
}

// WithRegistry registers the metrics on reg instead of a private registry.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(c *handlerConfig) {
		c.registry = reg
	}
}

// NewHandler creates the HTTP handler for the tracker.
func NewHandler(t *tracker.Tracker, opts ...Option) http.Handler {
	cfg := &handlerConfig{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}

	s := &Server{
		Tracker: t,
		Streams: NewStreamManager(cfg.logger),
		Metrics: NewMetrics(cfg.registry),
		Logger:  cfg.logger,
	}
	t.Subscribe(func(ev tracker.Event) {
		data, _ := json.Marshal(eventPayload{Op: string(ev.Op), ID: ev.ID})
		s.Streams.Broadcast(string(data))
	})
	if stats, err := t.Stats(); err == nil {
		s.Metrics.Nodes.Set(float64(stats.Nodes))
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Post("/nodes", s.PostNode)
	r.Post("/agents", s.PostAgent)
	r.Patch("/agents/{id}", s.PatchAgent)
	r.Get("/nodes/{id}", s.GetNode)
	r.Get("/graph", s.GetGraph)
	r.Delete("/graph", s.DeleteGraph)
	r.Get("/stats", s.GetStats)
	r.Get("/events", s.SubscribeEvents)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// NodeRequest is the body of POST /nodes.
type NodeRequest struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Parents []string `json:"parents,omitempty"`
}

// AgentRequest is the body of POST /agents. An empty ID is replaced by a UUID.
type AgentRequest struct {
	ID       string            `json:"id,omitempty"`
	Name     string            `json:"name"`
	ParentID string            `json:"parent_id,omitempty"`
	WaitsOn  []string          `json:"waits_on,omitempty"`
	State    domain.AgentState `json:"state,omitempty"`
	Activity string            `json:"activity,omitempty"`
	Progress string            `json:"progress,omitempty"`
}

type eventPayload struct {
	Op string `json:"op"`
	ID string `json:"id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// PostNode handles the POST /nodes request.
func (s *Server) PostNode(w http.ResponseWriter, r *http.Request) {
	var body NodeRequest
	if !s.decode(w, r, &body) {
		return
	}
	err := s.Tracker.AddNode(r.Context(), body.ID, body.Label, body.Parents...)
	s.Metrics.mutation(string(tracker.OpAddNode), err)
	if err != nil {
		s.fail(w, "AddNode failed", err)
		return
	}
	s.created(w, body.ID)
}

// PostAgent handles the POST /agents request.
func (s *Server) PostAgent(w http.ResponseWriter, r *http.Request) {
	var body AgentRequest
	if !s.decode(w, r, &body) {
		return
	}
	if body.ID == "" {
		body.ID = uuid.NewString()
	}
	err := s.Tracker.AddAgent(r.Context(), gitgraph.Agent{
		ID:              body.ID,
		Name:            body.Name,
		State:           body.State,
		ParentID:        body.ParentID,
		WaitsOn:         body.WaitsOn,
		CurrentActivity: body.Activity,
		Progress:        body.Progress,
	})
	s.Metrics.mutation(string(tracker.OpAddAgent), err)
	if err != nil {
		s.fail(w, "AddAgent failed", err)
		return
	}
	s.created(w, body.ID)
}

// PatchAgent handles the PATCH /agents/{id} request.
func (s *Server) PatchAgent(w http.ResponseWriter, r *http.Request) {
	var patch tracker.AgentPatch
	if !s.decode(w, r, &patch) {
		return
	}
	if patch.Empty() {
		writeJSON(w, s.Logger, http.StatusBadRequest, errorResponse{Error: "empty patch"})
		return
	}
	node, err := s.Tracker.UpdateAgent(r.Context(), chi.URLParam(r, "id"), patch)
	s.Metrics.mutation(string(tracker.OpUpdateAgent), err)
	if err != nil {
		s.fail(w, "UpdateAgent failed", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, node)
}

// GetNode handles the GET /nodes/{id} request.
func (s *Server) GetNode(w http.ResponseWriter, r *http.Request) {
	node, err := s.Tracker.Node(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetNode failed", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, node)
}

// GetGraph handles the GET /graph request. The format query parameter selects text
// (default), mermaid or json.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "text"
	}
	start := time.Now()

	switch format {
	case "text":
		out, err := s.Tracker.Render()
		if err != nil {
			s.fail(w, "Render failed", err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprintln(w, out)
	case "mermaid":
		var overlay *graph.GraphOverlay
		if focus := r.URL.Query().Get("focus"); focus != "" {
			overlay = &graph.GraphOverlay{Focus: strings.Split(focus, ",")}
		}
		out := graph.GenerateMermaid(s.Tracker.Snapshot().Nodes, overlay)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		fmt.Fprint(w, out)
	case "json":
		writeJSON(w, s.Logger, http.StatusOK, s.Tracker.Snapshot())
	default:
		writeJSON(w, s.Logger, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown format %q", format)})
		return
	}

	s.Metrics.Renders.WithLabelValues(format).Inc()
	s.Metrics.RenderDuration.WithLabelValues(format).Observe(time.Since(start).Seconds())
}

// DeleteGraph handles the DELETE /graph request.
func (s *Server) DeleteGraph(w http.ResponseWriter, r *http.Request) {
	err := s.Tracker.Clear(r.Context())
	s.Metrics.mutation(string(tracker.OpClear), err)
	if err != nil {
		s.fail(w, "Clear failed", err)
		return
	}
	s.Metrics.Nodes.Set(0)
	w.WriteHeader(http.StatusNoContent)
}

// GetStats handles the GET /stats request.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Tracker.Stats()
	if err != nil {
		s.fail(w, "Stats failed", err)
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, stats)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	opts := s.Tracker.Options()
	writeJSON(w, s.Logger, http.StatusOK, map[string]any{
		"app":     "gitgraph-http",
		"version": strings.TrimSpace(gitgraph.Version),
		"key":     s.Tracker.Key(),
		"options": opts,
	})
}

// SubscribeEvents handles the GET /events request (SSE). Each graph mutation is sent
// as a JSON object with the operation and node ID.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Debug("SSE Client Disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		writeJSON(w, s.Logger, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func (s *Server) created(w http.ResponseWriter, id string) {
	node, err := s.Tracker.Node(id)
	if err != nil {
		s.fail(w, "Lookup after insert failed", err)
		return
	}
	if stats, err := s.Tracker.Stats(); err == nil {
		s.Metrics.Nodes.Set(float64(stats.Nodes))
	}
	writeJSON(w, s.Logger, http.StatusCreated, node)
}

func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(msg, "err", err)
	} else {
		s.Logger.Debug(msg, "err", err)
	}
	writeJSON(w, s.Logger, status, errorResponse{Error: err.Error()})
}

// StatusFor maps graph errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownParent),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrInvalidOverlay),
		errors.Is(err, domain.ErrTerminalState),
		errors.Is(err, domain.ErrEmptyID),
		errors.Is(err, domain.ErrCycleDetected):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "err", err)
	}
}
