package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/vtree/internal/config"
	vterrors "github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/memdom"
	"github.com/vango-dev/vtree/pkg/metrics"
	"github.com/vango-dev/vtree/pkg/middleware"
	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/treefile"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// maxTreeBytes bounds a posted tree file.
const maxTreeBytes = 4 << 20

// Server is the mirror HTTP server.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	handlers map[string]vdom.Handler

	doc       *memdom.Document
	renderer  *reconcile.Renderer
	container vdom.Handle
	hub       *Hub
	router    chi.Router

	// mu serializes renders and event dispatch.
	mu      sync.Mutex
	current vdom.Handle

	httpServer *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRegistry sets the Prometheus registry. Default: a fresh registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

// WithHandlers makes named handlers available to posted trees.
func WithHandlers(handlers map[string]vdom.Handler) Option {
	return func(s *Server) {
		s.handlers = handlers
	}
}

// New creates a server from cfg.
func New(cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		cfg = config.New()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	writeTimeout, _ := cfg.WriteTimeout()

	s := &Server{
		cfg:    cfg,
		logger: slog.Default(),
		doc:    memdom.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	s.hub = NewHub(cfg.Serve.Buffer, writeTimeout, s.logger)
	s.hub.snapshot = func() Message {
		return Message{Type: MessageSnapshot, HTML: s.doc.HTML(s.container)}
	}

	ropts := []reconcile.Option{reconcile.WithLogger(s.logger)}
	if cfg.Metrics.Enabled {
		rec := metrics.New(
			metrics.WithRegistry(s.registry),
			metrics.WithNamespace(cfg.Metrics.Namespace),
			metrics.WithSubsystem(cfg.Metrics.Subsystem),
		)
		s.hub.rec = rec
		ropts = append(ropts, reconcile.WithObserver(rec))
	}
	s.renderer = reconcile.New(s.doc, ropts...)

	s.container = s.doc.CreateElement(cfg.Serve.RootTag)
	s.doc.AppendChild(s.doc.Body(), s.container)
	s.current = s.doc.CreateElement("div")
	s.doc.AppendChild(s.container, s.current)
	s.doc.ResetLog()

	s.doc.OnMutation(func(m memdom.Mutation) {
		s.hub.Broadcast(Message{Type: MessageMutation, Mutation: &m})
	})

	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(middleware.OpenTelemetry(middleware.WithTracerName(s.cfg.Trace.TracerName)))
	if s.cfg.Metrics.Enabled {
		r.Use(middleware.Prometheus(
			middleware.WithRegistry(s.registry),
			middleware.WithNamespace(s.cfg.Metrics.Namespace),
		))
	}
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/tree", s.handleTree)
	r.Post("/render", s.handleRender)
	r.Post("/dispatch/{handle}/{event}", s.handleDispatch)
	r.Get("/ws", s.hub.ServeHTTP)
	if s.cfg.Metrics.Enabled {
		r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Document returns the server's document.
func (s *Server) Document() *memdom.Document {
	return s.doc
}

// Container returns the element trees are rendered into.
func (s *Server) Container() vdom.Handle {
	return s.container
}

// Hub returns the websocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// RenderResult is the /render response body.
type RenderResult struct {
	Root   vdom.Handle     `json:"root"`
	Stats  reconcile.Stats `json:"stats"`
	Errors []string        `json:"errors,omitempty"`
}

// Render reconciles tree into the container.
func (s *Server) Render(ctx context.Context, tree *vdom.VNode) (RenderResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.renderer.Render(ctx, s.current, tree)
	if h := tree.Live(); h != 0 {
		s.current = h
	}
	s.doc.Collect()

	res := RenderResult{Root: s.current, Stats: s.renderer.LastStats()}
	if err != nil {
		if j, ok := err.(interface{ Unwrap() []error }); ok {
			for _, e := range j.Unwrap() {
				res.Errors = append(res.Errors, e.Error())
			}
		} else {
			res.Errors = []string{err.Error()}
		}
	}
	s.hub.Broadcast(Message{Type: MessageRender, Stats: res.Stats})
	return res, err
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("format") == "yaml" || q.Get("format") == "json":
		opts := []treefile.Option{treefile.WithHandlers(s.handlers)}
		contentType := "application/yaml"
		if q.Get("format") == "json" {
			opts = append(opts, treefile.AsJSON())
			contentType = "application/json"
		}
		s.mu.Lock()
		tree := s.renderer.Extract(s.current)
		data, err := treefile.Encode(tree, opts...)
		s.mu.Unlock()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	case q.Get("pretty") != "":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, s.doc.Pretty(s.container))
	default:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, s.doc.HTML(s.container))
	}
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxTreeBytes))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, vterrors.New(vterrors.CodeTransport).Wrap(err))
		return
	}
	tree, err := treefile.Decode(body, treefile.WithHandlers(s.handlers))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	res, err := s.Render(r.Context(), tree)
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, res)
}

func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "handle"), 10, 64)
	if err != nil {
		s.writeError(w, http.StatusBadRequest,
			vterrors.New(vterrors.CodeTransport).WithDetail("handle must be a number").Wrap(err))
		return
	}
	h := vdom.Handle(id)
	event := chi.URLParam(r, "event")
	value := r.URL.Query().Get("value")

	// Handlers run without s.mu held so that they may call Render.
	s.mu.Lock()
	attached := s.doc.Attached(h)
	s.mu.Unlock()
	if !attached {
		s.writeError(w, http.StatusNotFound,
			vterrors.New(vterrors.CodeTransport).WithDetailf("no live node #%d", h))
		return
	}

	var called bool
	switch {
	case event == "input" && r.URL.Query().Has("value"):
		if !hasListener(s.doc, h, event) {
			break
		}
		s.doc.Type(h, value)
		called = true
	case event == "change" && r.URL.Query().Has("checked"):
		if !hasListener(s.doc, h, event) {
			break
		}
		checked, _ := strconv.ParseBool(r.URL.Query().Get("checked"))
		s.doc.SetChecked(h, checked)
		called = true
	default:
		called = s.doc.Dispatch(h, vdom.Event{Type: event, Value: value})
	}

	if !called {
		s.writeError(w, http.StatusNotFound,
			vterrors.New(vterrors.CodeTransport).WithDetailf("#%d has no %s listener", h, event))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func hasListener(doc *memdom.Document, h vdom.Handle, event string) bool {
	for _, ev := range doc.Listeners(h) {
		if ev == event {
			return true
		}
	}
	return false
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	var ve *vterrors.Error
	if !errors.As(err, &ve) {
		ve = vterrors.FromError(err, vterrors.CodeTransport)
	}
	s.logger.Warn("mirror request failed", "status", status, "code", ve.Code, "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, ve.FormatJSON())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Serve.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("mirror starting", "address", s.cfg.Serve.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mirror: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes client connections and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.hub.Close()
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("mirror shutdown complete")
	return nil
}
