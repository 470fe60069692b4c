// Package server exposes the render pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz  liveness and build version
//	GET  /types    registered chart types
//	GET  /render   render a location: ?source=..&type=..&option.k=v&param.k=v
//	POST /render   render a JSON request, optionally with inline data
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vabarbosa/simple-data-vis/pkg/buildinfo"
	"github.com/vabarbosa/simple-data-vis/pkg/errors"
	"github.com/vabarbosa/simple-data-vis/pkg/pipeline"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

const (
	maxBodyBytes    = 10 << 20
	shutdownTimeout = 5 * time.Second
	requestTimeout  = 60 * time.Second
)

// Server serves rendered charts.
type Server struct {
	Runner *pipeline.Runner
	Logger *log.Logger
	Addr   string

	router chi.Router
}

// New returns a server rendering through runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, nil, logger)
	}
	s := &Server{Runner: runner, Logger: logger, Addr: DefaultAddr}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/types", s.handleTypes)
	r.Get("/render", s.handleRenderQuery)
	r.Post("/render", s.handleRenderBody)
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", s.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "listen on %s", s.Addr)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

type typeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Priority    int    `json:"priority"`
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	descs := s.Runner.Types()
	out := make([]typeInfo, len(descs))
	for i, d := range descs {
		out[i] = typeInfo{Type: d.Type, Description: d.Description, Priority: d.Priority}
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		loggerFrom(r.Context(), s.Logger).Error("request failed", "err", err)
	}
	writeJSON(w, status, errorBody{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: RequestID(r.Context()),
	})
}
