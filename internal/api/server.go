package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/causelist/internal/config"
	"github.com/nao1215/causelist/internal/database"
	"github.com/nao1215/causelist/internal/pipeline"
)

// APIKeyHeader carries the API key. The body field api_key is accepted too.
const APIKeyHeader = "X-API-Key"

// ServiceName is reported by the health endpoint.
const ServiceName = "High Court Cause List API"

// HistoryRecorder stores one row per lookup. *database.HistoryDB
// implements it.
type HistoryRecorder interface {
	Record(ctx context.Context, record *database.LookupRecord) (int64, error)
}

// Server serves the HTTP API.
type Server struct {
	runner         pipeline.Runner
	apiKey         string
	defaultBaseURL string
	maxBodySize    int64
	history        HistoryRecorder
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAPIKey sets the key clients must present. With an empty key every
// request to a protected endpoint is rejected.
func WithAPIKey(key string) Option {
	return func(s *Server) {
		s.apiKey = key
	}
}

// WithDefaultBaseURL sets the court website used when a request has no
// base_url.
func WithDefaultBaseURL(baseURL string) Option {
	return func(s *Server) {
		s.defaultBaseURL = baseURL
	}
}

// WithMaxBodySize limits the request body in bytes.
func WithMaxBodySize(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodySize = n
		}
	}
}

// WithHistory records every completed lookup.
func WithHistory(h HistoryRecorder) Option {
	return func(s *Server) {
		s.history = h
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a Server around runner.
func NewServer(runner pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:         runner,
		defaultBaseURL: config.DefaultBaseURL,
		maxBodySize:    config.DefaultMaxRequestBody,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", "The requested endpoint does not exist")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", "The requested method is not allowed for this endpoint")
	})

	r.Get("/health", s.handleHealth)
	r.Post("/fetch-cause-list", s.handleFetchCauseList)

	return r
}

// requestLogger logs one line per request at Info.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		)
	})
}
