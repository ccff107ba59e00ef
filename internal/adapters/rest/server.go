// Package rest exposes the team, player and game collections over HTTP.
package rest

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leaguestore/internal/core"
	"leaguestore/internal/observability"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Server routes HTTP requests to a core.Service.
type Server struct {
	svc     *core.Service
	logger  *zap.SugaredLogger
	metrics *observability.Metrics
	mux     *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics counts requests and serves the registry at /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer registers every route.
func NewServer(svc *core.Service, opts ...Option) *Server {
	s := &Server{svc: svc, logger: zap.NewNop().Sugar(), mux: http.NewServeMux()}
	for _, opt := range opts {
		opt(s)
	}

	s.mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "NBA teams API", "_links": rootLinks()})
	})
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	registerEntity(s, teamRoutes(svc.Teams))
	registerEntity(s, playerRoutes(svc.Players))
	registerEntity(s, gameRoutes(svc.Games))
	s.mux.HandleFunc("GET /api/games/details/{id}", s.handleGameDetails)
	if s.metrics != nil {
		s.mux.Handle("GET /metrics", s.metrics.Handler())
	}
	return s
}

// Handler returns the routed handler wrapped in request middleware.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.mux
	if s.metrics != nil {
		h = s.metrics.InstrumentHandler(h)
	}
	return s.withRequestLog(h)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func (s *Server) withRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w}
		started := time.Now()
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		s.logger.Infow("http request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"bytes", rec.bytes,
			"duration", time.Since(started),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.svc.Check(r.Context())
	status := http.StatusOK
	if err != nil {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{"driver": s.svc.Driver(), "extents": statuses})
}

func (s *Server) handleGameDetails(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	details, err := s.svc.GameDetails(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	related := links{
		"self":        {Href: "/api/games/details/" + id, Method: http.MethodGet},
		"update":      {Href: "/api/games/update/" + id, Method: http.MethodPatch},
		"delete":      {Href: "/api/games/delete/" + id, Method: http.MethodDelete},
		"allGames":    {Href: "/api/games", Method: http.MethodGet},
		"homeTeam":    {Href: "/api/teams/" + details.HomeTeam.TeamID, Method: http.MethodGet},
		"visitorTeam": {Href: "/api/teams/" + details.VisitorTeam.TeamID, Method: http.MethodGet},
	}
	writeJSON(w, http.StatusOK, struct {
		core.GameDetails
		Links links `json:"_links"`
	}{details, related})
}

func rootLinks() links {
	return links{
		"teams":   {Href: "/api/teams", Method: http.MethodGet},
		"players": {Href: "/api/players", Method: http.MethodGet},
		"games":   {Href: "/api/games", Method: http.MethodGet},
	}
}
