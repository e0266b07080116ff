// Package http exposes the dashboard as a JSON API.
package http

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"earnings/internal/cache"
	"earnings/internal/core"
	"earnings/internal/log"
	"earnings/internal/metrics"
	"earnings/internal/services"
	"earnings/internal/window"
)

// Dashboard is the application state behind the handlers.
// *services.DashboardService implements it.
type Dashboard interface {
	Settings() core.DisplaySettings
	SetCurrency(ctx context.Context, cur core.Currency) error
	Location() *time.Location
	Team() []core.TeamMember
	TeamRollup() []metrics.MemberTotal
	AssigneeName(id string) string
	Project(id string) (core.Project, bool)
	Projects(w window.Window) []core.Project
	CreateProject(ctx context.Context, in core.ProjectInput) (core.Project, error)
	UpdateProject(ctx context.Context, id string, in core.ProjectInput) (core.Project, bool, error)
	DeleteProject(ctx context.Context, id string) bool
	Snapshot(ctx context.Context, w window.Window) services.Snapshot
}

type Server struct {
	http.Server
	svc         Dashboard
	logger      *log.Logger
	rateLimiter *rateLimiter
	security    securityMetrics
	cacheStats  func() cache.Stats

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithCacheStats reports dashboard cache statistics on /healthz.
func WithCacheStats(stats func() cache.Stats) Option {
	return func(s *Server) {
		s.cacheStats = stats
	}
}

// WithRateLimit caps mutating requests per client IP and minute.
func WithRateLimit(perMinute int) Option {
	return func(s *Server) {
		s.rateLimiter = newRateLimiter(perMinute)
	}
}

// NewServer registers the routes and returns a server ready for
// ListenAndServe. A nil logger discards output.
func NewServer(addr string, svc Dashboard, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	s := &Server{
		svc:         svc,
		logger:      logger,
		rateLimiter: newRateLimiter(defaultRateLimit),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.rateLimiter.startCleanup()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/projects", s.handleListProjects)
	mux.HandleFunc("POST /api/projects", s.handleCreateProject)
	mux.HandleFunc("GET /api/projects/{id}", s.handleGetProject)
	mux.HandleFunc("PUT /api/projects/{id}", s.handleUpdateProject)
	mux.HandleFunc("DELETE /api/projects/{id}", s.handleDeleteProject)
	mux.HandleFunc("GET /api/team", s.handleTeam)
	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.handleUpdateSettings)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.withMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// SecurityStats reports rate limit rejections and flagged requests.
func (s *Server) SecurityStats() SecurityStats {
	return s.security.snapshot()
}

// withMiddleware assigns a request ID, attaches a request-scoped logger,
// rate limits mutating methods, sets security headers and logs every request.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	scoped := log.Middleware(s.logger)(log.RequestIDMiddleware(requestIDFromHeader)(s.withGuards(next)))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = generateRequestID()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		scoped.ServeHTTP(w, r)
	})
}

func (s *Server) withGuards(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		reqLogger := log.FromContext(ctx)
		events := log.NewStructuredLogger(reqLogger)
		clientIP := extractClientIP(r)

		events.LogHTTPStart(ctx, r, clientIP)

		if reason := suspiciousReason(r); reason != "" {
			s.security.suspiciousRequests.Add(1)
			reqLogger.WarnContext(ctx, "Suspicious request",
				log.FieldClientIP, clientIP,
				log.FieldPath, r.URL.Path,
				"reason", reason)
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Cache-Control", "no-store")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP) {
			s.security.rateLimitHits.Add(1)
			TooManyRequestsError(strconv.Itoa(int(rateLimitWindow.Seconds()))).Write(rw)
		} else {
			next.ServeHTTP(rw, r)
		}

		events.LogHTTPEnd(ctx, r, rw.statusCode, time.Since(start).Milliseconds(), clientIP)
	})
}

const requestIDHeader = "X-Request-ID"

func requestIDFromHeader(r *http.Request) string {
	return r.Header.Get(requestIDHeader)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}
