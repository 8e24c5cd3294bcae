// Package http serves the financeflow JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"financeflow/internal/auth"
	"financeflow/internal/cache"
	"financeflow/internal/core"
	"financeflow/internal/export"
	"financeflow/internal/grocery"
	"financeflow/internal/ledger"
	applog "financeflow/internal/log"
)

const (
	defaultCacheTTL      = 5 * time.Minute
	cacheSize            = 256
	cacheCleanupInterval = 10 * time.Minute
)

// Deps are the services behind the API. Exporter and Ready are optional.
type Deps struct {
	Ledger   *ledger.Service
	Auth     *auth.Service
	Exporter export.RowWriter
	Ready    func(ctx context.Context) error
	Logger   *applog.Logger
}

type Options struct {
	RateLimitPerMinute int
	CacheTTL           time.Duration
	// Now overrides the clock used for periods and export filenames.
	Now func() time.Time
}

type Server struct {
	http.Server
	deps    Deps
	logger  *applog.Logger
	now     func() time.Time
	metrics *securityMetrics

	rateLimiter *rateLimiter

	// Derived views, keyed "<userID>:<view>" and dropped on every mutation.
	statsCache   *cache.LRUCache[core.Summary]
	reportCache  *cache.LRUCache[grocery.Report]
	suggestCache *cache.LRUCache[grocery.Suggestions]
	caches       *cache.Manager

	shutdownOnce sync.Once
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps, opts Options) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		deps:         deps,
		logger:       logger,
		now:          now,
		metrics:      &securityMetrics{},
		rateLimiter:  newRateLimiter(opts.RateLimitPerMinute),
		statsCache:   cache.NewLRUCache[core.Summary](cacheSize, ttl),
		reportCache:  cache.NewLRUCache[grocery.Report](cacheSize, ttl),
		suggestCache: cache.NewLRUCache[grocery.Suggestions](cacheSize, ttl),
		caches:       cache.NewManager(),
	}
	s.caches.Register(s.statsCache)
	s.caches.Register(s.reportCache)
	s.caches.Register(s.suggestCache)
	s.caches.StartCleanup(cacheCleanupInterval)

	s.Handler = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(withRequestID)
	r.Use(applog.Middleware(s.logger))
	r.Use(applog.RequestIDMiddleware(func(r *http.Request) string { return r.Header.Get(requestIDHeader) }))
	r.Use(s.withRequestLogging)
	r.Use(s.withSecurity)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/readyz", s.handleReady).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/categories", s.handleCategories).Methods(http.MethodGet)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(s.requireSession)
	protected.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	protected.HandleFunc("/transactions", s.handleListTransactions).Methods(http.MethodGet)
	protected.HandleFunc("/transactions", s.handleCreateTransaction).Methods(http.MethodPost)
	protected.HandleFunc("/transactions/{id:[0-9]+}", s.handleUpdateTransaction).Methods(http.MethodPut)
	protected.HandleFunc("/transactions/{id:[0-9]+}", s.handleDeleteTransaction).Methods(http.MethodDelete)
	protected.HandleFunc("/balance", s.handleBalance).Methods(http.MethodGet)
	protected.HandleFunc("/statistics", s.handleStatistics).Methods(http.MethodGet)
	protected.HandleFunc("/groceries/report", s.handleGroceryReport).Methods(http.MethodGet)
	protected.HandleFunc("/groceries/suggestions", s.handleGrocerySuggestions).Methods(http.MethodGet)
	protected.HandleFunc("/groceries/items/{name}/history", s.handleItemHistory).Methods(http.MethodGet)
	protected.HandleFunc("/export", s.handleExport).Methods(http.MethodGet)
	protected.HandleFunc("/export/sheets", s.handleExportSheets).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

const requestIDHeader = "X-Request-ID"

// withRequestID reuses an incoming X-Request-ID or generates one, and echoes it.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// withRequestLogging logs the completed request.
func (s *Server) withRequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		applog.LogHTTPEnd(r.Context(), r, rw.statusCode, time.Since(start).Milliseconds(), extractClientIP(r))
	})
}

// withSecurity sets the security headers and rate limits mutating requests.
func (s *Server) withSecurity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		clientIP := extractClientIP(r)
		setSecurityHeaders(w)

		if detectSuspiciousRequest(r, s.metrics) {
			applog.FromContext(ctx).WarnContext(ctx, "Suspicious request",
				applog.NewFields().WithClientIP(clientIP).
					WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")).ToSlice()...)
		}

		if isMutating(r.Method) && !s.rateLimiter.allow(clientIP, s.metrics) {
			applog.FromContext(ctx).WarnContext(ctx, "Rate limit exceeded",
				applog.NewFields().WithClientIP(clientIP).WithComponent(applog.ComponentRateLimit).ToSlice()...)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// requireSession resolves the bearer token and stores the session in the context.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.deps.Auth.Resolve(r.Context(), bearerToken(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		ctx := auth.WithSession(r.Context(), sess)
		logger := applog.FromContext(ctx).With(applog.NewFields().WithUser(sess.User.ID).ToSlice()...)
		next.ServeHTTP(w, r.WithContext(applog.NewContext(ctx, logger)))
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// invalidate drops the cached views of a user after a mutation.
func (s *Server) invalidate(userID string) {
	prefix := userID + ":"
	s.statsCache.DeletePrefix(prefix)
	s.reportCache.DeletePrefix(prefix)
	s.suggestCache.DeletePrefix(prefix)
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.caches.Stop()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			applog.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", "error", err)
			writeError(w, http.StatusServiceUnavailable, "storage unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
