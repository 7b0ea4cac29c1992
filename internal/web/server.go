// Package web is the presentation shell: it renders the dashboard pages from
// session state and derived metrics. No business logic lives here; handlers
// build view models out of internal/core and hand them to templates.
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"fiba/internal/api"
	"fiba/internal/cache"
	applog "fiba/internal/log"
	"fiba/internal/session"
	appweb "fiba/web"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// Server serves the dashboard UI.
type Server struct {
	http.Server
	router    *mux.Router
	templates *template.Template
	store     *session.Store
	client    *api.Client
	logger    *applog.Logger

	// analyticsCache avoids refetching the analytics window on every render.
	analyticsCache *cache.LRU[analyticsView]
}

// Config wires the server's collaborators.
type Config struct {
	Addr         string
	Store        *session.Store
	Client       *api.Client
	Logger       *applog.Logger
	CacheTTL     time.Duration
	CacheMaxSize int
}

func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	maxSize := cfg.CacheMaxSize
	if maxSize <= 0 {
		maxSize = 100
	}

	t, err := template.New("").Funcs(templateFuncs()).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:         mux.NewRouter(),
		templates:      t,
		store:          cfg.Store,
		client:         cfg.Client,
		logger:         logger.WithComponent(applog.ComponentWeb),
		analyticsCache: cache.New[analyticsView](maxSize, ttl),
	}
	s.Server = http.Server{
		Addr:    cfg.Addr,
		Handler: s.router,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.router.HandleFunc("/healthz", handleHealth).Methods(http.MethodGet)
	s.router.HandleFunc("/readyz", handleReady).Methods(http.MethodGet)

	s.router.HandleFunc("/", s.withRequest(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})).Methods(http.MethodGet)

	s.router.HandleFunc("/login", s.withRequest(s.handleLogin)).Methods(http.MethodGet)
	s.router.HandleFunc("/dashboard", s.withRequest(s.handleDashboard)).Methods(http.MethodGet)
	s.router.HandleFunc("/transactions", s.withRequest(s.handleTransactions)).Methods(http.MethodGet)
	s.router.HandleFunc("/analytics", s.withRequest(s.handleAnalytics)).Methods(http.MethodGet)
	s.router.HandleFunc("/whatsapp", s.withRequest(s.handleWhatsApp)).Methods(http.MethodGet)
	s.router.HandleFunc("/whatsapp/disconnect", s.withRequest(s.handleDisconnect)).Methods(http.MethodPost)
	s.router.HandleFunc("/profile", s.withRequest(s.handleProfile)).Methods(http.MethodGet)
	s.router.HandleFunc("/profile", s.withRequest(s.handleProfileSave)).Methods(http.MethodPost)
	s.router.HandleFunc("/refresh", s.withRequest(s.handleRefresh)).Methods(http.MethodPost)
}

// Router exposes the handler for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// withRequest adds security headers, a request ID, and request logging.
func (s *Server) withRequest(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")

		rw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			applog.FieldRequestID, requestID,
			applog.FieldMethod, r.Method,
			applog.FieldPath, r.URL.Path,
			applog.FieldStatusCode, rw.statusCode,
			applog.FieldDuration, time.Since(start).Milliseconds())
	}
}

type requestIDKey struct{}

type statusWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.ErrorContext(r.Context(), "Template execution failed",
			applog.FieldError, err.Error(),
			"template", name)
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}
