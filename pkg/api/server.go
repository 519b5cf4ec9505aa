package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/shelfstack/catalog/pkg/auth"
	"github.com/shelfstack/catalog/pkg/httputil"
	"github.com/shelfstack/catalog/pkg/middleware"
	"github.com/shelfstack/catalog/pkg/observability"
)

// Config holds API-level tunables
type Config struct {
	DefaultPageSize    int
	MaxPageSize        int
	MaxBodyBytes       int64
	CORSAllowedOrigins []string
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		DefaultPageSize:    20,
		MaxPageSize:        100,
		MaxBodyBytes:       1 << 20, // 1 MiB
		CORSAllowedOrigins: []string{"*"},
	}
}

// Dependencies bundles everything the server needs wired in
type Dependencies struct {
	Users    UserStore
	Products ProductStore
	Hasher   *auth.PasswordHasher
	Tokens   *auth.TokenService
	Denylist *auth.TokenDenylist // optional
	Health   *observability.HealthChecker
	Metrics  *observability.Metrics
	Logger   *observability.Logger
}

// Server represents our API server
type Server struct {
	router          *mux.Router
	authMW          *middleware.AuthMiddleware
	authHandlers    *AuthHandlers
	productHandlers *ProductHandlers
}

// NewServer creates a new API server with all routes and middleware wired
func NewServer(cfg Config, deps Dependencies) *Server {
	if cfg.DefaultPageSize <= 0 || cfg.MaxPageSize <= 0 || cfg.MaxBodyBytes <= 0 {
		defaults := DefaultConfig()
		if cfg.DefaultPageSize <= 0 {
			cfg.DefaultPageSize = defaults.DefaultPageSize
		}
		if cfg.MaxPageSize <= 0 {
			cfg.MaxPageSize = defaults.MaxPageSize
		}
		if cfg.MaxBodyBytes <= 0 {
			cfg.MaxBodyBytes = defaults.MaxBodyBytes
		}
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	s := &Server{
		router: mux.NewRouter(),
		authMW: middleware.NewAuthMiddleware(deps.Tokens, deps.Denylist, deps.Logger),
		authHandlers: NewAuthHandlers(
			deps.Users, deps.Hasher, deps.Tokens, deps.Denylist, deps.Logger, deps.Metrics,
		),
		productHandlers: NewProductHandlers(
			deps.Products, deps.Logger, cfg.DefaultPageSize, cfg.MaxPageSize,
		),
	}

	s.router.Use(
		httputil.RequestIDMiddleware,
		httputil.LoggingMiddleware(deps.Logger),
		httputil.RecoveryMiddleware(deps.Logger),
		httputil.CORSMiddleware(cfg.CORSAllowedOrigins),
		httputil.MaxBytesMiddleware(cfg.MaxBodyBytes),
		deps.Metrics.Middleware,
	)

	// Public routes
	s.authHandlers.RegisterPublicRoutes(s.router)
	s.router.HandleFunc("/health", deps.Health.Liveness).Methods(http.MethodGet)
	s.router.HandleFunc("/health/ready", deps.Health.Readiness).Methods(http.MethodGet)
	s.router.Handle("/metrics", deps.Metrics.Handler()).Methods(http.MethodGet)

	// Protected routes
	protected := s.router.PathPrefix("/").Subrouter()
	protected.Use(s.authMW.Handler)
	protected.HandleFunc("/logout", s.authHandlers.logout).Methods(http.MethodPost)
	s.productHandlers.RegisterRoutes(protected)

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
