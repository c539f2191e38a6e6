package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gorm.io/gorm"

	"github.com/hotspotlabs/viewgate/pkg/analytics"
	"github.com/hotspotlabs/viewgate/pkg/areas"
	"github.com/hotspotlabs/viewgate/pkg/audit"
	"github.com/hotspotlabs/viewgate/pkg/gating"
	"github.com/hotspotlabs/viewgate/pkg/portal"
	"github.com/hotspotlabs/viewgate/pkg/tenancy"
	"github.com/hotspotlabs/viewgate/pkg/views"
)

// Server wires the stores and clients into one HTTP router.
type Server struct {
	router      chi.Router
	db          *gorm.DB
	config      *Config
	logger      *slog.Logger
	configs     *gating.Store
	events      *views.Store
	engine      *analytics.Engine
	identity    portal.IdentityClient
	areaDir     areas.Directory
	auditStore  *audit.Store
	auditConfig *audit.Config
	startedAt   time.Time
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the server's logger. Defaults to slog.Default.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithIdentityClient sets the client used to resolve visitor session keys.
// Defaults to a BridgeClient against the configured identity URL.
func WithIdentityClient(client portal.IdentityClient) ServerOption {
	return func(s *Server) {
		s.identity = client
	}
}

// WithAreaDirectory sets the Directory serving area listings. Defaults to
// the history-backed directory over the server's own stores.
func WithAreaDirectory(dir areas.Directory) ServerOption {
	return func(s *Server) {
		s.areaDir = dir
	}
}

// WithAuditConfig overrides the audit configuration. Defaults to the
// environment-driven config.
func WithAuditConfig(cfg *audit.Config) ServerOption {
	return func(s *Server) {
		s.auditConfig = cfg
	}
}

// NewServer creates a Server over the given database handle.
func NewServer(db *gorm.DB, config *Config, opts ...ServerOption) *Server {
	if config == nil {
		config = DefaultConfig()
	}

	s := &Server{
		db:         db,
		config:     config,
		configs:    gating.NewStore(db),
		events:     views.NewStore(db),
		auditStore: audit.NewStore(db),
		startedAt:  time.Now(),
	}
	s.engine = analytics.NewEngine(s.events, s.configs)

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.auditConfig == nil {
		s.auditConfig = audit.ConfigFromEnv()
	}
	if s.identity == nil {
		s.identity = portal.NewBridgeClient(config.IdentityURL)
	}
	if s.areaDir == nil {
		s.areaDir = areas.NewHistoryDirectory(s.events, s.configs)
	}

	return s
}

// Migrate creates or updates the database schema.
func (s *Server) Migrate() error {
	if err := s.configs.AutoMigrate(); err != nil {
		return err
	}
	if err := s.events.AutoMigrate(); err != nil {
		return err
	}
	return s.auditStore.AutoMigrate()
}

// AuditStore exposes the audit store for the retention worker.
func (s *Server) AuditStore() *audit.Store {
	return s.auditStore
}

// AuditConfig exposes the effective audit configuration.
func (s *Server) AuditConfig() *audit.Config {
	return s.auditConfig
}

// MountRoutes creates the HTTP router with all routes mounted.
func (s *Server) MountRoutes() chi.Router {
	s.router = chi.NewRouter()

	// Add common middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(RequestLogger(s.logger))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", tenancy.TenantHeader},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Add audit middleware (captures admin mutations as audit events).
	if s.auditConfig.Enabled {
		s.router.Use(audit.Middleware(s.auditStore, s.auditConfig, s.logger))
		s.logger.Info("audit middleware enabled", "retentionDays", s.auditConfig.RetentionDays)
	}

	// Visitor-facing portal routes.
	s.router.Mount("/api/portal/v1alpha1", portal.NewRouter(s.identity, s.configs, s.events))

	// Admin routes, tenant-scoped by their own routers.
	s.router.Mount("/api/admin/v1alpha1/configs", gating.NewRouter(s.configs))
	s.router.Mount("/api/admin/v1alpha1/stats", analytics.NewRouter(s.engine))
	s.router.Mount("/api/admin/v1alpha1/areas", areas.NewRouter(s.areaDir))
	s.router.Mount("/api/admin/v1alpha1/audit", audit.NewRouter(s.auditStore))

	// Add health endpoints
	s.router.Get("/healthz", s.healthHandler)
	s.router.Get("/livez", s.healthHandler)
	s.router.Get("/readyz", s.readyHandler)

	// Portal player page and assets.
	if s.config.StaticDir != "" {
		s.router.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}

	return s.router
}

// healthHandler returns the liveness status of the server.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	uptime := time.Since(s.startedAt).Round(time.Second).String()

	response := map[string]string{
		"status": "alive",
		"uptime": uptime,
	}

	_ = json.NewEncoder(w).Encode(response)
}

// readyHandler verifies DB connectivity before reporting ready.
func (s *Server) readyHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
}
