package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"fittrack_backend/internal/checkin"
	"fittrack_backend/internal/common"
	"fittrack_backend/internal/config"
	"fittrack_backend/internal/identity"
	"fittrack_backend/internal/jobs"
	"fittrack_backend/internal/middleware"
	"fittrack_backend/internal/profile"
	"fittrack_backend/internal/role"
	"fittrack_backend/internal/run"
	"fittrack_backend/internal/stats"
	"fittrack_backend/internal/workout"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Identity *identity.Handler
	Profile  *profile.Handler
	Role     *role.Handler
	Workout  *workout.Handler
	Run      *run.Handler
	Checkin  *checkin.Handler
	Stats    *stats.Handler
}

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	statsSnapshotJob *jobs.StatsSnapshotJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	registry *prometheus.Registry,
	verifier middleware.TokenVerifier,
	identities identity.Service,
	checker *role.Checker,
	handlers Handlers,
	statsSnapshotJob *jobs.StatsSnapshotJob,
) *Server {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	authMW := middleware.AuthMiddleware(verifier, identities, logger.Named("AuthMiddleware"))
	adminMW := middleware.RequireRole(checker, common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", healthHandler(db))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	v1 := router.Group("/api/v1")
	handlers.Identity.RegisterRoutes(v1)
	handlers.Profile.RegisterRoutes(v1, authMW)
	handlers.Role.RegisterRoutes(v1, authMW)
	handlers.Workout.RegisterRoutes(v1, authMW)
	handlers.Run.RegisterRoutes(v1, authMW)
	handlers.Checkin.RegisterRoutes(v1, authMW)
	handlers.Stats.RegisterRoutes(v1, authMW, adminMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:       httpServer,
		router:           router,
		cfg:              cfg,
		logger:           logger,
		statsSnapshotJob: statsSnapshotJob,
	}
}

func healthHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			common.RespondWithError(c, common.ErrServiceUnavailable.WithDetails("Database is unreachable."))
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "FitTrack API is healthy!"})
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	if s.statsSnapshotJob != nil {
		if err := s.statsSnapshotJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start stats snapshot job", zap.Error(err))
		}
	} else {
		s.logger.Info("Stats snapshot job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.statsSnapshotJob != nil {
		s.statsSnapshotJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
