package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"healthcare-backend/config"
	deliveryHttp "healthcare-backend/internal/delivery/http"
	"healthcare-backend/internal/delivery/http/handler"
	"healthcare-backend/internal/delivery/http/middleware"
	"healthcare-backend/internal/infrastructure/cache"
	"healthcare-backend/internal/infrastructure/database"
	"healthcare-backend/internal/repository"
	"healthcare-backend/internal/service"
	"healthcare-backend/internal/usecase"
	"healthcare-backend/pkg/jwt"
	"healthcare-backend/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	app.Log = setupLogger(cfg.App.LogLevel)
	app.Log.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			app.Close()
			return nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	app.Server = initializeServer(cfg, app.Log, db, redisClient)

	return app, nil
}

// setupLogger configures the logrus logger. An unknown level falls back to info.
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)

	return log
}

// initializeServer wires repositories, usecases, handlers and middleware into the HTTP server
func initializeServer(cfg *config.Config, log *logrus.Logger, db *gorm.DB, redisClient *redis.Client) *http.Server {
	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	mappingRepo := repository.NewMappingRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	tokenRepo := repository.NewTokenRepository(redisClient)

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, tokenRepo, jwtService, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, mappingRepo, auditService)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, mappingRepo, auditService)
	mappingUsecase := usecase.NewMappingUsecase(db, log, mappingRepo, patientRepo, doctorRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(patientUsecase, customValidator)
	mappingHandler := handler.NewMappingHandler(mappingUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Metrics registry, served on /api/metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenRepo, log)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(redisClient, log, cfg.RateLimit)
	metricsMiddleware := middleware.NewMetricsMiddleware(registry)
	loggingMiddleware := middleware.NewLoggingMiddleware(log)

	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		patientHandler,
		mappingHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		rateLimitMiddleware,
		metricsMiddleware,
		loggingMiddleware,
		registry,
	)

	return &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Run starts the HTTP server and blocks until it is shut down
func (app *App) Run() {
	go func() {
		app.Log.WithFields(logrus.Fields{
			"port": app.Config.App.Port,
			"env":  app.Config.App.Env,
		}).Info("Server starting")
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until SIGINT or SIGTERM, then drains in-flight requests
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	app.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := app.Server.Shutdown(ctx); err != nil {
		app.Log.Errorf("Server forced to shutdown: %v", err)
	}

	app.Close()

	app.Log.Info("Server shutdown complete")
}

// Close releases the database pool and the Redis client
func (app *App) Close() {
	if app.DB != nil {
		if sqlDB, err := app.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
