package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-backend/config"
	deliveryHttp "clinic-backend/internal/delivery/http"
	"clinic-backend/internal/delivery/http/handler"
	"clinic-backend/internal/delivery/http/middleware"
	"clinic-backend/internal/infrastructure/cache"
	"clinic-backend/internal/infrastructure/database"
	"clinic-backend/internal/infrastructure/storage"
	"clinic-backend/internal/repository"
	"clinic-backend/internal/service"
	"clinic-backend/internal/usecase"
	"clinic-backend/pkg/jwt"
	"clinic-backend/pkg/metrics"
	"clinic-backend/pkg/validator"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const serviceName = "clinic_backend"

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
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

	// Setup logger
	setupLogger(cfg.App.LogLevel)
	logrus.Info("Configuration loaded successfully")

	// Apply schema migrations
	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(database.MigrationURL(cfg.DB)); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		logrus.Info("Database migrations applied")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient
	logrus.Info("Redis connected successfully")

	// Initialize object storage
	s3Client, err := storage.NewS3Client(context.Background(), cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to configure object storage: %w", err)
	}
	objectStorage := storage.NewS3Storage(s3Client, cfg.Storage, logrus.StandardLogger())
	logrus.Infof("Object storage configured for bucket %s", cfg.Storage.Bucket)

	// Initialize all layers
	app.Server = initializeServer(cfg, db, redisClient, objectStorage)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger(level string) {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, objectStorage *storage.S3Storage) *http.Server {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize JWT service and token store
	jwtService := jwt.NewJWTService(cfg.JWT)
	tokenStore := cache.NewRedisTokenStore(redisClient)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(serviceName, registry)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	medicineRepo := repository.NewMedicineRepository()
	attributeRepo := repository.NewAttributeRepository()
	mediaRepo := repository.NewMedicineMediaRepository()
	medicineCategoryRepo := repository.NewMedicineCategoryRepository()
	brandRepo := repository.NewBrandRepository()
	categoryRepo := repository.NewCategoryRepository()
	serviceRepo := repository.NewServiceRepository()
	doctorServiceRepo := repository.NewDoctorServiceRepository()
	bookingRepo := repository.NewServiceBookingRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	consultationRepo := repository.NewConsultationRepository()
	prescriptionRepo := repository.NewPrescriptionRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize services
	auditService := service.NewAuditService(log, auditLogRepo, collector)
	mediaService := service.NewMediaService(objectStorage, log, collector)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, roleRepo, doctorProfileRepo, patientProfileRepo, auditService, jwtService, tokenStore)
	medicineUsecase := usecase.NewMedicineUsecase(db, log, medicineRepo, attributeRepo, mediaRepo, medicineCategoryRepo, brandRepo, categoryRepo, mediaService, auditService, collector)
	attributeUsecase := usecase.NewAttributeUsecase(db, log, attributeRepo, medicineRepo, auditService)
	catalogUsecase := usecase.NewCatalogUsecase(db, log, brandRepo, categoryRepo)
	serviceUsecase := usecase.NewServiceUsecase(db, log, serviceRepo, doctorServiceRepo, doctorProfileRepo, mediaService, auditService)
	bookingUsecase := usecase.NewServiceBookingUsecase(db, log, bookingRepo, serviceRepo, patientProfileRepo, doctorProfileRepo, appointmentRepo, auditService, collector)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, consultationRepo, bookingRepo, patientProfileRepo, doctorProfileRepo, auditService, collector)
	prescriptionUsecase := usecase.NewPrescriptionUsecase(db, log, prescriptionRepo, patientProfileRepo, doctorProfileRepo, medicineRepo, appointmentRepo, auditService, collector)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator)
	medicineHandler := handler.NewMedicineHandler(medicineUsecase, customValidator)
	attributeHandler := handler.NewAttributeHandler(attributeUsecase, customValidator)
	catalogHandler := handler.NewCatalogHandler(catalogUsecase)
	serviceHandler := handler.NewServiceHandler(serviceUsecase, customValidator)
	bookingHandler := handler.NewServiceBookingHandler(bookingUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	prescriptionHandler := handler.NewPrescriptionHandler(prescriptionUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore, log)
	corsMiddleware := middleware.NewCORSMiddleware()
	metricsMiddleware := middleware.NewMetricsMiddleware(collector)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		medicineHandler,
		attributeHandler,
		catalogHandler,
		serviceHandler,
		bookingHandler,
		appointmentHandler,
		prescriptionHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
		metricsMiddleware,
		collector.Handler(),
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
