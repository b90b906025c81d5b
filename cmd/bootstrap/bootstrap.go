package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-management/config"
	deliveryHttp "clinic-management/internal/delivery/http"
	"clinic-management/internal/delivery/http/handler"
	"clinic-management/internal/delivery/http/middleware"
	"clinic-management/internal/domain/scheduling"
	"clinic-management/internal/infrastructure/cache"
	"clinic-management/internal/infrastructure/database"
	"clinic-management/internal/repository"
	"clinic-management/internal/service"
	"clinic-management/internal/usecase"
	"clinic-management/pkg/jwt"
	"clinic-management/pkg/metrics"
	"clinic-management/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client
	Counter     *service.AppointmentCounterService
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	log := setupLogger(cfg.App.LogLevel)
	app.Log = log
	log.Info("Configuration loaded successfully")

	policy, err := cfg.SchedulingPolicy()
	if err != nil {
		return nil, fmt.Errorf("invalid scheduling policy: %w", err)
	}

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB, log); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	db, err := database.NewPostgresConnection(cfg.DB, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	if err := app.initialize(policy); err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// setupLogger configures a JSON logrus logger at the configured level
func setupLogger(level string) *logrus.Logger {
	log := logrus.StandardLogger()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
		log.Warnf("Unknown LOG_LEVEL %q, using info", level)
	}
	log.SetLevel(parsed)

	return log
}

// initialize wires repositories, services, usecases and the HTTP server
func (app *App) initialize(policy scheduling.Policy) error {
	cfg, db, redisClient, log := app.Config, app.DB, app.RedisClient, app.Log

	jwtService := jwt.NewJWTService(cfg.JWT)
	customValidator := validator.NewValidator()
	collector := metrics.NewCollector()
	clock := scheduling.SystemClock{}

	// Repositories
	userRepo := repository.NewUserRepository()
	roleRepo := repository.NewRoleRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	specializationRepo := repository.NewSpecializationRepository()
	doctorRepo := repository.NewDoctorRepository()
	patientRepo := repository.NewPatientRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	medicalRecordRepo := repository.NewMedicalRecordRepository()
	clinicServiceRepo := repository.NewClinicServiceRepository()
	scheduleErrorRepo := repository.NewScheduleErrorRepository()

	// Services
	sessions := service.NewSessionStore(redisClient)
	auditService := service.NewAuditService(log, auditLogRepo, middleware.GetUserIDFromContext)
	counter := service.NewAppointmentCounterService(db, redisClient, log, appointmentRepo, clock)
	app.Counter = counter

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	// workload reads fall back to Postgres, so a failed sync is not fatal
	if err := counter.SyncOnStartup(ctx); err != nil {
		log.Warnf("Failed to sync appointment counters: %+v", err)
	}

	// Usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, jwtService, sessions, auditService, collector)
	userUsecase := usecase.NewUserUsecase(db, log, userRepo, roleRepo, sessions, auditService)
	specializationUsecase := usecase.NewSpecializationUsecase(db, log, specializationRepo, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, doctorRepo, specializationRepo, userRepo, appointmentRepo, auditService, clock)
	patientUsecase := usecase.NewPatientUsecase(db, log, patientRepo, auditService)
	appointmentUsecase := usecase.NewAppointmentUsecase(
		db, log, appointmentRepo, doctorRepo, patientRepo, medicalRecordRepo, scheduleErrorRepo,
		auditService, counter, collector, clock, policy, cfg.Scheduling.DefaultDuration,
	)
	medicalRecordUsecase := usecase.NewMedicalRecordUsecase(db, log, medicalRecordRepo, appointmentRepo, patientRepo, auditService)
	clinicServiceUsecase := usecase.NewClinicServiceUsecase(db, log, clinicServiceRepo, specializationRepo, auditService)
	reportUsecase := usecase.NewReportUsecase(db, log, appointmentRepo, doctorRepo, specializationRepo, scheduleErrorRepo, counter, collector, clock, policy)
	searchUsecase := usecase.NewSearchUsecase(db, log, doctorRepo, clinicServiceRepo, patientRepo)
	auditLogUsecase := usecase.NewAuditLogUsecase(db, log, auditLogRepo)

	if err := userUsecase.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	// Handlers
	handlers := deliveryHttp.Handlers{
		Auth:           handler.NewAuthHandler(authUsecase, customValidator, jwtService),
		User:           handler.NewUserHandler(userUsecase, customValidator),
		Doctor:         handler.NewDoctorHandler(doctorUsecase, appointmentUsecase, customValidator),
		Specialization: handler.NewSpecializationHandler(specializationUsecase, customValidator),
		Patient:        handler.NewPatientHandler(patientUsecase, medicalRecordUsecase, customValidator),
		Appointment:    handler.NewAppointmentHandler(appointmentUsecase, customValidator),
		MedicalRecord:  handler.NewMedicalRecordHandler(medicalRecordUsecase, customValidator),
		ClinicService:  handler.NewClinicServiceHandler(clinicServiceUsecase, customValidator),
		Report:         handler.NewReportHandler(reportUsecase, searchUsecase),
		AuditLog:       handler.NewAuditLogHandler(auditLogUsecase),
		Health:         handler.NewHealthHandler(db, redisClient),
	}

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, sessions)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.AllowedOrigins)

	router := deliveryHttp.NewRouter(handlers, authMiddleware, collector, log)

	app.Server = &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.App.Port),
		Handler:           corsMiddleware.Handle(router.Setup()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	go func() {
		app.Log.Infof("Server starting on port %s", app.Config.App.Port)
		app.Log.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
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

// Close stops background work and closes database and Redis connections
func (app *App) Close() {
	if app.Counter != nil {
		app.Counter.Stop()
	}

	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
