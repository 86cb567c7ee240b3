package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reliabot/internal/analytics"
	"reliabot/internal/config"
	"reliabot/internal/handler"
	"reliabot/internal/middleware"
	"reliabot/internal/notify"
	"reliabot/internal/repository"
	"reliabot/internal/repository/memory"
	"reliabot/internal/service"
	"reliabot/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Storage is everything the services need from a backend.
type Storage interface {
	service.TaskStore
	service.UserStore
}

type dbStorage struct {
	*repository.TaskRepository
	*repository.UserRepository
}

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
	Logger *zap.Logger

	scheduler *service.Scheduler
	reminders *service.ReminderService
}

// Init opens the configured storage and notifier and builds the server.
func Init(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	var (
		store Storage
		db    *gorm.DB
	)

	switch cfg.Storage {
	case config.StorageMemory:
		store = memory.New()
		logger.Warn("using in-memory storage, data is lost on restart")

	default:
		if cfg.Storage == config.StoragePostgres && cfg.MigrateOnStart {
			if err := repository.Migrate(cfg.PostgresURL(), false); err != nil {
				return nil, fmt.Errorf("migrate database: %w", err)
			}
		}

		var err error
		db, err = repository.Open(cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		store = dbStorage{
			TaskRepository: repository.NewTaskRepository(db),
			UserRepository: repository.NewUserRepository(db),
		}
		logger.Info("connected to database", zap.String("storage", cfg.Storage))
	}

	var notifier service.Notifier = notify.NewLog(logger.Named("checkin"))
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken)
		if err != nil {
			return nil, err
		}
		notifier = tg
	}

	s := New(cfg, logger, store, notifier, prometheus.NewRegistry())
	s.DB = db
	return s, nil
}

// New wires services, handlers and routes on top of store.
func New(cfg *config.Config, logger *zap.Logger, store Storage, notifier service.Notifier, reg *prometheus.Registry) *Server {
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.New(reg)

	// Initialize services
	tasks := service.NewTaskService(store, metrics)
	engine := analytics.NewEngine(store, analytics.Leveling{
		PerCompletion: cfg.XPPerCompletion,
		PerLevel:      cfg.XPPerLevel,
	})
	reminders := service.NewReminderService(store, notifier, metrics, cfg.CheckinMessage, logger.Named("reminders"))

	// Initialize handlers
	taskHandler := handler.NewTaskHandler(tasks)
	analyticsHandler := handler.NewAnalyticsHandler(engine)
	userHandler := handler.NewUserHandler(reminders)
	statusHandler := handler.NewStatusHandler(time.Now())

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(logger.Named("http")),
		metrics.Middleware(),
	)
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Public routes
	r.GET("/status", statusHandler.Status)
	r.GET("/me", middleware.OptionalAuth(cfg.JWTSecret, cfg.SessionCookie), userHandler.Me)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes - require authentication
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret, cfg.SessionCookie))
	{
		// Task routes
		authorized.GET("/tasks/:user_id", taskHandler.List)
		authorized.POST("/task", taskHandler.Create)
		authorized.POST("/done", taskHandler.Done)
		authorized.DELETE("/task/:id", taskHandler.Delete)
		authorized.GET("/completed/:user_id", taskHandler.ListCompleted)
		authorized.DELETE("/completed", taskHandler.ClearCompleted)

		// Analytics routes
		authorized.GET("/analytics/:user_id", analyticsHandler.Analytics)
		authorized.GET("/streak/:user_id", analyticsHandler.Streak)
		authorized.GET("/summary/:user_id", analyticsHandler.Summary)
		authorized.GET("/xp/:user_id", analyticsHandler.XP)
		authorized.GET("/xp_heatmap/:user_id", analyticsHandler.XPHeatmap)

		// Reminder routes
		authorized.PUT("/reminder", userHandler.SetReminder)
		authorized.DELETE("/reminder", userHandler.ClearReminder)
	}

	return &Server{
		Engine:    r,
		Config:    cfg,
		Logger:    logger,
		scheduler: service.NewScheduler(logger.Named("scheduler")),
		reminders: reminders,
	}
}

// Run serves HTTP and the check-in scheduler until SIGINT/SIGTERM.
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if _, err := s.scheduler.ScheduleCheckins(s.reminders); err != nil {
		return fmt.Errorf("schedule check-ins: %w", err)
	}
	s.scheduler.Start()
	defer s.scheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	s.Logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), s.Config.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	if err := s.Close(); err != nil {
		s.Logger.Warn("close database", zap.Error(err))
	}

	s.Logger.Info("server exited properly")
	return nil
}

// Close releases the database connection, if any.
func (s *Server) Close() error {
	if s.DB == nil {
		return nil
	}
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
