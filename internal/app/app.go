package app

import (
	"agritrain_backend/internal/config"
	"agritrain_backend/internal/controller"
	"agritrain_backend/internal/middleware"
	"agritrain_backend/internal/repository"
	"agritrain_backend/internal/service"
	"agritrain_backend/internal/util"
	"agritrain_backend/pkg/configwatcher"
	"agritrain_backend/pkg/database"
	"agritrain_backend/pkg/logger"
	"agritrain_backend/pkg/monitoring"
	"agritrain_backend/pkg/security"
	"agritrain_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	ConfigDir       string
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	origins         *security.OriginSet
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)
	// stopBackground ends goroutines owned by middleware.
	stopBackground context.CancelFunc
}

type repositories struct {
	user     *repository.UserRepository
	session  *repository.SessionRepository
	scenario *repository.ScenarioRepository
	quiz     *repository.QuizRepository
	attempt  *repository.AttemptRepository
	progress *repository.ProgressRepository
	catalog  *repository.CatalogCache
}

type services struct {
	auth     *service.AuthService
	session  *service.SessionService
	storage  *service.StorageService
	content  *service.ContentService
	attempt  *service.AttemptService
	progress *service.ProgressService
}

type controllers struct {
	auth     *controller.AuthController
	session  *controller.SessionController
	scenario *controller.ScenarioController
	quiz     *controller.QuizController
	attempt  *controller.AttemptController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, cfg *config.Config) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		session:  repository.NewSessionRepository(db),
		scenario: repository.NewScenarioRepository(db),
		quiz:     repository.NewQuizRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		progress: repository.NewProgressRepository(db),
		catalog:  repository.NewCatalogCache(rdb, cfg.Cache.TTL()),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(&cfg.Storage)
	s.session = service.NewSessionService(repos.session)
	s.auth = service.NewAuthService(repos.user, s.session, cfg.JWT)
	s.content = service.NewContentService(repos.scenario, repos.quiz, repos.catalog, s.storage)
	s.attempt = service.NewAttemptService(repos.quiz, repos.attempt)
	s.progress = service.NewProgressService(repos.progress, repos.scenario)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		session:  controller.NewSessionController(s.session),
		scenario: controller.NewScenarioController(s.content),
		quiz:     controller.NewQuizController(s.content),
		attempt:  controller.NewAttemptController(s.attempt),
		progress: controller.NewProgressController(s.progress),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(ctx context.Context, router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(a.origins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// prepareDatabase runs migrations and seeding as configured.
func prepareDatabase(db *gorm.DB, cfg *config.Config) error {
	if cfg.Database.Migrate || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if cfg.Database.Seed || cfg.ForceSeed {
		if err := database.Seed(db); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// NewApp connects the stores and builds the HTTP router. The logger must
// already be initialised.
func NewApp(cfg *config.Config, configDir string) (*App, error) {
	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	if err := prepareDatabase(db, cfg); err != nil {
		return nil, err
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}

	app := &App{
		Config:    cfg,
		ConfigDir: configDir,
		DB:        db,
		Redis:     rdb,
		origins:   security.NewOriginSet(cfg.CORS.AllowedOrigins),
	}

	app.RegisterConfigCallback(func(next *config.Config) {
		app.origins.Replace(next.CORS.AllowedOrigins)
	})
	app.RegisterConfigCallback(func(next *config.Config) {
		logger.ApplyMode(next.Server.Mode)
	})

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	util.RegisterValidations()
	monitoring.Init()

	repos := app.initRepositories(db, rdb, cfg)
	svcs := app.initServices(repos, cfg)
	ctrls := app.initControllers(svcs, db)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	app.stopBackground = stopBackground

	router := gin.New()
	app.Router = router
	app.setupMiddlewares(bgCtx, router, cfg)
	app.registerRoutes(router, ctrls, middleware.AuthMiddleware(svcs.auth), middleware.ActivityMiddleware(svcs.session))

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app, nil
}

func (a *App) applyConfig(next *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(next)
	}
	logger.Log.Info("configuration reloaded")
}

// Run serves until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if a.ConfigDir != "" {
		go func() {
			if err := configwatcher.WatchConfig(ctx, a.ConfigDir, a.applyConfig); err != nil {
				logger.Log.Warn("config watcher stopped", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:              ":" + a.Config.Server.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}
	logger.Log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
	}

	a.close(shutdownCtx)
	logger.Log.Info("server exited")
	return nil
}

func (a *App) close(ctx context.Context) {
	if a.stopBackground != nil {
		a.stopBackground()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Warn("failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}
