package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"smart_assessment_backend/internal/config"
	"smart_assessment_backend/internal/controller"
	"smart_assessment_backend/internal/repository"
	"smart_assessment_backend/internal/service"
	"smart_assessment_backend/internal/util"
	"smart_assessment_backend/pkg/configwatcher"
	"smart_assessment_backend/pkg/database"
	"smart_assessment_backend/pkg/logger"
	"smart_assessment_backend/pkg/monitoring"
	"smart_assessment_backend/pkg/security"
	"smart_assessment_backend/pkg/tracing"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client

	services        *services
	tracerProvider  *sdktrace.TracerProvider
	mu              sync.Mutex
	configCallbacks []func(*config.Config)

	// 后台协程（限流清理、配置监听）随 App 关闭
	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	question  *repository.QuestionRepository
	result    *repository.ResultRepository
	dashboard *repository.DashboardRepository
}

type services struct {
	ai         *service.AIService
	source     *service.QuestionSource
	store      service.SessionStore
	dispatcher *service.ResultDispatcher
	bank       *service.QuestionBankService
	results    *service.ResultService
	assessment *service.AssessmentService
}

type controllers struct {
	exam       *controller.ExamController
	assessment *controller.AssessmentController
	generation *controller.GenerationController
	question   *controller.QuestionController
	result     *controller.ResultController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.mu.Lock()
	a.configCallbacks = append(a.configCallbacks, callback)
	a.mu.Unlock()
}

// ApplyConfig 热加载后把新配置分发给各回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.mu.Lock()
	callbacks := append([]func(*config.Config){}, a.configCallbacks...)
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		question:  repository.NewQuestionRepository(db),
		result:    repository.NewResultRepository(db),
		dashboard: repository.NewDashboardRepository(db),
	}
}

func (a *App) initResultSinks(repos *repositories, cfg *config.Config) []service.ResultSink {
	var sinks []service.ResultSink
	if cfg.ResultSink.Endpoint != "" {
		sinks = append(sinks, service.NewHTTPResultSink(cfg.ResultSink.Endpoint, nil))
	}
	if cfg.ResultSink.Database {
		sinks = append(sinks, service.NewRepositoryResultSink(repos.result))
	}
	if cfg.ResultSink.Archive {
		sinks = append(sinks, service.NewArchiveResultSink(service.NewStorageProvider(&cfg.Storage)))
	}
	return sinks
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI, nil)

	// 配置了外部出题服务时优先使用，否则由 AIService 出题
	var generator service.ExamGenerator = s.ai
	if cfg.Generation.Endpoint != "" {
		generator = service.NewRemoteGenerator(cfg.Generation.Endpoint, nil)
	}
	s.source = service.NewQuestionSource(service.MustLoadPresetCatalog(), generator, cfg.Generation.Timeout)

	switch {
	case cfg.Session.Store == util.SessionStoreRedis && rdb != nil:
		s.store = service.NewRedisSessionStore(rdb, cfg.Session.TTL)
	default:
		if cfg.Session.Store != util.SessionStoreMemory {
			logger.Log.Warn("Session store unavailable, keeping sessions in memory", zap.String("store", cfg.Session.Store))
		}
		s.store = service.NewMemorySessionStore(cfg.Session.TTL)
	}

	s.dispatcher = service.NewResultDispatcher(cfg.ResultSink.Timeout, a.initResultSinks(repos, cfg)...)
	s.bank = service.NewQuestionBankService(repos.question)
	s.results = service.NewResultService(repos.result, repos.dashboard)
	s.assessment = service.NewAssessmentService(s.source, s.store, s.dispatcher, s.bank)

	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.source.SetTimeout(cfg.Generation.Timeout)
		s.ai.UpdateConfig(cfg.AI)
		logger.SetLevel(cfg)
	})

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		exam:       controller.NewExamController(s.source),
		assessment: controller.NewAssessmentController(s.assessment),
		generation: controller.NewGenerationController(s.ai, s.bank, s.source.Timeout),
		question:   controller.NewQuestionController(s.bank),
		result:     controller.NewResultController(s.results),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, cfg.RateLimitWindow()))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// New 用已经建立的连接组装服务，rdb 可以为 nil
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		cancel: cancel,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers)

	return app
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == gin.DebugMode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Session.Store == util.SessionStoreRedis {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		}
	}

	app := New(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerProvider = tp
	}

	return app
}

func (a *App) watchConfig() {
	if a.Config.Path == "" {
		return
	}
	file := filepath.Join(a.Config.Path, "config.yaml")
	go func() {
		if err := configwatcher.WatchConfig(a.ctx, file, a.ApplyConfig); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.String("file", file), zap.Error(err))
		}
	}()
}

// Shutdown 等待成绩上报完成并释放资源
func (a *App) Shutdown(ctx context.Context) {
	if a.services != nil {
		if err := a.services.dispatcher.Close(ctx); err != nil {
			logger.Log.Warn("Result pushes still in flight at shutdown", zap.Error(err))
		}
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	if a.Redis != nil {
		a.Redis.Close()
	}

	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}

	a.cancel()
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	a.watchConfig()

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Shutdown(ctx)
	logger.Log.Info("Server exiting")
}
