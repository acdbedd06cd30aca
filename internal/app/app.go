package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnmate_backend/internal/config"
	"learnmate_backend/internal/controller"
	"learnmate_backend/internal/repository"
	"learnmate_backend/internal/service"
	"learnmate_backend/pkg/database"
	"learnmate_backend/pkg/logger"
	"learnmate_backend/pkg/monitoring"
	"learnmate_backend/pkg/security"
	"learnmate_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user        *repository.UserRepository
	course      *repository.CourseRepository
	milestone   *repository.MilestoneRepository
	quiz        *repository.QuizRepository
	chat        *repository.ChatRepository
	quizContext *repository.QuizContextStore
	quoteCache  *repository.QuoteCache
}

type services struct {
	ai        *service.AIService
	auth      *service.AuthService
	course    *service.CourseService
	quiz      *service.QuizService
	progress  *service.ProgressService
	chat      *service.ChatService
	dashboard *service.DashboardService
	quote     *service.QuoteService
}

type controllers struct {
	auth      *controller.AuthController
	course    *controller.CourseController
	quiz      *controller.QuizController
	progress  *controller.ProgressController
	chat      *controller.ChatController
	dashboard *controller.DashboardController
	quote     *controller.QuoteController
	health    *controller.HealthController
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}
	if cfg.MigrateOnly {
		return &App{Config: cfg, DB: db}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("learnmate-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		router.Use(tracing.GinMiddleware())
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func ginMode(mode string) string {
	switch mode {
	case "release":
		return gin.ReleaseMode
	case "test":
		return gin.TestMode
	}
	return gin.DebugMode
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		course:      repository.NewCourseRepository(db),
		milestone:   repository.NewMilestoneRepository(db),
		quiz:        repository.NewQuizRepository(db),
		chat:        repository.NewChatRepository(db),
		quizContext: repository.NewQuizContextStore(rdb, a.Config.Quiz.ContextTTL),
		quoteCache:  repository.NewQuoteCache(rdb, 7*24*time.Hour),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.ai = service.NewAIService(cfg.AI)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.course = service.NewCourseService(repos.course, repos.milestone, s.ai)
	s.quiz = service.NewQuizService(repos.quiz, repos.course, repos.quizContext, s.ai, cfg, logger.Log)
	s.progress = service.NewProgressService(repos.milestone, repos.quiz, repos.course)
	s.chat = service.NewChatService(repos.chat, s.ai, s.quiz)
	s.dashboard = service.NewDashboardService(repos.course, repos.milestone, repos.quiz)
	s.quote = service.NewQuoteService(repos.quoteCache, s.ai)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth, logger.Log),
		course:    controller.NewCourseController(s.course, logger.Log),
		quiz:      controller.NewQuizController(s.quiz, logger.Log),
		progress:  controller.NewProgressController(s.progress, logger.Log),
		chat:      controller.NewChatController(s.chat, logger.Log),
		dashboard: controller.NewDashboardController(s.dashboard, logger.Log),
		quote:     controller.NewQuoteController(s.quote, logger.Log),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(monitoring.MetricsMiddleware())

	if cfg.RateLimit.MaxRequests > 0 {
		window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, window))
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
