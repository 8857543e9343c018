package app

import (
	"college_edu_backend/internal/config"
	"college_edu_backend/internal/controller"
	"college_edu_backend/internal/repository"
	"college_edu_backend/internal/service"
	"college_edu_backend/pkg/configwatcher"
	"college_edu_backend/pkg/database"
	"college_edu_backend/pkg/logger"
	"college_edu_backend/pkg/monitoring"
	"college_edu_backend/pkg/security"
	"college_edu_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	college      *repository.CollegeRepository
	department   *repository.DepartmentRepository
	topic        *repository.TopicRepository
	assignment   *repository.AssignmentRepository
	questionType *repository.QuestionTypeRepository
	question     *repository.QuestionRepository
	attempt      *repository.AttemptRepository
}

type services struct {
	auth       *service.AuthService
	user       *service.UserService
	college    *service.CollegeService
	topic      *service.TopicService
	assignment *service.AssignmentService
	storage    *service.StorageService
	question   *service.QuestionService
	attempt    *service.AttemptService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	college    *controller.CollegeController
	topic      *controller.TopicController
	assignment *controller.AssignmentController
	question   *controller.QuestionController
	attempt    *controller.AttemptController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		college:      repository.NewCollegeRepository(db),
		department:   repository.NewDepartmentRepository(db),
		topic:        repository.NewTopicRepository(db),
		assignment:   repository.NewAssignmentRepository(db),
		questionType: repository.NewQuestionTypeRepository(db, rdb),
		question:     repository.NewQuestionRepository(db),
		attempt:      repository.NewAttemptRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.college = service.NewCollegeService(repos.college, repos.department)
	s.topic = service.NewTopicService(repos.topic, repos.department)
	s.assignment = service.NewAssignmentService(repos.assignment, repos.department)
	s.question = service.NewQuestionService(
		repos.question,
		repos.questionType,
		repos.department,
		repos.topic,
		repos.assignment,
		s.storage,
		cfg,
		db,
	)
	s.attempt = service.NewAttemptService(repos.attempt, repos.question, repos.assignment, repos.topic, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, s.user),
		user:       controller.NewUserController(s.user),
		college:    controller.NewCollegeController(s.college),
		topic:      controller.NewTopicController(s.topic),
		assignment: controller.NewAssignmentController(s.assignment),
		question:   controller.NewQuestionController(s.question),
		attempt:    controller.NewAttemptController(s.attempt),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	// 限流参数每次请求时读取，配置热加载后即时生效
	router.Use(security.RateLimiter(func() (int, time.Duration) {
		rl := cfg.RateLimitSettings()
		maxRequests := rl.MaxRequests
		if maxRequests <= 0 {
			maxRequests = 10000
		}
		window := time.Duration(rl.WindowMinutes) * time.Minute
		if window <= 0 {
			window = time.Minute
		}
		return maxRequests, window
	}))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// watchConfig 热加载可在运行期调整的配置项
func (a *App) watchConfig() {
	go configwatcher.WatchConfig("configs/config.yaml", a.Config, func(raw interface{}) {
		newCfg, ok := raw.(*config.Config)
		if !ok {
			return
		}
		a.Config.ApplyReload(newCfg)
		ing := a.Config.IngestSettings()
		logger.Log.Info("Config reloaded",
			zap.Bool("continue_on_row_error", ing.ContinueOnRowError),
			zap.Bool("strict_match_pairs", ing.StrictMatchPairs),
		)
		for _, callback := range a.configCallbacks {
			callback(a.Config)
		}
	})
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时降级运行，题型解析与成绩汇总直接走数据库
		logger.Log.Warn("Redis unavailable, running without cache", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(ginMode(cfg.Server.Mode))
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("college-edu-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.watchConfig()

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

	// 等待中断信号优雅地关闭服务器
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
