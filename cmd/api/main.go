// @title EduQuiz API
// @version 1.0
// @description API for the EduQuiz learning platform: quizzes, timed attempts, scoring and AI study recommendations.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"eduquiz/internal/adapter"
	"eduquiz/internal/adapter/recgen"
	"eduquiz/internal/cache"
	"eduquiz/internal/config"
	"eduquiz/internal/database"
	"eduquiz/internal/handler"
	"eduquiz/internal/logger"
	"eduquiz/internal/middleware"
	"eduquiz/internal/repository"
	"eduquiz/internal/service"
	"eduquiz/internal/worker"

	_ "eduquiz/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	// Recommendation generator (LLM-backed)
	appLogger.Info("Initializing recommendation generator",
		zap.String("source", cfg.LLM.Source),
		zap.String("model", cfg.LLM.Model),
	)
	generator, err := recgen.NewLLMRecommendationGenerator(cfg.LLM)
	if err != nil {
		appLogger.Fatal("Failed to create recommendation generator", zap.Error(err))
	}

	// Connect to database
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Initialize repositories
	quizRepository := repository.NewSQLXQuizRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	resultRepository := repository.NewSQLXResultRepository(db)
	recommendationRepository := repository.NewSQLXRecommendationRepository(db)
	userRepository := repository.NewSQLXUserRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	// Initialize Redis-backed cache
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	cacheService := service.NewCacheService(cacheAdapter, cache.NewTTLPolicy(cfg.Cache))
	appLogger.Info("CacheService initialized")

	// Initialize services
	authService, err := service.NewAuthService(cfg.JWT)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	quizService := service.NewQuizService(quizRepository, resultRepository, cacheService)
	userService := service.NewUserService(userRepository, resultRepository, cacheService)
	recommendationService := service.NewRecommendationService(
		recommendationRepository,
		resultRepository,
		quizRepository,
		generator,
		cacheService,
	)

	// Background recommendation pipeline; attempts enqueue into it on finish.
	recommendationWorker := worker.NewRecommendationWorker(recommendationService, cfg.Worker.QueueSize, cfg.Worker.PoolSize)
	recommendationWorker.Start()
	appLogger.Info("Recommendation worker started",
		zap.Int("queue_size", cfg.Worker.QueueSize),
		zap.Int("pool_size", cfg.Worker.PoolSize),
	)

	attemptService := service.NewAttemptService(
		quizRepository,
		attemptRepository,
		resultRepository,
		userRepository,
		txManager,
		cacheService,
		recommendationWorker,
	)

	// Initialize handlers
	quizHandler := handler.NewQuizHandler(quizService)
	attemptHandler := handler.NewAttemptHandler(attemptService)
	userHandler := handler.NewUserHandler(userService, recommendationService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	apiGroup := app.Group("/api")

	// Public leaderboard
	apiGroup.Get("/leaderboard", userHandler.GetLeaderboard)

	// Quiz routes
	quizGroup := apiGroup.Group("/quizzes", middleware.Protected(authService))
	quizGroup.Get("/", quizHandler.GetAllQuizzes)
	quizGroup.Get("/category/:category", quizHandler.GetQuizzesByCategory)
	quizGroup.Get("/:id", quizHandler.GetQuiz)
	quizGroup.Get("/:id/stats", quizHandler.GetQuizStats)
	quizGroup.Post("/", quizHandler.CreateQuiz)
	quizGroup.Put("/:id", quizHandler.UpdateQuiz)
	quizGroup.Delete("/:id", quizHandler.DeleteQuiz)

	// Attempt routes (all protected)
	attemptGroup := apiGroup.Group("/attempts", middleware.Protected(authService))
	attemptGroup.Post("/", attemptHandler.StartAttempt)
	attemptGroup.Get("/:id", attemptHandler.GetAttempt)
	attemptGroup.Post("/:id/answers", attemptHandler.SubmitAnswer)
	attemptGroup.Post("/:id/finish", attemptHandler.FinishAttempt)

	// User routes (all protected)
	userGroup := apiGroup.Group("/users", middleware.Protected(authService))
	userGroup.Get("/me", userHandler.GetMyProfile)
	userGroup.Get("/me/results", userHandler.GetMyResults)
	userGroup.Get("/me/recommendations/:quizId", userHandler.GetMyRecommendation)

	// Start server
	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown: stop accepting requests, then drain the
	// recommendation queue before releasing connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	recommendationWorker.Stop()
	appLogger.Info("Server exited gracefully")
}
