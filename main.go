package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"questboard/backend/internal/cache"
	"questboard/backend/internal/config"
	"questboard/backend/internal/database"
	"questboard/backend/internal/handlers"
	"questboard/backend/internal/middleware"
	"questboard/backend/internal/monitoring"
	"questboard/backend/internal/repositories"
	"questboard/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// mergeDotenv applies values from a .env file without overwriting
// variables that are already set in the environment.
func mergeDotenv(envMap map[string]string) {
	for k, v := range envMap {
		if os.Getenv(k) == "" {
			os.Setenv(k, v)
		}
	}
}

func main() {
	if envMap, err := godotenv.Read(); err == nil {
		mergeDotenv(envMap)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	db, err := repositories.Connect(
		&repositories.DatabaseConfig{
			Host:     cfg.Database.Host,
			Port:     cfg.Database.Port,
			User:     cfg.Database.User,
			Password: cfg.Database.Password,
			Name:     cfg.Database.Name,
			SSLMode:  cfg.Database.SSLMode,
		},
		&database.PoolConfig{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		},
	)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if !cfg.IsProduction() {
		log.Println("Running in development mode - performing auto-migration")
		if err := repositories.AutoMigrate(db); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
	}

	redisCache := cache.NewRedisCache(&cache.CacheConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	defer redisCache.Close()

	storageService, err := services.NewS3StorageService(context.Background(), services.StorageConfig{
		Endpoint:      cfg.Storage.Endpoint,
		Region:        cfg.Storage.Region,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		PublicBaseURL: cfg.Storage.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// Services. The lifecycle services share one notification service so
	// every task event lands in the same inbox.
	notificationService := services.NewNotificationService()
	assignmentService := services.NewAssignmentService(notificationService)
	generatedTaskService := services.NewGeneratedTaskService(notificationService)
	messageService := services.NewMessageService(notificationService)
	leaderboardService := services.NewCachedLeaderboardService(services.NewLeaderboardService(), redisCache)
	assignmentService.OnScoreChange(leaderboardService.InvalidateScores)

	catalogService := services.NewCatalogService(cfg.Catalog.GeneratorURL, cfg.Catalog.Timeout)
	if err := catalogService.SeedDefaults(db); err != nil {
		log.Printf("[warn] catalog seed: %v", err)
	}

	authService := services.NewAuthService()
	registerService := services.NewRegisterService()
	profileService := services.NewProfileService()

	registerHealthChecks(db, redisCache)

	router := buildRouter(cfg, db,
		authService, registerService, profileService, leaderboardService,
		assignmentService, generatedTaskService, notificationService,
		messageService, catalogService, storageService)

	server := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func registerHealthChecks(db *gorm.DB, redisCache *cache.RedisCache) {
	monitoring.RegisterHealthCheck("database", func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	})
	monitoring.RegisterHealthCheck("redis", func(ctx context.Context) error {
		return redisCache.Health()
	})
}

func buildRouter(
	cfg *config.Config,
	db *gorm.DB,
	authService services.AuthService,
	registerService services.RegisterService,
	profileService services.ProfileService,
	leaderboardService services.LeaderboardService,
	assignmentService services.AssignmentService,
	generatedTaskService services.GeneratedTaskService,
	notificationService services.NotificationService,
	messageService services.MessageService,
	catalogService services.CatalogService,
	storageService services.StorageService,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryWithLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(monitoring.MetricsMiddleware())

	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RequestsPerMin:  cfg.RateLimit.RequestsPerMin,
			BurstSize:       cfg.RateLimit.BurstSize,
			CleanupInterval: cfg.RateLimit.CleanupInterval,
		})
		router.Use(limiter.Middleware())
	}

	router.GET("/health", monitoring.HealthHandler())
	router.GET("/metrics", monitoring.MetricsHandler())

	authHandler := handlers.NewAuthHandler(db, authService)
	registerHandler := handlers.NewRegisterHandler(db, registerService)
	refreshHandler := handlers.NewRefreshHandler(db, authService)
	logoutHandler := handlers.NewLogoutHandler(db, authService)
	userHandler := handlers.NewUserHandler(db, profileService, leaderboardService, storageService)
	assignmentHandler := handlers.NewAssignmentHandler(db, assignmentService, storageService)
	generatedTaskHandler := handlers.NewGeneratedTaskHandler(db, generatedTaskService, storageService)
	notificationHandler := handlers.NewNotificationHandler(db, notificationService)
	messageHandler := handlers.NewMessageHandler(db, messageService)
	catalogHandler := handlers.NewCatalogHandler(db, catalogService)

	api := router.Group("/api")
	{
		api.POST("/register", registerHandler.Registration)
		api.POST("/login", authHandler.Token)
		api.POST("/refresh", refreshHandler.Refresh)
		api.POST("/logout", logoutHandler.Logout)
		api.GET("/task", catalogHandler.GetRandomTask)
		api.POST("/tasks/new", catalogHandler.CreateCatalogEntry)
	}

	authorized := router.Group("/api")
	authorized.Use(middleware.AuthzMiddleware())
	{
		authorized.GET("/users", userHandler.GetUsers)
		authorized.GET("/leaderboard", userHandler.GetLeaderboard)
		authorized.GET("/profile", userHandler.GetProfile)
		authorized.PATCH("/profile", userHandler.UpdateProfile)
		authorized.POST("/profile/avatar", userHandler.UploadAvatar)

		authorized.POST("/assignments", assignmentHandler.CreateAssignment)
		authorized.GET("/assignments", assignmentHandler.GetAssignments)
		authorized.GET("/assignments/:id", assignmentHandler.GetAssignmentByID)
		authorized.POST("/assignments/:id/submit", assignmentHandler.SubmitAssignment)
		authorized.POST("/assignments/:id/approve", assignmentHandler.ApproveAssignment)
		authorized.POST("/assignments/:id/decline", assignmentHandler.DeclineAssignment)

		authorized.POST("/generated-tasks", generatedTaskHandler.CreateGeneratedTask)
		authorized.GET("/generated-tasks", generatedTaskHandler.GetGeneratedTasks)
		authorized.POST("/generated-tasks/:id/complete", generatedTaskHandler.CompleteGeneratedTask)

		authorized.GET("/notifications", notificationHandler.GetNotifications)
		authorized.POST("/notifications/:id/review", notificationHandler.OpenReview)

		authorized.POST("/messages", messageHandler.SendMessage)
		authorized.GET("/messages/:user_id", messageHandler.GetConversation)
	}

	return router
}
