package main

import (
	"context"
	"log"

	"github.com/mickychog/career-genius/internal/config"
	"github.com/mickychog/career-genius/internal/database"
	"github.com/mickychog/career-genius/internal/handlers"
	"github.com/mickychog/career-genius/internal/logging"
	"github.com/mickychog/career-genius/internal/middleware"
	"github.com/mickychog/career-genius/internal/repository"
	"github.com/mickychog/career-genius/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           CareerGenius API
// @version         1.0
// @description     Vocational guidance backend: adaptive test funnel, career analysis and recommendations for Bolivia
// @host            localhost:3000
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Enter "Bearer {token}"

func main() {
	// .env is optional; real deployments use environment variables.
	_ = godotenv.Load()

	bootstrapCfg, err := config.Load(zap.NewNop())
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.Init(logging.Options{
		Directory:  bootstrapCfg.Logging.Directory,
		MaxSize:    bootstrapCfg.Logging.MaxSize,
		MaxBackups: bootstrapCfg.Logging.MaxBackups,
		MaxAge:     bootstrapCfg.Logging.MaxAge,
		Compress:   bootstrapCfg.Logging.Compress,
	})
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Reload with the real logger attached so config changes get logged.
	cfg, err := config.Load(logger)
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	db, err := database.Connect(cfg.Database, logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db, logger); err != nil {
		logger.Fatal("failed to migrate database", zap.Error(err))
	}
	if err := database.SeedQuestions(db, logger); err != nil {
		logger.Fatal("failed to seed question bank", zap.Error(err))
	}

	questionRepo := repository.NewQuestionRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	userRepo := repository.NewUserRepository(db)

	aiService := services.NewAIService(cfg.AI, logger)
	authService := services.NewAuthService(userRepo, cfg.JWT)
	userService := services.NewUserService(userRepo, sessionRepo)
	testService := services.NewTestService(questionRepo, sessionRepo, aiService, cfg.Funnel, logger)
	stockingService := services.NewStockingService(questionRepo, aiService, cfg.Stocking, logger)
	universityService := services.NewUniversitySearchService(sessionRepo, aiService, logger)
	skillsService := services.NewSkillsDevelopmentService(sessionRepo, aiService, logger)

	authHandler := handlers.NewAuthHandler(authService, userService)
	userHandler := handlers.NewUserHandler(userService)
	testHandler := handlers.NewTestHandler(testService)
	universityHandler := handlers.NewUniversityHandler(universityService)
	skillsHandler := handlers.NewSkillsHandler(skillsService)
	adminHandler := handlers.NewAdminHandler(stockingService)

	// Top up the generated pools in the background so startup never blocks
	// on the oracle.
	if aiService.Available() {
		go func() {
			if _, err := stockingService.EnsureAllStocks(context.Background(), cfg.Stocking.DefaultTarget); err != nil {
				logger.Warn("initial question stocking interrupted", zap.Error(err))
			}
		}()
	} else {
		logger.Warn("AI API key not set, question stocking disabled")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.GET("/profile", middleware.JWTAuth(authService), authHandler.Profile)
		}

		users := api.Group("/users")
		users.Use(middleware.JWTAuth(authService))
		{
			users.GET("/me", userHandler.GetMe)
			users.PATCH("/me", userHandler.UpdateMe)
			users.GET("/dashboard-stats", userHandler.DashboardStats)
		}

		test := api.Group("/vocational-test")
		test.Use(middleware.JWTAuth(authService))
		{
			test.POST("/start", testHandler.Start)
			test.GET("/status", testHandler.Status)
			test.GET("/session/:id", testHandler.GetSession)
			test.POST("/:id/answer", testHandler.SubmitAnswer)
			test.POST("/:id/finish", testHandler.Finish)
			test.POST("/:id/select-career", testHandler.SelectCareer)
			test.POST("/:id/demographics", testHandler.SaveDemographics)
		}

		universities := api.Group("/university-search")
		universities.Use(middleware.JWTAuth(authService))
		{
			universities.GET("/recommendations", universityHandler.Recommendations)
		}

		skills := api.Group("/skills-development")
		skills.Use(middleware.JWTAuth(authService))
		{
			skills.GET("/recommendations", skillsHandler.Recommendations)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.JWTAuth(authService), middleware.AdminOnly())
		{
			admin.POST("/questions/stock", adminHandler.StockQuestions)
		}
	}

	logger.Info("server starting", zap.String("port", cfg.Server.Port))
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
