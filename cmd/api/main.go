package main

import (
	"context"
	"log"

	_ "backend/api/swagger" // swagger docs
	"backend/internal/bootstrap"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"backend/pkg/validation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Data Collection API
// @version         1.0
// @description     Multi-tenant data collection backend with form templates, location-scoped submissions and statistics.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	templateRepo := repository.NewTemplateRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	resetRepo := repository.NewResetRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authService := service.NewAuthService(userRepo, resetRepo, cfg)
	userService := service.NewUserService(userRepo, roleRepo, auditRepo)
	locationService := service.NewLocationService(locationRepo)
	templateService := service.NewTemplateService(templateRepo)
	submissionService := service.NewSubmissionService(submissionRepo, templateRepo, userRepo, auditRepo, wsHub)
	roleService := service.NewRoleService(roleRepo, userRepo, auditRepo)
	settingService := service.NewSettingService(settingRepo, auditRepo)
	statisticsService := service.NewStatisticsService(submissionRepo, userRepo, templateRepo, locationRepo, roleRepo)
	reportService := service.NewReportService(submissionRepo, statisticsService)
	dashboardService := service.NewDashboardService(submissionRepo, locationRepo, settingRepo)
	fileService, err := service.NewFileService(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Upload directory setup failed: %v", err)
	}

	// Seed default admin, sample locations and system roles
	if err := bootstrap.Seed(context.Background(), userRepo, locationRepo, roleRepo); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	auth := middleware.NewAuth(cfg.JWTSecret, userRepo)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService, auth)
	userHandler := handler.NewUserHandler(userService, auth)
	adminHandler := handler.NewAdminHandler(userService, settingService, auth)
	locationHandler := handler.NewLocationHandler(locationService, auth)
	templateHandler := handler.NewTemplateHandler(templateService, auth)
	submissionHandler := handler.NewSubmissionHandler(submissionService, auth)
	roleHandler := handler.NewRoleHandler(roleService, auth)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService, auth)
	reportHandler := handler.NewReportHandler(reportService, auth)
	dashboardHandler := handler.NewDashboardHandler(dashboardService, auth)
	fileHandler := handler.NewFileHandler(fileService, auth)

	if err := validation.RegisterCustom(); err != nil {
		log.Fatalf("Validator setup failed: %v", err)
	}

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, cfg.JWTSecret)
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))
	adminHandler.RegisterRoutes(router.Group(""))
	locationHandler.RegisterRoutes(router.Group(""))
	templateHandler.RegisterRoutes(router.Group(""))
	submissionHandler.RegisterRoutes(router.Group(""))
	roleHandler.RegisterRoutes(router.Group(""))
	statisticsHandler.RegisterRoutes(router.Group(""))
	reportHandler.RegisterRoutes(router.Group(""))
	dashboardHandler.RegisterRoutes(router.Group(""))
	fileHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
