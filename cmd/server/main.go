package main

import (
	"log"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"zhiyu.io/assistantportal/internal/bootstrap"
	"zhiyu.io/assistantportal/internal/config"
	"zhiyu.io/assistantportal/internal/handler"
	"zhiyu.io/assistantportal/internal/middleware"
	"zhiyu.io/assistantportal/internal/repository"
	"zhiyu.io/assistantportal/internal/service"
	"zhiyu.io/assistantportal/pkg/database"
	"zhiyu.io/assistantportal/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	}

	blobStorage, err := storage.NewCloudinaryStorage()
	if err != nil {
		log.Fatalf("failed to initialize cloudinary storage: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	assistantRepo := repository.NewAssistantRepository(db)

	authService := service.NewAuthService(userRepo, redisClient, cfg.JWTSecret, cfg.JWTTTL, cfg.ResetPasswordCooldown)
	authHandler := handler.NewAuthHandler(authService)

	adminService := service.NewAdminService(userRepo, roleRepo)
	adminUserHandler := handler.NewAdminUserHandler(adminService)

	roleService := service.NewRoleService(roleRepo, assistantRepo)
	roleHandler := handler.NewRoleHandler(roleService)

	assistantService := service.NewAssistantService(assistantRepo, userRepo)
	assistantHandler := handler.NewAssistantHandler(assistantService)

	uploadHandler := handler.NewUploadHandler(blobStorage, cfg.CloudinaryUploadFolder)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	setupCORS(router, cfg.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(userRepo, cfg.JWTSecret)

	router.POST("/upload", uploadHandler.Upload)

	api := router.Group("/api")
	{
		api.POST("/login", authHandler.Login)
		api.POST("/reset-password", authHandler.ResetPassword)
		api.GET("/user_assistants", assistantHandler.GetUserAssistants)
	}

	admin := api.Group("/admin")
	admin.Use(authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
	{
		admin.GET("/users", adminUserHandler.ListUsers)
		admin.POST("/users", adminUserHandler.CreateUser)
		admin.PUT("/users/:id", adminUserHandler.UpdateUser)
		admin.DELETE("/users/:id", adminUserHandler.DeleteUser)
		admin.GET("/users/:id/roles", adminUserHandler.GetUserRoles)
		admin.PUT("/users/:id/roles", adminUserHandler.ReplaceUserRoles)

		admin.GET("/roles", roleHandler.ListRoles)
		admin.POST("/roles", roleHandler.CreateRole)
		admin.PUT("/roles/:id", roleHandler.UpdateRole)
		admin.DELETE("/roles/:id", roleHandler.DeleteRole)
		admin.GET("/roles/:id/permissions", roleHandler.GetRolePermissions)
		admin.POST("/role_apps", roleHandler.AddRolePermission)
		admin.DELETE("/role_apps", roleHandler.RemoveRolePermission)

		admin.GET("/assistants", assistantHandler.ListAssistants)
		admin.POST("/assistants", assistantHandler.CreateAssistant)
		admin.PUT("/assistants/:id", assistantHandler.UpdateAssistant)
		admin.DELETE("/assistants/:id", assistantHandler.DeleteAssistant)
	}

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
