// main.go
package main

import (
	"log"
	"time"

	"github.com/Makky101/AI-STORYBOARD-MAKER/auth"
	"github.com/Makky101/AI-STORYBOARD-MAKER/internal/config"
	"github.com/Makky101/AI-STORYBOARD-MAKER/internal/platform"
	"github.com/Makky101/AI-STORYBOARD-MAKER/processing"
	"github.com/Makky101/AI-STORYBOARD-MAKER/projects"
	"github.com/Makky101/AI-STORYBOARD-MAKER/ratelimit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type Server struct {
	cfg    *config.Config
	DB     *gorm.DB
	Redis  *redis.Client
	Router *gin.Engine
}

func NewServer(cfg *config.Config) (*Server, error) {
	db, err := platform.NewDBConnection(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	rdb := platform.NewRedisClient(cfg.RedisAddr)

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	server := &Server{
		cfg:    cfg,
		DB:     db,
		Redis:  rdb,
		Router: router,
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.Router.GET("/health", func(c *gin.Context) {
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
		})
	})

	secret := []byte(s.cfg.JWTSecret)
	ai := processing.NewClient(s.cfg.OpenAIKey)
	authHandler := auth.NewHandler(s.DB, secret, s.cfg.TokenTTL)
	projectHandler := projects.NewHandler(s.DB, ai, ai)

	api := s.Router.Group("/api")
	api.Use(ratelimit.Middleware(s.Redis, "general", 100, 15*time.Minute, ratelimit.ByIP))

	// Auth routes (public)
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
	}

	// Stricter window for the two endpoints that call the AI APIs.
	aiLimit := ratelimit.Middleware(s.Redis, "ai", 10, time.Hour, ratelimit.ByUserOrIP)

	// Protected routes that require authentication
	projectRoutes := api.Group("/projects")
	projectRoutes.Use(auth.Middleware(secret))
	{
		projectRoutes.GET("", projectHandler.ListProjects)
		projectRoutes.POST("", aiLimit, projectHandler.CreateProject)
		projectRoutes.GET("/:id", projectHandler.GetProject)
		projectRoutes.DELETE("/:id", projectHandler.DeleteProject)
		projectRoutes.PUT("/scenes/:sceneId", projectHandler.UpdateScene)
		projectRoutes.POST("/:id/generate-images", aiLimit, projectHandler.GenerateImages)
	}
}

func (s *Server) Run() error {
	log.Printf("Server starting on port %s", s.cfg.Port)
	return s.Router.Run(":" + s.cfg.Port)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	server, err := NewServer(cfg)
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	if err := server.Run(); err != nil {
		log.Fatal("Failed to run server:", err)
	}
}
