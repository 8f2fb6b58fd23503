package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todoapp/internal/config"
	"todoapp/internal/handler"
	"todoapp/internal/middleware"
	"todoapp/internal/model"
	"todoapp/internal/repository"
	"todoapp/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := db.AutoMigrate(&model.User{}, &model.Category{}, &model.Todo{}, &model.SubTask{}); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
		MaxAge:           time.Hour,
	}))

	// The token is resolved for every request; access control per route
	// group is decided below.
	r.Use(middleware.Authenticate(cfg.JWTSecret))

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	todoRepo := repository.NewTodoRepository(db)
	subtaskRepo := repository.NewSubTaskRepository(db)

	// Initialize services
	todoService := service.NewTodoService(todoRepo, subtaskRepo)

	// Initialize handlers
	userHandler := handler.NewUserHandler(userRepo, cfg.JWTSecret, cfg.JWTTTL)
	categoryHandler := handler.NewCategoryHandler(categoryRepo)
	todoHandler := handler.NewTodoHandler(todoService)

	// Public routes
	r.GET("/", handler.Home)
	r.GET("/health", handler.Health)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.POST("/register", userHandler.Register)
	authRoutes.POST("/login", userHandler.Login)

	// Protected routes - require authentication
	authorized := api.Group("/")
	authorized.Use(middleware.RequireIdentity())
	{
		// Profile routes
		authorized.GET("/auth/profile", userHandler.GetProfile)
		authorized.PATCH("/auth/profile", userHandler.UpdateProfile)

		// Todo routes
		authorized.POST("/todos", todoHandler.Create)
		authorized.GET("/todos", todoHandler.GetAll)
		authorized.GET("/todos/statistics", todoHandler.Statistics)
		authorized.GET("/todos/:id", todoHandler.GetByID)
		authorized.PATCH("/todos/:id", todoHandler.Update)
		authorized.PATCH("/todos/:id/toggle", todoHandler.Toggle)
		authorized.DELETE("/todos/:id", todoHandler.Delete)
		authorized.DELETE("/todos/batch", todoHandler.BatchDelete)
		authorized.PATCH("/todos/batch/update", todoHandler.BatchUpdate)

		// Subtask routes
		authorized.POST("/todos/:id/subtasks", todoHandler.CreateSubTask)
		authorized.PATCH("/todos/subtasks/:subtask_id/toggle", todoHandler.ToggleSubTask)
		authorized.DELETE("/todos/subtasks/:subtask_id", todoHandler.DeleteSubTask)

		// Category routes
		authorized.POST("/categories", categoryHandler.Create)
		authorized.GET("/categories", categoryHandler.GetAll)
		authorized.GET("/categories/:id", categoryHandler.GetByID)
		authorized.PATCH("/categories/:id", categoryHandler.Update)
		authorized.DELETE("/categories/:id", categoryHandler.Delete)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	log.Println("✅ Server exited properly")
}
