package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"wellsync/internal/config"
	"wellsync/internal/handler"
	"wellsync/internal/middleware"
	"wellsync/internal/model"
	"wellsync/internal/provider"
	"wellsync/internal/repository"
	"wellsync/internal/service"
	"wellsync/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		log.Fatalf("Failed to load DB config: %v", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET_KEY")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET_KEY not set in environment")
	}
	jwtExpHoursStr := os.Getenv("JWT_EXPIRATION_HOURS")
	jwtExpHours, err := strconv.ParseInt(jwtExpHoursStr, 10, 64)
	if err != nil {
		log.Printf("Invalid JWT_EXPIRATION_HOURS, defaulting to 24: %v", err)
		jwtExpHours = 24
	}

	otpAPIURL := os.Getenv("OTP_API_URL")
	otpAPIToken := os.Getenv("OTP_API_TOKEN")
	if otpAPIURL == "" || otpAPIToken == "" {
		log.Fatalf("OTP_API_URL and OTP_API_TOKEN must be set in environment")
	}
	otpTestMode := os.Getenv("OTP_TEST_MODE") == "true"

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080" // Default port
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		log.Fatalf("Failed to auto-migrate database: %v", err)
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(jwtSecret, jwtExpHours)
	otpSender := provider.NewPinAPIClient(otpAPIURL, otpAPIToken, otpTestMode)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	otpRepo := repository.NewOTPRepository(dbPool)
	rbacRepo := repository.NewRBACRepository(dbPool)
	todoRepo := repository.NewTodoRepository(dbPool)
	commentRepo := repository.NewCommentRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, rbacRepo, jwtUtil)
	otpService := service.NewOTPService(otpRepo, userRepo, otpSender, jwtUtil, service.DefaultOTPConfig())
	permService := service.NewPermissionService(rbacRepo, service.DefaultRules())
	todoService := service.NewTodoService(todoRepo)
	commentService := service.NewCommentService(commentRepo)

	// --- Seed default roles and permissions ---
	if err := permService.InitializeDefaults(context.Background()); err != nil {
		log.Fatalf("Failed to seed default roles and permissions: %v", err)
	}

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	otpHandler := handler.NewOTPHandler(otpService)
	todoHandler := handler.NewTodoHandler(todoService)
	commentHandler := handler.NewCommentHandler(commentService)
	rbacHandler := handler.NewRBACHandler(permService)

	// --- Setup Gin Router ---
	router := gin.Default()

	// Simple CORS middleware (allow all for development)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Initialize Middlewares ---
	requireVerified := middleware.RequireVerified(jwtUtil, userRepo)
	requireUnverified := middleware.RequireUnverified(jwtUtil, userRepo)
	requireAdmin := middleware.RequireAdmin(rbacRepo)

	todoLoader := func(ctx context.Context, id string) (any, error) {
		todo, err := todoRepo.FindByID(ctx, id)
		if err != nil || todo == nil {
			return nil, err
		}
		return todo, nil
	}
	commentLoader := func(ctx context.Context, id string) (any, error) {
		comment, err := commentRepo.FindByID(ctx, id)
		if err != nil || comment == nil {
			return nil, err
		}
		return comment, nil
	}
	todoGuard := func(action string) gin.HandlerFunc {
		return middleware.RequirePermission(permService, todoLoader, model.ResourceTodos, action)
	}
	commentGuard := func(action string) gin.HandlerFunc {
		return middleware.RequirePermission(permService, commentLoader, model.ResourceComments, action)
	}

	// --- Register Routes ---
	apiGroup := router.Group("/api/v1") // Base path for API
	handler.RegisterUserRoutes(apiGroup, authHandler, otpHandler, requireVerified, requireUnverified)
	handler.RegisterTodoRoutes(apiGroup, todoHandler, requireVerified, todoGuard)
	handler.RegisterCommentRoutes(apiGroup, commentHandler, requireVerified, commentGuard)
	handler.RegisterRBACRoutes(apiGroup, rbacHandler, requireVerified, requireAdmin)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(context.Background()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + serverPort,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", serverPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// --- Graceful Shutdown ---
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
