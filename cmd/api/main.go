package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/mytrip-api/internal/config"
	"github.com/yourusername/mytrip-api/internal/handler"
	"github.com/yourusername/mytrip-api/internal/middleware"
	pgRepo "github.com/yourusername/mytrip-api/internal/repository/postgres"
	"github.com/yourusername/mytrip-api/internal/service"
	"github.com/yourusername/mytrip-api/pkg/auth"
	"github.com/yourusername/mytrip-api/pkg/auth/firebase"
	"github.com/yourusername/mytrip-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	tripRepo := pgRepo.NewTripRepo(db)
	itemRepo := pgRepo.NewBudgetItemRepo(db)
	categoryRepo := pgRepo.NewBudgetCategoryRepo(db)
	targetRepo := pgRepo.NewTripBudgetTargetRepo(db)
	invalidTokenRepo := pgRepo.NewInvalidTokenRepo(db)

	// Identity provider verifier and internal token service
	verifier, err := firebase.NewVerifier(cfg.Firebase.ProjectID)
	if err != nil {
		log.Printf("Failed to initialize Firebase verifier: %v", err)
		os.Exit(1)
	}
	tokenService := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiresMin)

	// Transactional email
	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		resendService, err := service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to initialize email service: %v", err)
			os.Exit(1)
		}
		emailService = resendService
	}

	// Services
	identityService := service.NewIdentityService(userRepo, emailService)
	authService, err := service.NewAuthService(verifier, tokenService, identityService, userRepo, invalidTokenRepo)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}
	userService := service.NewUserService(userRepo, invalidTokenRepo)
	tripService := service.NewTripService(tripRepo)
	budgetService := service.NewBudgetService(tripService, itemRepo, categoryRepo, targetRepo)

	// Handlers and middleware
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	tripHandler := handler.NewTripHandler(tripService, budgetService)
	budgetHandler := handler.NewBudgetHandler(budgetService)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Revocation watermarks older than the longest possible token lifetime
	// no longer block anything; drop them hourly.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().Add(-24 * time.Hour)
				cleanupCtx, cleanupCancel := context.WithTimeout(ctx, 30*time.Second)
				if err := invalidTokenRepo.CleanupOldInvalidTokens(cleanupCtx, cutoff); err != nil {
					log.Printf("Failed to clean up revocation watermarks: %v", err)
				}
				cleanupCancel()
			case <-ctx.Done():
				return
			}
		}
	}()

	router := gin.Default()

	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	allowOrigins := []string{"http://localhost:5173", "http://localhost:3000"}
	allowOrigins = append(allowOrigins, cfg.CORS.ExtraOrigins...)
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/health/db", func(c *gin.Context) {
		if err := database.Ping(c.Request.Context(), db); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.StrictExchangeRateLimitConfig()))
		{
			authGroup.POST("/exchange", authHandler.Exchange)
		}

		api.GET("/budget-categories", authMiddleware.RequireAuth(), budgetHandler.ListCategories)

		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
			users.PATCH("/me", userHandler.UpdateMe)
			users.DELETE("/me", userHandler.DeleteMe)
		}

		trips := api.Group("/trips")
		trips.Use(authMiddleware.RequireAuth())
		{
			trips.POST("", tripHandler.Create)
			trips.GET("", tripHandler.List)

			tripWithID := trips.Group("/:id")
			tripWithID.Use(middleware.ExtractUintParam("id", "tripID"))
			{
				tripWithID.GET("", tripHandler.Get)
				tripWithID.PUT("", tripHandler.Update)
				tripWithID.DELETE("", tripHandler.Delete)
				tripWithID.GET("/export", tripHandler.Export)

				items := tripWithID.Group("/items")
				{
					items.POST("", budgetHandler.CreateItem)
					items.GET("", budgetHandler.ListItems)

					itemWithID := items.Group("/:itemID")
					itemWithID.Use(middleware.ExtractUintParam("itemID", "itemID"))
					{
						itemWithID.GET("", budgetHandler.GetItem)
						itemWithID.PUT("", budgetHandler.UpdateItem)
						itemWithID.DELETE("", budgetHandler.DeleteItem)
					}
				}

				targets := tripWithID.Group("/targets")
				{
					targets.POST("", budgetHandler.UpsertTarget)
					targets.GET("", budgetHandler.ListTargets)
					targets.GET("/:categoryID", budgetHandler.GetTarget)
					targets.DELETE("/:categoryID", budgetHandler.DeleteTarget)
				}
			}
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
