package main

import (
	"context" // context package is needed for Redis operations
	"log"     // log package is needed for logging

	"team_scheduler/internal/api"        // Custom package for API handlers
	"team_scheduler/internal/config"     // Custom package for configuration
	"team_scheduler/internal/middleware" // Custom package for middleware

	"github.com/gin-contrib/cors"  // CORS middleware for the SPA frontend
	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
	"gorm.io/driver/mysql"         // MySQL driver for GORM
	"gorm.io/gorm"                 // GORM ORM library
)

// Main function to set up and run the server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Connect to the database
	db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to DB: %v", err) // Fatal error if DB connection fails
	}

	// Setup Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr, // Redis server address
		Password: cfg.RedisPass, // Redis password
		DB:       cfg.RedisDB,   // Redis database number
	})

	// Test Redis connection
	_, err = redisClient.Ping(context.Background()).Result()
	if err != nil {
		logrus.Fatalf("failed to connect to Redis: %v", err)
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	// Allow the SPA frontend origin to call the API with the bearer header
	corsCfg := cors.DefaultConfig()
	if cfg.CORSOrigin != "" {
		corsCfg.AllowOrigins = []string{cfg.CORSOrigin} // Configured frontend origin
	} else {
		corsCfg.AllowAllOrigins = true // Development fallback
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	// Auth routes (public)
	r.POST("/api/auth/register", api.RegisterHandler(db))            // Registration endpoint
	r.POST("/api/auth/login", api.LoginHandler(db, cfg.JWTSecret))   // Login endpoint

	// Leave routes (protected by JWT)
	leaveGroup := r.Group("/api/leaves")
	// Protect leave routes with JWT middleware and inject Redis client into context
	leaveGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	leaveGroup.GET("", api.ListLeavesHandler(db, redisClient)) // Visibility-scoped listing endpoint
	leaveGroup.POST("", api.CreateLeaveHandler(db))            // Leave creation endpoint
	// Review decisions are admin only
	leaveGroup.PATCH("/:id/status", middleware.AdminOnlyMiddleware(db), api.UpdateLeaveStatusHandler(db))

	// Profile routes (protected by JWT)
	userGroup := r.Group("/api/users")
	// Protect profile routes with JWT middleware and inject Redis client into context
	userGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	userGroup.GET("/me", api.GetProfileHandler(db, redisClient)) // Own profile endpoint
	userGroup.PUT("/me", api.UpdateProfileHandler(db))           // Profile update endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
