package main

import (
	"context"   // context package is needed for Redis operations
	"log"       // log package is needed for logging
	"math/rand" // Seed for the mock payment gateway
	"net/http"  // HTTP status codes
	"time"      // Timestamps and gateway seed

	"server_rental/internal/api"        // Custom package for API handlers
	"server_rental/internal/config"     // Custom package for configuration
	"server_rental/internal/middleware" // Custom package for middleware
	"server_rental/internal/payment"    // Payment gateway boundary

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

	// Setup Data Source Name (DSN) and connect to the database
	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
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

	// Mock payment gateway (90% success); a real provider would be wired
	// in here instead
	gateway := payment.NewMockGateway(rand.New(rand.NewSource(time.Now().UnixNano())))

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

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().Format(time.RFC3339)})
	})

	// Auth routes
	r.POST("/user", api.RegisterHandler(db))            // Registration endpoint
	r.GET("/user", api.LoginHandler(db, cfg.JWTSecret)) // Login endpoint

	// Authenticated routes (protected by JWT)
	authGroup := r.Group("/")
	// Protect routes with JWT middleware and inject Redis client into context
	authGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	authGroup.GET("/dashboard", api.DashboardHandler(db, redisClient)) // Dashboard endpoint

	authGroup.GET("/credits", api.GetCreditsHandler(db, redisClient)) // Credit balance endpoint
	authGroup.POST("/credits", api.PurchaseCreditsHandler(db, gateway)) // Credit purchase endpoint

	authGroup.GET("/plans", api.ListPlansHandler(db, redisClient)) // Plan catalog endpoint
	authGroup.GET("/plans/:id", api.GetPlanHandler(db))            // Plan detail endpoint

	authGroup.GET("/servers", api.ListServersHandler(db))       // Server list endpoint
	authGroup.POST("/servers", api.CreateServerHandler(db))     // Server rental endpoint
	authGroup.GET("/servers/:id", api.GetServerHandler(db))     // Server detail endpoint
	authGroup.PUT("/servers/:id", api.UpdateServerHandler(db))  // Server action endpoint
	authGroup.DELETE("/servers/:id", api.DeleteServerHandler(db)) // Server termination endpoint

	authGroup.GET("/transactions", api.ListTransactionsHandler(db, redisClient)) // Transaction history endpoint
	authGroup.GET("/transactions/:id", api.GetTransactionHandler(db))            // Transaction detail endpoint

	// Admin routes (protected, admin only)
	adminGroup := r.Group("/admin")
	// Protect admin routes with JWT and AdminOnly middleware
	adminGroup.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminOnlyMiddleware(db), func(c *gin.Context) {
		c.Set("redisClient", redisClient)
		c.Next()
	})
	adminGroup.GET("/users", api.ListUsersHandler(db, redisClient))                  // List users endpoint
	adminGroup.GET("/transactions", api.ListAllTransactionsHandler(db, redisClient)) // List all transactions endpoint

	log.Println("Server running on " + cfg.AppPort) // Log server start
	r.Run(":" + cfg.AppPort)                        // Start the server on port cfg.AppPort
}
