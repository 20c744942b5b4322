package api

import (
	"context"                       // Context for Redis operations
	"net/http"                      // HTTP status codes
	"server_rental/internal/domain" // Importing domain models
	"server_rental/internal/utils"  // Utility functions
	"strconv"                       // String conversion
	"time"                          // Time durations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// ListPlansHandler returns the active server plans ordered by hourly cost,
// cheapest first. The catalog is seeded and read-only, so it caches well.
func ListPlansHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background() // Context for Redis operations
		cacheKey := "plans:active"  // Catalog is shared across users
		var plans []domain.ServerPlan
		found, err := utils.GetCache(ctx, rdb, cacheKey, &plans) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"plans": plans, "cached": true}) // Return cached catalog
			return
		}
		// Fetch active plans ordered by hourly cost for purchase selection
		if err := db.Where("is_active = ?", true).
			Order("hourly_cost asc").
			Find(&plans).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch plans"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, plans, 60*time.Second) // Cache the catalog for 60 seconds
		c.JSON(http.StatusOK, gin.H{"plans": plans, "cached": false})
	}
}

// GetPlanHandler returns a single server plan by id
func GetPlanHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id")) // Parse path id
		if err != nil || id <= 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Server plan not found"})
			return
		}
		var plan domain.ServerPlan
		if err := db.First(&plan, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Server plan not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"plan": plan})
	}
}
