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

// DashboardResponse aggregates the user's balance with their most recent
// servers and transactions
type DashboardResponse struct {
	Credit             domain.UserCredit     `json:"credit"`              // Current balance
	RecentServers      []domain.RentedServer `json:"recent_servers"`      // 5 newest servers
	RecentTransactions []domain.Transaction  `json:"recent_transactions"` // 5 newest transactions
}

// DashboardHandler returns the user's balance, recent servers and recent
// transactions in one response
func DashboardHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                                      // Context for Redis operations
		cacheKey := "dashboard:user:" + strconv.Itoa(int(userID.(uint))) // Cache key for the dashboard
		var resp DashboardResponse
		found, err := utils.GetCache(ctx, rdb, cacheKey, &resp) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"dashboard": resp, "cached": true})
			return
		}
		// Balance row, lazily created on first access
		credit, err := domain.GetOrCreateCredit(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load credit balance"})
			return
		}
		resp.Credit = credit
		// 5 newest servers with their plans
		if err := db.Preload("ServerPlan").
			Where("user_id = ?", userID).
			Order("created_at desc").
			Limit(5).
			Find(&resp.RecentServers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch servers"})
			return
		}
		// 5 newest transactions
		if err := db.Where("user_id = ?", userID).
			Order("created_at desc").
			Limit(5).
			Find(&resp.RecentTransactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache the dashboard for 60 seconds
		c.JSON(http.StatusOK, gin.H{"dashboard": resp, "cached": false})
	}
}
