package api

import (
	"context"                      // Context for Redis operations
	"server_rental/internal/utils" // Utility functions
	"strconv"                      // String conversion

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// invalidateUserCaches drops the cached balance, dashboard and transaction
// history pages for a user after a balance-affecting mutation (simple
// version: delete the first 5 history pages)
func invalidateUserCaches(c *gin.Context, userID uint) {
	if rdb, ok := c.MustGet("redisClient").(*redis.Client); ok {
		ctx := context.Background() // Context for Redis operations
		uid := strconv.Itoa(int(userID))
		_ = utils.DeleteCache(ctx, rdb, "credits:user:"+uid)    // Invalidate balance cache
		_ = utils.DeleteCache(ctx, rdb, "dashboard:user:"+uid)  // Invalidate dashboard cache
		utils.DeletePages(ctx, rdb, "txhistory:user:"+uid, 5)   // Invalidate history pages
	}
}
