package api

import (
	"context"                        // Context for Redis operations
	"net/http"                       // HTTP status codes
	"server_rental/internal/domain"  // Importing domain models
	"server_rental/internal/payment" // Payment gateway boundary
	"server_rental/internal/utils"   // Utility functions
	"strconv"                        // String conversion
	"time"                           // Time durations

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/redis/go-redis/v9"  // Redis client
	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
	"github.com/sirupsen/logrus"    // Logging library
	"gorm.io/gorm"                  // GORM ORM library
)

// PurchaseCreditsRequest represents a credit purchase request
type PurchaseCreditsRequest struct {
	Amount float64 `json:"amount" binding:"required,gte=1,lte=1000"` // 1 to 1000 credits per purchase
}

// GetCreditsHandler returns the credit balance for the authenticated user,
// creating the balance row with zero credits on first access
func GetCreditsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		ctx := context.Background()                                    // Context for Redis operations
		cacheKey := "credits:user:" + strconv.Itoa(int(userID.(uint))) // Cache key for the balance
		var credit domain.UserCredit
		found, err := utils.GetCache(ctx, rdb, cacheKey, &credit) // Try to get from cache
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{"credit": credit, "cached": true}) // Return cached balance
			return
		}
		// Not cached: read (or lazily create) the balance row
		credit, err = domain.GetOrCreateCredit(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load credit balance"})
			return
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, credit, 60*time.Second)  // Cache the balance for 60 seconds
		c.JSON(http.StatusOK, gin.H{"credit": credit, "cached": false}) // Return balance info
	}
}

// PurchaseCreditsHandler charges the payment gateway and credits the user's
// balance. A declined payment mutates nothing and records no transaction.
func PurchaseCreditsHandler(db *gorm.DB, gateway payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req PurchaseCreditsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// Amount missing or outside 1..1000
			c.JSON(http.StatusBadRequest, gin.H{"error": "Credit amount must be between 1 and 1000"})
			return
		}
		amount := decimal.NewFromFloat(req.Amount) // Purchase amount in credits
		// Authorize the payment before touching the ledger
		charge, err := gateway.Charge(userID.(uint), amount)
		if err != nil {
			// Declined: no ledger mutation, no transaction row
			c.JSON(http.StatusBadRequest, gin.H{"error": "Payment processing failed. Please try again."})
			return
		}
		// Apply the ledger credit and the transaction record atomically
		err = db.Transaction(func(tx *gorm.DB) error {
			credit, err := domain.GetOrCreateCredit(tx, userID.(uint))
			if err != nil {
				return err // Return error to rollback
			}
			// Record the completed purchase
			t := domain.Transaction{
				UserID:      userID.(uint),
				Type:        domain.TypeCreditPurchase,
				Amount:      amount,
				Status:      domain.TxCompleted,
				Description: "Credit purchase: " + amount.String() + " credits",
				Metadata: domain.JSON{
					"payment_method": charge.Method,    // Provider method marker
					"payment_id":     charge.PaymentID, // Provider reference
				},
			}
			if err := tx.Create(&t).Error; err != nil {
				return err // Return error to rollback
			}
			// Increment the balance
			if err := tx.Model(&credit).Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"amount":  req.Amount,  // Purchase amount
				"error":   err.Error(), // Error message
			}).Error("Credit purchase failed") // Log purchase failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Credit purchase failed"})
			return
		}
		// Log successful purchase
		logrus.WithFields(logrus.Fields{
			"user_id":    userID,                          // User ID
			"amount":     req.Amount,                      // Purchase amount
			"payment_id": charge.PaymentID,                // Provider reference
			"type":       domain.TypeCreditPurchase,       // Transaction type
			"timestamp":  time.Now().Format(time.RFC3339), // Current timestamp
		}).Info("Credit purchase transaction")
		invalidateUserCaches(c, userID.(uint)) // Invalidate balance and history caches
		c.JSON(http.StatusOK, gin.H{"message": "Successfully purchased " + amount.String() + " credits!"})
	}
}
