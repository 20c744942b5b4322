package api

import (
	"fmt"                           // Mock IP formatting
	"math/rand"                     // Mock IP assignment
	"net/http"                      // HTTP status codes
	"server_rental/internal/domain" // Importing domain models
	"strconv"                       // String conversion
	"time"                          // Timestamps

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreateServerRequest represents a server rental request
type CreateServerRequest struct {
	Name         string `json:"name" binding:"required,max=255"`  // User-chosen server name
	ServerPlanID uint   `json:"server_plan_id" binding:"required"` // Selected plan id
}

// ServerActionRequest represents a lifecycle action request
type ServerActionRequest struct {
	Action string `json:"action" binding:"required,oneof=start stop restart"` // Lifecycle action
}

// findOwnedServer loads a server by path id and enforces ownership. It
// writes the error response itself and returns nil when the caller should
// stop: 404 for unknown ids, 403 when the server belongs to someone else.
func findOwnedServer(c *gin.Context, db *gorm.DB, userID uint) *domain.RentedServer {
	id, err := strconv.Atoi(c.Param("id")) // Parse path id
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		return nil
	}
	var server domain.RentedServer
	if err := db.First(&server, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Server not found"})
		return nil
	}
	// Users may only touch their own servers
	if server.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return nil
	}
	return &server
}

// ListServersHandler returns the authenticated user's servers with their
// plans, newest first
func ListServersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var servers []domain.RentedServer
		// Fetch the user's servers with the plan relation preloaded
		if err := db.Preload("ServerPlan").
			Where("user_id = ?", userID).
			Order("created_at desc").
			Find(&servers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch servers"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"servers": servers})
	}
}

// GetServerHandler returns a single server owned by the authenticated user
func GetServerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		server := findOwnedServer(c, db, userID.(uint))
		if server == nil {
			return // Response already written
		}
		// Load the plan relation for the detail view
		if err := db.Preload("ServerPlan").First(server, server.ID).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch server"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"server": server})
	}
}

// CreateServerHandler rents a new server: it checks that the balance covers
// one hour of the selected plan, then creates the server, debits the balance
// and records the rental transaction in one atomic database transaction
func CreateServerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req CreateServerRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Server name (max 255 chars) and plan are required"})
			return
		}
		var plan domain.ServerPlan // Look up the selected plan
		if err := db.First(&plan, req.ServerPlanID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Server plan not found"})
			return
		}
		// Check the balance covers at least one hour before mutating anything
		credit, err := domain.GetOrCreateCredit(db, userID.(uint))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load credit balance"})
			return
		}
		if credit.Balance.LessThan(plan.HourlyCost) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Insufficient credits to rent this server."})
			return
		}
		now := time.Now()                                                         // Rental start time
		ip := fmt.Sprintf("192.168.%d.%d", rand.Intn(255)+1, rand.Intn(255)+1)    // Mock IP assignment
		server := domain.RentedServer{
			UserID:       userID.(uint),        // Owning user
			ServerPlanID: plan.ID,              // Selected plan
			Name:         req.Name,             // User-chosen name
			ServerIP:     &ip,                  // Mock IP
			Status:       domain.StatusRunning, // Servers come up running
			StartedAt:    &now,                 // Billing hour starts now
			TotalCost:    plan.HourlyCost,      // One hour charged at creation
		}
		// Server row, ledger debit and transaction record commit together
		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&server).Error; err != nil {
				return err // Return error to rollback
			}
			// Record the rental transaction linked to the new server
			t := domain.Transaction{
				UserID:         userID.(uint),
				RentedServerID: &server.ID,
				Type:           domain.TypeServerRental,
				Amount:         plan.HourlyCost,
				Status:         domain.TxCompleted,
				Description:    "Server rental: " + server.Name + " (" + plan.Name + ")",
				Metadata: domain.JSON{
					"server_id":   server.ID,               // Rented server id
					"plan_name":   plan.Name,               // Plan name at rental time
					"hourly_cost": plan.HourlyCost.String(), // Rate at rental time
				},
			}
			if err := tx.Create(&t).Error; err != nil {
				return err // Return error to rollback
			}
			// Debit one hour's cost from the balance
			if err := tx.Model(&credit).Update("balance", gorm.Expr("balance - ?", plan.HourlyCost)).Error; err != nil {
				return err // Return error to rollback
			}
			return nil // Commit transaction
		})
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,      // User ID
				"plan_id": plan.ID,     // Plan ID
				"error":   err.Error(), // Error message
			}).Error("Server rental failed") // Log rental failure
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Server rental failed"})
			return
		}
		// Log successful rental
		logrus.WithFields(logrus.Fields{
			"user_id":     userID,                       // User ID
			"server_id":   server.ID,                    // New server ID
			"plan_id":     plan.ID,                      // Plan ID
			"hourly_cost": plan.HourlyCost.String(),     // Charged amount
			"type":        domain.TypeServerRental,      // Transaction type
			"timestamp":   now.Format(time.RFC3339),     // Rental time
		}).Info("Server rental transaction")
		invalidateUserCaches(c, userID.(uint)) // Invalidate balance and history caches
		server.ServerPlan = plan               // Include the plan in the response
		c.JSON(http.StatusCreated, gin.H{"message": "Server rented successfully!", "server": server})
	}
}

// UpdateServerHandler applies a start/stop/restart action to an owned
// server. An action whose precondition does not hold (for example starting
// an already-running server) changes nothing but still reports success.
func UpdateServerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		var req ServerActionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Action must be one of start, stop, restart"})
			return
		}
		server := findOwnedServer(c, db, userID.(uint))
		if server == nil {
			return // Response already written
		}
		// Run the action through the state machine
		changed, err := server.Apply(req.Action, time.Now())
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
			return
		}
		if changed {
			// Persist the transition
			if err := db.Save(server).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update server"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":   userID,        // User ID
				"server_id": server.ID,     // Server ID
				"action":    req.Action,    // Applied action
				"status":    server.Status, // Resulting status
			}).Info("Server action applied")
			invalidateUserCaches(c, userID.(uint)) // Dashboard shows server status
		}
		// Report success whether or not the transition happened
		c.JSON(http.StatusOK, gin.H{
			"message": capitalize(req.Action) + " action completed successfully.",
			"server":  server,
		})
	}
}

// DeleteServerHandler terminates an owned server. Termination is a soft
// state change; the row is kept for history and billing records.
func DeleteServerHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("userID") // Get userID from context
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		server := findOwnedServer(c, db, userID.(uint))
		if server == nil {
			return // Response already written
		}
		// Terminating an already-terminated server is a no-op
		changed, _ := server.Apply(domain.ActionTerminate, time.Now())
		if changed {
			if err := db.Save(server).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to terminate server"})
				return
			}
			logrus.WithFields(logrus.Fields{
				"user_id":   userID,    // User ID
				"server_id": server.ID, // Server ID
			}).Info("Server terminated")
			invalidateUserCaches(c, userID.(uint)) // Dashboard shows server status
		}
		c.JSON(http.StatusOK, gin.H{"message": "Server terminated successfully.", "server": server})
	}
}

// capitalize upper-cases the first byte of an ASCII action name
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
