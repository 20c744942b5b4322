package api_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"server_rental/internal/api"
	dbseed "server_rental/internal/db"
	"server_rental/internal/domain"
	"server_rental/internal/payment"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// stubGateway is a deterministic payment gateway for tests
type stubGateway struct {
	decline bool // When true every charge is declined
}

func (g stubGateway) Charge(userID uint, amount decimal.Decimal) (*payment.Charge, error) {
	if g.decline {
		return nil, payment.ErrDeclined
	}
	return &payment.Charge{PaymentID: "mock_test", Method: "mock_payment"}, nil
}

// setupTest builds an in-memory SQLite database with the seeded plan
// catalog and a miniredis-backed cache client
func setupTest(t *testing.T) (*gorm.DB, *redis.Client) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	// Use in-memory SQLite for testing
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	// Drop tables to ensure a clean state between tests
	db.Migrator().DropTable(
		&domain.User{},
		&domain.UserCredit{},
		&domain.ServerPlan{},
		&domain.RentedServer{},
		&domain.Transaction{},
	)
	err = db.AutoMigrate(
		&domain.User{},
		&domain.UserCredit{},
		&domain.ServerPlan{},
		&domain.RentedServer{},
		&domain.Transaction{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}
	if err := dbseed.SeedPlans(db); err != nil {
		t.Fatalf("failed to seed plans: %v", err)
	}

	// miniredis stands in for the cache
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return db, rdb
}

// newRouter wires the full authenticated route set with a stub auth
// middleware acting as the given user
func newRouter(db *gorm.DB, rdb *redis.Client, gateway payment.Gateway, userID uint) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userID", userID) // Request-scoped identity, as the JWT middleware would set it
		c.Set("redisClient", rdb)
		c.Next()
	})
	r.GET("/dashboard", api.DashboardHandler(db, rdb))
	r.GET("/credits", api.GetCreditsHandler(db, rdb))
	r.POST("/credits", api.PurchaseCreditsHandler(db, gateway))
	r.GET("/plans", api.ListPlansHandler(db, rdb))
	r.GET("/plans/:id", api.GetPlanHandler(db))
	r.GET("/servers", api.ListServersHandler(db))
	r.POST("/servers", api.CreateServerHandler(db))
	r.GET("/servers/:id", api.GetServerHandler(db))
	r.PUT("/servers/:id", api.UpdateServerHandler(db))
	r.DELETE("/servers/:id", api.DeleteServerHandler(db))
	r.GET("/transactions", api.ListTransactionsHandler(db, rdb))
	r.GET("/transactions/:id", api.GetTransactionHandler(db))
	return r
}

// seedUser creates a user with the given credit balance and returns its id
func seedUser(t *testing.T, db *gorm.DB, username, balance string) uint {
	t.Helper()
	user := domain.User{Username: username, Password: "hashedpassword", Role: "user"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	credit := domain.UserCredit{UserID: user.ID, Balance: decimal.RequireFromString(balance)}
	if err := db.Create(&credit).Error; err != nil {
		t.Fatalf("failed to seed credit: %v", err)
	}
	return user.ID
}

// doJSON performs a request with an optional JSON body and returns the recorder
func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// balanceOf reloads a user's balance straight from the database
func balanceOf(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	var credit domain.UserCredit
	if err := db.Where("user_id = ?", userID).First(&credit).Error; err != nil {
		t.Fatalf("failed to load credit: %v", err)
	}
	return credit.Balance
}

// planByName loads a seeded plan by name
func planByName(t *testing.T, db *gorm.DB, name string) domain.ServerPlan {
	t.Helper()
	var plan domain.ServerPlan
	if err := db.Where("name = ?", name).First(&plan).Error; err != nil {
		t.Fatalf("failed to load plan %q: %v", name, err)
	}
	return plan
}
