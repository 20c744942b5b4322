package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"server_rental/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// seedTransactions inserts n completed purchase rows with increasing timestamps
func seedTransactions(t *testing.T, db *gorm.DB, userID uint, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		tx := domain.Transaction{
			UserID:      userID,
			Type:        domain.TypeCreditPurchase,
			Amount:      decimal.NewFromInt(int64(i + 1)),
			Status:      domain.TxCompleted,
			Description: fmt.Sprintf("Credit purchase: %d credits", i+1),
			CreatedAt:   int64(1700000000000 + i), // Strictly increasing milliseconds
		}
		assert.NoError(t, db.Create(&tx).Error)
	}
}

func TestListTransactionsPagination(t *testing.T) {
	db, rdb := setupTest(t)
	userID := seedUser(t, db, "alice", "0")
	r := newRouter(db, rdb, stubGateway{}, userID)
	seedTransactions(t, db, userID, 25)

	w := doJSON(r, http.MethodGet, "/transactions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var page1 struct {
		Transactions []domain.Transaction `json:"transactions"`
		Page         int                  `json:"page"`
		Total        int64                `json:"total"`
		TotalPages   int                  `json:"total_pages"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &page1))
	assert.Len(t, page1.Transactions, 20) // Fixed page size
	assert.Equal(t, 1, page1.Page)
	assert.Equal(t, int64(25), page1.Total)
	assert.Equal(t, 2, page1.TotalPages)
	// Most recent first
	assert.True(t, page1.Transactions[0].Amount.Equal(decimal.NewFromInt(25)))

	w = doJSON(r, http.MethodGet, "/transactions?page=2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var page2 struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &page2))
	assert.Len(t, page2.Transactions, 5)
	// Oldest row lands at the end of the last page
	assert.True(t, page2.Transactions[4].Amount.Equal(decimal.NewFromInt(1)))
}

func TestListTransactionsScopedToUser(t *testing.T) {
	db, rdb := setupTest(t)
	aliceID := seedUser(t, db, "alice", "0")
	bobID := seedUser(t, db, "bob", "0")
	seedTransactions(t, db, aliceID, 3)
	seedTransactions(t, db, bobID, 2)

	r := newRouter(db, rdb, stubGateway{}, bobID)
	w := doJSON(r, http.MethodGet, "/transactions", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Transactions []domain.Transaction `json:"transactions"`
		Total        int64                `json:"total"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Total)
	for _, tx := range resp.Transactions {
		assert.Equal(t, bobID, tx.UserID)
	}
}

func TestGetTransaction(t *testing.T) {
	db, rdb := setupTest(t)
	aliceID := seedUser(t, db, "alice", "10")
	bobID := seedUser(t, db, "bob", "0")
	alice := newRouter(db, rdb, stubGateway{}, aliceID)
	bob := newRouter(db, rdb, stubGateway{}, bobID)
	plan := planByName(t, db, "Basic VPS")

	// Rent a server so the transaction links to it
	w := doJSON(alice, http.MethodPost, "/servers", map[string]interface{}{
		"name":           "web-1",
		"server_plan_id": plan.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var tx domain.Transaction
	assert.NoError(t, db.Where("user_id = ?", aliceID).First(&tx).Error)
	path := fmt.Sprintf("/transactions/%d", tx.ID)

	// Owner sees the transaction with its server and plan
	w = doJSON(alice, http.MethodGet, path, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Transaction domain.Transaction `json:"transaction"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.TypeServerRental, resp.Transaction.Type)
	assert.NotNil(t, resp.Transaction.RentedServer)
	assert.Equal(t, "web-1", resp.Transaction.RentedServer.Name)
	assert.Equal(t, plan.Name, resp.Transaction.RentedServer.ServerPlan.Name)

	// Cross-user access is denied, unknown ids are not found
	assert.Equal(t, http.StatusForbidden, doJSON(bob, http.MethodGet, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(bob, http.MethodGet, "/transactions/9999", nil).Code)
}

func TestDashboard(t *testing.T) {
	db, rdb := setupTest(t)
	userID := seedUser(t, db, "alice", "10")
	r := newRouter(db, rdb, stubGateway{}, userID)
	plan := planByName(t, db, "Basic VPS")
	seedTransactions(t, db, userID, 7)

	w := doJSON(r, http.MethodPost, "/servers", map[string]interface{}{
		"name":           "web-1",
		"server_plan_id": plan.ID,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(r, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Dashboard struct {
			Credit             domain.UserCredit     `json:"credit"`
			RecentServers      []domain.RentedServer `json:"recent_servers"`
			RecentTransactions []domain.Transaction  `json:"recent_transactions"`
		} `json:"dashboard"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Dashboard.Credit.Balance.Equal(decimal.NewFromInt(10).Sub(plan.HourlyCost)))
	assert.Len(t, resp.Dashboard.RecentServers, 1)
	assert.Len(t, resp.Dashboard.RecentTransactions, 5) // Capped at 5
}
