package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"server_rental/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestListPlans(t *testing.T) {
	db, rdb := setupTest(t)
	userID := seedUser(t, db, "alice", "0")
	r := newRouter(db, rdb, stubGateway{}, userID)

	// Retire one plan; it must disappear from the catalog
	assert.NoError(t, db.Model(&domain.ServerPlan{}).
		Where("name = ?", "Enterprise VPS").
		Update("is_active", false).Error)

	w := doJSON(r, http.MethodGet, "/plans", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Plans  []domain.ServerPlan `json:"plans"`
		Cached bool                `json:"cached"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Plans, 3)
	assert.False(t, resp.Cached)

	// Ascending by hourly cost, cheapest first
	prev := decimal.Zero
	for _, p := range resp.Plans {
		assert.True(t, p.IsActive)
		assert.True(t, p.HourlyCost.GreaterThan(prev), "plans out of order at %s", p.Name)
		prev = p.HourlyCost
	}
	assert.Equal(t, "Basic VPS", resp.Plans[0].Name)

	// Second read comes from the cache
	w = doJSON(r, http.MethodGet, "/plans", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Cached)
}

func TestGetPlan(t *testing.T) {
	db, rdb := setupTest(t)
	userID := seedUser(t, db, "alice", "0")
	r := newRouter(db, rdb, stubGateway{}, userID)
	plan := planByName(t, db, "Standard VPS")

	w := doJSON(r, http.MethodGet, fmt.Sprintf("/plans/%d", plan.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Plan domain.ServerPlan `json:"plan"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, plan.Name, resp.Plan.Name)
	assert.Equal(t, 2, resp.Plan.CPU)
	assert.True(t, resp.Plan.HourlyCost.Equal(decimal.RequireFromString("0.0297")))

	// Unknown and malformed ids are not found
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/plans/9999", nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodGet, "/plans/abc", nil).Code)
}
