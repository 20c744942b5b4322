package db

import (
	"server_rental/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
	"gorm.io/gorm"                  // GORM ORM library
)

// SeedPlans inserts the server plan catalog if it is empty. Plans are
// immutable once seeded; re-running the migration never duplicates them.
func SeedPlans(db *gorm.DB) error {
	var count int64
	// Skip seeding when plans already exist
	if err := db.Model(&domain.ServerPlan{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	plans := []domain.ServerPlan{
		{
			Name:        "Basic VPS",
			Description: "Perfect for small websites and development projects",
			CPU:         1,
			RAM:         1,
			Storage:     20,
			HourlyCost:  decimal.RequireFromString("0.0149"),
			IsActive:    true,
		},
		{
			Name:        "Standard VPS",
			Description: "Great for medium-sized applications and e-commerce sites",
			CPU:         2,
			RAM:         2,
			Storage:     50,
			HourlyCost:  decimal.RequireFromString("0.0297"),
			IsActive:    true,
		},
		{
			Name:        "Performance VPS",
			Description: "High-performance server for demanding applications",
			CPU:         4,
			RAM:         8,
			Storage:     160,
			HourlyCost:  decimal.RequireFromString("0.119"),
			IsActive:    true,
		},
		{
			Name:        "Enterprise VPS",
			Description: "Maximum power for enterprise-level applications",
			CPU:         8,
			RAM:         16,
			Storage:     320,
			HourlyCost:  decimal.RequireFromString("0.238"),
			IsActive:    true,
		},
	}
	return db.Create(&plans).Error
}
