package domain

import (
	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
)

// ServerPlan Model (purchasable server configuration, seeded and read-only)
type ServerPlan struct {
	ID          uint            `gorm:"primaryKey"`                  // Primary key
	Name        string          `gorm:"not null"`                    // Plan name
	Description string          `gorm:"type:text"`                   // Plan description
	CPU         int             `gorm:"not null"`                    // CPU cores
	RAM         int             `gorm:"not null"`                    // RAM in GB
	Storage     int             `gorm:"not null"`                    // Storage in GB
	HourlyCost  decimal.Decimal `gorm:"type:decimal(10,4);not null"` // Cost per hour in credits
	IsActive    bool            `gorm:"default:true"`                // Whether the plan is purchasable
}
