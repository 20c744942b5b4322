package domain

import (
	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
	"gorm.io/gorm"                  // GORM ORM library
)

// UserCredit Model (one credit balance per user)
type UserCredit struct {
	ID      uint            `gorm:"primaryKey"`                            // Primary key
	UserID  uint            `gorm:"uniqueIndex"`                           // Foreign key to User
	Balance decimal.Decimal `gorm:"type:decimal(10,4);not null;default:0"` // Credit balance
}

// GetOrCreateCredit returns the user's credit row, creating it with a zero
// balance on first access. The lazy create is an explicit upsert so callers
// never depend on a read having write side effects elsewhere.
func GetOrCreateCredit(db *gorm.DB, userID uint) (UserCredit, error) {
	var credit UserCredit
	// Look up the existing balance row first
	err := db.Where("user_id = ?", userID).First(&credit).Error
	if err == nil {
		return credit, nil // Existing row found
	}
	if err != gorm.ErrRecordNotFound {
		return credit, err // Unexpected database error
	}
	// First access: create the row with balance 0
	credit = UserCredit{UserID: userID, Balance: decimal.Zero}
	if err := db.Create(&credit).Error; err != nil {
		return credit, err
	}
	return credit, nil
}
