package domain

import (
	"github.com/shopspring/decimal" // Exact decimal arithmetic for money
)

// Transaction types
const (
	TypeCreditPurchase = "credit_purchase" // Credits bought by the user
	TypeServerRental   = "server_rental"   // Hourly charge for a rented server
	TypeRefund         = "refund"          // Credits returned to the user
)

// Transaction statuses
const (
	TxPending   = "pending"   // Awaiting settlement
	TxCompleted = "completed" // Settled
	TxFailed    = "failed"    // Settlement failed
)

// Transaction Model (append-only ledger entry, never updated or deleted)
type Transaction struct {
	ID             uint            `gorm:"primaryKey"`                   // Primary key
	UserID         uint            `gorm:"index;not null"`               // Foreign key to User
	RentedServerID *uint           // Foreign key to RentedServer, nil for purchases
	RentedServer   *RentedServer   `gorm:"constraint:OnDelete:SET NULL;"` // Linked server, if any
	Type           string          `gorm:"index;not null"`               // Transaction type
	Amount         decimal.Decimal `gorm:"type:decimal(10,4);not null"`  // Amount in credits, always positive
	Status         string          `gorm:"index;default:pending"`        // Settlement status
	Description    string          `gorm:"type:text"`                    // Human-readable description
	Metadata       JSON            `gorm:"type:json"`                    // Additional transaction data
	CreatedAt      int64           `gorm:"autoCreateTime:milli;index"`   // Timestamp of creation in milliseconds
}
