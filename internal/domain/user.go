package domain

// User Model
type User struct {
	ID       uint       `gorm:"primaryKey"`                                    // Primary key
	Username string     `gorm:"unique;not null"`                               // Unique username
	Password string     `gorm:"not null"`                                      // Hashed password
	Role     string     `gorm:"default:user"`                                  // Role: user or admin
	Credit   UserCredit `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"` // One-to-one relationship with UserCredit
}
