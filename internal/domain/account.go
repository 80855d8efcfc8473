package domain

import "time"

// AccountType is the closed set of supported account types
type AccountType string

// Supported account types
const (
	AccountTypeChecking AccountType = "checking" // Checking account
	AccountTypeSavings  AccountType = "savings"  // Savings account
)

// Valid reports whether t is a known account type
func (t AccountType) Valid() bool {
	return t == AccountTypeChecking || t == AccountTypeSavings
}

// Account Model
type Account struct {
	ID            uint        `gorm:"primaryKey" json:"id"`                               // Primary key
	AccountNumber string      `gorm:"size:20;uniqueIndex;not null" json:"account_number"` // Display account number (10 digits)
	AccountHolder string      `gorm:"size:100;not null" json:"account_holder"`            // Holder name
	AccountType   AccountType `gorm:"size:20;not null" json:"account_type"`               // checking or savings
	Balance       float64     `gorm:"not null;default:0" json:"balance"`                  // Account balance, mutated only by committed operations
	CreatedAt     time.Time   `json:"created_at"`                                         // Timestamp of creation
	UpdatedAt     time.Time   `json:"updated_at"`                                         // Timestamp of last update
}
