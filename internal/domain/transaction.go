package domain

import "time"

// TransactionType is the closed set of ledger entry types
type TransactionType string

// Ledger entry types
const (
	TransactionTypeDeposit     TransactionType = "deposit"      // Funds added to an account
	TransactionTypeWithdrawal  TransactionType = "withdrawal"   // Funds removed from an account
	TransactionTypeTransferOut TransactionType = "transfer_out" // Debit side of a transfer
	TransactionTypeTransferIn  TransactionType = "transfer_in"  // Credit side of an internal transfer
)

// TransferType distinguishes in-system transfers from transfers to another bank
type TransferType string

// Transfer categories
const (
	TransferTypeInternal TransferType = "internal" // Both accounts held in this system
	TransferTypeExternal TransferType = "external" // Destination is at another bank
)

// TransactionStatus is the closed set of ledger entry states
type TransactionStatus string

// Ledger entry states
const (
	StatusPending   TransactionStatus = "pending"   // Awaiting external settlement
	StatusCompleted TransactionStatus = "completed" // Committed and final
	StatusFailed    TransactionStatus = "failed"    // Settlement failed
	StatusReversed  TransactionStatus = "reversed"  // Undone after completion
)

// Transaction Model (ledger entry). Rows with a transfer type set are written
// only by the transfer engine; amount and reference ID are immutable after creation.
type Transaction struct {
	ID                    uint              `gorm:"primaryKey" json:"id"`                             // Primary key
	AccountID             uint              `gorm:"index;not null" json:"account_id"`                 // Owning account
	TransactionType       TransactionType   `gorm:"size:20;not null" json:"transaction_type"`         // deposit, withdrawal, transfer_out, transfer_in
	Amount                float64           `gorm:"not null" json:"amount"`                           // Positive magnitude
	Description           string            `gorm:"size:255" json:"description,omitempty"`            // Optional free text
	TransferType          TransferType      `gorm:"size:10" json:"transfer_type,omitempty"`           // internal or external, empty for deposits/withdrawals
	DestinationAccountID  *uint             `json:"destination_account_id,omitempty"`                 // Counterparty account for internal transfers
	ExternalAccountNumber string            `gorm:"size:20" json:"external_account_number,omitempty"` // Destination account at the external bank
	ExternalBankName      string            `gorm:"size:100" json:"external_bank_name,omitempty"`     // Destination bank name
	ExternalRoutingNumber string            `gorm:"size:9" json:"external_routing_number,omitempty"`  // Destination routing number (9 digits)
	Status                TransactionStatus `gorm:"size:10;not null" json:"status"`                   // pending, completed, failed, reversed
	ReferenceID           string            `gorm:"size:32;index" json:"reference_id,omitempty"`      // Groups the rows of one transfer
	CreatedAt             time.Time         `json:"created_at"`                                       // Timestamp of creation
	UpdatedAt             time.Time         `json:"updated_at"`                                       // Timestamp of last update
}
