package domain

import "time"

// ErrorCategory classifies recorded failures
type ErrorCategory string

// Failure categories
const (
	CategoryValidation ErrorCategory = "validation" // Bad input or business-rule violation
	CategoryAuth       ErrorCategory = "auth"       // Authentication or authorization failure
	CategoryDatabase   ErrorCategory = "database"   // Persistence failure
	CategoryServer     ErrorCategory = "server"     // Everything else server-side
)

// ErrorLog Model. One row per failed request; messages are sanitized before
// being stored (no card numbers, no credentials).
type ErrorLog struct {
	ID         uint          `gorm:"primaryKey" json:"id"`                   // Primary key
	Category   ErrorCategory `gorm:"size:50;index;not null" json:"category"` // validation, auth, database, server
	ErrorType  string        `gorm:"size:100;index" json:"error_type"`       // Machine-readable error code
	HTTPMethod string        `gorm:"size:10" json:"http_method"`             // Request method
	Endpoint   string        `gorm:"size:255;index" json:"endpoint"`         // Request path
	StatusCode int           `gorm:"index;not null" json:"status_code"`      // Response status
	Message    string        `gorm:"type:text;not null" json:"message"`      // Sanitized error message
	UserID     *uint         `gorm:"index" json:"user_id,omitempty"`         // Authenticated user, if any
	RequestID  string        `gorm:"size:100;index" json:"request_id"`       // Correlates with request logs
	CreatedAt  time.Time     `gorm:"index" json:"created_at"`                // Timestamp of the failure
}
