package errlog

import (
	"net/http" // Status text fallback

	"banking_api/internal/domain" // ErrorLog model

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/google/uuid"     // Request IDs
	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
)

// Context keys used to enrich recorded failures
const (
	ContextRequestID = "requestID" // Per-request correlation ID
	ContextErrorType = "errorType" // Machine-readable failure code set by handlers
)

// Middleware assigns every request a correlation ID and records a sanitized
// ErrorLog row for each 4xx/5xx response after the handler chain runs
func Middleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()       // Correlation ID for this request
		c.Set(ContextRequestID, requestID)  // Expose to handlers
		c.Header("X-Request-ID", requestID) // Echo to the caller

		c.Next() // Run the handler chain

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return // Only failures are recorded
		}

		// Message from the last handler-attached error, sanitized status
		// text otherwise. Handlers never attach raw account numbers or PANs.
		message := http.StatusText(status)
		if last := c.Errors.Last(); last != nil {
			message = last.Error()
		}

		category := categorize(status)
		if c.GetString(ContextErrorType) == "persistence_failure" {
			category = domain.CategoryDatabase
		}

		entry := domain.ErrorLog{
			Category:   category,
			ErrorType:  c.GetString(ContextErrorType),
			HTTPMethod: c.Request.Method,
			Endpoint:   c.FullPath(),
			StatusCode: status,
			Message:    message,
			RequestID:  requestID,
		}
		// Attach the authenticated user when present
		if v, ok := c.Get("userID"); ok {
			if id, ok := v.(uint); ok {
				entry.UserID = &id
			}
		}

		if err := db.Create(&entry).Error; err != nil {
			// The error log must never take a request down with it
			logrus.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Failed to persist error log entry")
		}

		logrus.WithFields(logrus.Fields{
			"request_id":  requestID,
			"category":    entry.Category,
			"status_code": status,
			"method":      entry.HTTPMethod,
			"endpoint":    entry.Endpoint,
			"message":     message,
		}).Warn("Request failed")
	}
}

// categorize maps a response status to an error category
func categorize(status int) domain.ErrorCategory {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.CategoryAuth
	case status >= http.StatusInternalServerError:
		return domain.CategoryServer
	default:
		return domain.CategoryValidation
	}
}
