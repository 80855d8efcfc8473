package api

import (
	"context"  // Context for Redis operations
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // Cache key assembly
	"time"     // Cache TTLs and summary windows

	"banking_api/internal/domain" // Importing domain models
	"banking_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// ListUsersHandler returns all users, paginated and cached
func ListUsersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Cache key from pagination parameters
		cacheKey := "admin:users:page=" + c.DefaultQuery("page", "1") + ":size=" + c.DefaultQuery("page_size", "20")
		var cached struct {
			Users      []domain.User `json:"users"`       // List of users
			Page       int           `json:"page"`        // Current page
			PageSize   int           `json:"page_size"`   // Page size
			Total      int64         `json:"total"`       // Total number of users
			TotalPages int           `json:"total_pages"` // Total pages
		}
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"users":       cached.Users,
					"page":        cached.Page,
					"page_size":   cached.PageSize,
					"total":       cached.Total,
					"total_pages": cached.TotalPages,
					"cached":      true,
				})
				return
			}
		}
		page, pageSize := pagination(c)
		var total int64
		if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
			return
		}
		var users []domain.User
		if err := db.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
			return
		}
		respData := gin.H{
			"users":       users,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
			"cached":      false,
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, respData)
	}
}

// ListTransactionsHandler returns all ledger entries, with optional
// filtering by account, type, status or date range
func ListTransactionsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		// Build cache key from all query params
		var keyParts []string
		for _, k := range []string{"account_id", "type", "status", "from", "to", "page", "page_size"} {
			keyParts = append(keyParts, k+"="+c.DefaultQuery(k, ""))
		}
		cacheKey := "admin:txs:" + strings.Join(keyParts, ":")
		var cached struct {
			Transactions []domain.Transaction `json:"transactions"` // List of ledger entries
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total entries
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"transactions": cached.Transactions,
					"page":         cached.Page,
					"page_size":    cached.PageSize,
					"total":        cached.Total,
					"total_pages":  cached.TotalPages,
					"cached":       true,
				})
				return
			}
		}
		page, pageSize := pagination(c)
		query := db.Model(&domain.Transaction{}) // Start building the query
		if accountID := c.Query("account_id"); accountID != "" {
			query = query.Where("account_id = ?", accountID) // Filter by account
		}
		if txType := c.Query("type"); txType != "" {
			query = query.Where("transaction_type = ?", txType) // Filter by entry type
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status) // Filter by status
		}
		if from := c.Query("from"); from != "" {
			query = query.Where("created_at >= ?", from) // Filter by start date
		}
		if to := c.Query("to"); to != "" {
			query = query.Where("created_at <= ?", to) // Filter by end date
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var txs []domain.Transaction
		if err := query.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&txs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		respData := gin.H{
			"transactions": txs,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages(total, pageSize),
			"cached":       false,
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, respData, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, respData)
	}
}

// ListErrorsHandler returns recorded failures, filterable by category and
// status code
func ListErrorsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c)
		query := db.Model(&domain.ErrorLog{})
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category) // Filter by category
		}
		if statusCode := c.Query("status_code"); statusCode != "" {
			query = query.Where("status_code = ?", statusCode) // Filter by status
		}
		var total int64
		if err := query.Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count error logs"})
			return
		}
		var logs []domain.ErrorLog
		if err := query.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch error logs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"errors":      logs,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// RecentErrorsHandler returns the most recent failures within a look-back
// window: hours 1-168 (default 24), limit 1-500 (default 100)
func RecentErrorsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		hours := 24 // Default look-back
		if h := c.Query("hours"); h != "" {
			if v, err := strconv.Atoi(h); err == nil && v >= 1 && v <= 168 {
				hours = v
			}
		}
		limit := 100 // Default record cap
		if l := c.Query("limit"); l != "" {
			if v, err := strconv.Atoi(l); err == nil && v >= 1 && v <= 500 {
				limit = v
			}
		}
		since := time.Now().Add(-time.Duration(hours) * time.Hour)
		var logs []domain.ErrorLog
		if err := db.Where("created_at >= ?", since).
			Order("created_at desc").
			Limit(limit).
			Find(&logs).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch error logs"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"errors": logs, "since": since})
	}
}

// GetErrorHandler returns one recorded failure by ID
func GetErrorHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var entry domain.ErrorLog
		if err := db.First(&entry, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Error log with ID %d not found", id)})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}

// ErrorSummaryHandler returns failure counts per category over the last 24
// hours
func ErrorSummaryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		since := time.Now().Add(-24 * time.Hour)
		type categoryCount struct {
			Category domain.ErrorCategory `json:"category"` // Failure category
			Count    int64                `json:"count"`    // Rows in the window
		}
		var counts []categoryCount
		if err := db.Model(&domain.ErrorLog{}).
			Select("category, COUNT(*) as count").
			Where("created_at >= ?", since).
			Group("category").
			Scan(&counts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize error logs"})
			return
		}
		var total int64
		for _, cc := range counts {
			total += cc.Count
		}
		c.JSON(http.StatusOK, gin.H{
			"since":      since,
			"total":      total,
			"categories": counts,
		})
	}
}

// PurgeErrorsHandler deletes error log rows older than the given number of
// days (default 30)
func PurgeErrorsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := 30 // Default retention
		if d := c.Query("days"); d != "" {
			if v, err := strconv.Atoi(d); err == nil && v > 0 {
				days = v
			}
		}
		cutoff := time.Now().AddDate(0, 0, -days)
		result := db.Where("created_at < ?", cutoff).Delete(&domain.ErrorLog{})
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge error logs"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"cutoff":  cutoff.Format(time.RFC3339),
			"deleted": result.RowsAffected,
		}).Info("Error logs purged")
		c.JSON(http.StatusOK, gin.H{"deleted": result.RowsAffected, "cutoff": cutoff})
	}
}
