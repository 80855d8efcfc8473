package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"time"     // Cache TTLs

	"banking_api/internal/domain" // Importing domain models
	"banking_api/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreateAccountRequest opens a new account
type CreateAccountRequest struct {
	AccountHolder  string             `json:"account_holder" binding:"required,min=2,max=100"` // Holder name
	AccountType    domain.AccountType `json:"account_type" binding:"required"`                 // checking or savings
	InitialBalance float64            `json:"initial_balance" binding:"gte=0"`                 // Opening balance, non-negative
}

// accountNumberAttempts bounds the unique-number generation loop
const accountNumberAttempts = 100

// generateAccountNumber produces a random 10-digit account number that does
// not collide with an existing account
func generateAccountNumber(db *gorm.DB) (string, error) {
	for attempt := 0; attempt < accountNumberAttempts; attempt++ {
		number := utils.RandomDigits(10)
		var count int64
		if err := db.Model(&domain.Account{}).Where("account_number = ?", number).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return number, nil
		}
	}
	return "", gorm.ErrDuplicatedKey
}

// CreateAccountHandler opens a new bank account with a generated number
func CreateAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAccountRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Account type is a closed enumeration
		if !req.AccountType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Account type must be checking or savings"})
			return
		}
		number, err := generateAccountNumber(db)
		if err != nil {
			logrus.WithField("error", err.Error()).Error("Failed to generate account number")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to generate unique account number"})
			return
		}
		account := domain.Account{
			AccountNumber: number,             // Generated display number
			AccountHolder: req.AccountHolder,  // Holder name
			AccountType:   req.AccountType,    // checking or savings
			Balance:       req.InitialBalance, // Opening balance
		}
		if err := db.Create(&account).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"account_holder": req.AccountHolder,
				"error":          err.Error(),
			}).Error("Failed to create account")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
			return
		}
		logrus.WithFields(logrus.Fields{
			"account_id":     account.ID,
			"account_number": account.AccountNumber,
			"account_type":   account.AccountType,
		}).Info("Account created")
		c.JSON(http.StatusCreated, account)
	}
}

// GetAccountHandler returns a single account, cached for 60 seconds
func GetAccountHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		ctx := context.Background()
		cacheKey := accountCacheKey(id)
		var account domain.Account
		if rdb != nil {
			// Try the cache first
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &account); err == nil && found {
				c.JSON(http.StatusOK, gin.H{"account": account, "cached": true})
				return
			}
		}
		if err := db.First(&account, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, account, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, gin.H{"account": account, "cached": false})
	}
}

// ListAccountsHandler returns all accounts, paginated
func ListAccountsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := pagination(c)
		var total int64
		if err := db.Model(&domain.Account{}).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count accounts"})
			return
		}
		var accounts []domain.Account
		if err := db.Order("id").Offset((page - 1) * pageSize).Limit(pageSize).Find(&accounts).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch accounts"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"accounts":    accounts,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages(total, pageSize),
		})
	}
}

// DeleteAccountHandler deletes an account. Referential pressure from ledger
// rows is assumed, not enforced here.
func DeleteAccountHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var account domain.Account
		if err := db.First(&account, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		if err := db.Delete(&account).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id": id,
				"error":      err.Error(),
			}).Error("Failed to delete account")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
			return
		}
		logrus.WithField("account_id", id).Info("Account deleted")
		invalidateAccountCaches(c, id)
		c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
	}
}

// AccountStatementHandler returns an account with a page of its ledger
// entries, cached for 60 seconds
func AccountStatementHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		page, pageSize := pagination(c)
		ctx := context.Background()
		cacheKey := statementCacheKey(id, page, pageSize)
		var cached struct {
			Account      domain.Account       `json:"account"`      // Account snapshot
			Transactions []domain.Transaction `json:"transactions"` // Page of ledger entries
			Page         int                  `json:"page"`         // Current page
			PageSize     int                  `json:"page_size"`    // Page size
			Total        int64                `json:"total"`        // Total entries
			TotalPages   int                  `json:"total_pages"`  // Total pages
		}
		if rdb != nil {
			if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
				c.JSON(http.StatusOK, gin.H{
					"account":      cached.Account,
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
		var account domain.Account
		if err := db.First(&account, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		var total int64
		if err := db.Model(&domain.Transaction{}).Where("account_id = ?", id).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count transactions"})
			return
		}
		var transactions []domain.Transaction
		if err := db.Where("account_id = ?", id).
			Order("created_at desc").
			Offset((page - 1) * pageSize).
			Limit(pageSize).
			Find(&transactions).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
			return
		}
		resp := gin.H{
			"account":      account,
			"transactions": transactions,
			"page":         page,
			"page_size":    pageSize,
			"total":        total,
			"total_pages":  totalPages(total, pageSize),
			"cached":       false,
		}
		if rdb != nil {
			_ = utils.SetCache(ctx, rdb, cacheKey, resp, 60*time.Second) // Cache for 60 seconds
		}
		c.JSON(http.StatusOK, resp)
	}
}
