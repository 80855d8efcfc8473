package api

import (
	"errors"   // Error classification
	"fmt"      // Message formatting
	"net/http" // HTTP status codes
	"time"     // Logging timestamps

	"banking_api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// CreateTransactionRequest records a deposit or withdrawal
type CreateTransactionRequest struct {
	AccountID       uint                   `json:"account_id" binding:"required"`       // Target account
	TransactionType domain.TransactionType `json:"transaction_type" binding:"required"` // deposit or withdrawal
	Amount          float64                `json:"amount" binding:"required,gt=0"`      // Positive amount
	Description     string                 `json:"description" binding:"max=255"`       // Optional description
}

// errInsufficientFunds aborts the deposit/withdrawal transaction without
// being mistaken for a database failure
var errInsufficientFunds = errors.New("insufficient funds")

// CreateTransactionHandler applies a deposit or withdrawal atomically:
// balance mutation and ledger row commit together or not at all
func CreateTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateTransactionRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Only deposits and withdrawals come through this endpoint; transfer
		// rows are written exclusively by the transfer engine
		if req.TransactionType != domain.TransactionTypeDeposit && req.TransactionType != domain.TransactionTypeWithdrawal {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Transaction type must be deposit or withdrawal"})
			return
		}

		var account domain.Account
		if err := db.First(&account, req.AccountID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}

		var entry domain.Transaction
		available := 0.0
		err := db.Transaction(func(tx *gorm.DB) error {
			// Re-read inside the transaction for a current balance
			if err := tx.First(&account, req.AccountID).Error; err != nil {
				return err
			}
			if req.TransactionType == domain.TransactionTypeWithdrawal {
				if account.Balance < req.Amount {
					available = account.Balance
					return errInsufficientFunds
				}
				// Deduct from the account
				if err := tx.Model(&account).Update("balance", gorm.Expr("balance - ?", req.Amount)).Error; err != nil {
					return err
				}
			} else {
				// Add to the account
				if err := tx.Model(&account).Update("balance", gorm.Expr("balance + ?", req.Amount)).Error; err != nil {
					return err
				}
			}
			entry = domain.Transaction{
				AccountID:       req.AccountID,
				TransactionType: req.TransactionType,
				Amount:          req.Amount,
				Description:     req.Description,
				Status:          domain.StatusCompleted,
			}
			// Save the ledger row
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			return nil // Commit
		})
		if errors.Is(err, errInsufficientFunds) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Insufficient balance. Available: $%.2f, Required: $%.2f", available, req.Amount),
			})
			return
		}
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"account_id":       req.AccountID,
				"transaction_type": req.TransactionType,
				"amount":           req.Amount,
				"error":            err.Error(),
			}).Error("Transaction failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction failed. Transaction has been rolled back."})
			return
		}

		logrus.WithFields(logrus.Fields{
			"transaction_id":   entry.ID,
			"account_id":       req.AccountID,
			"transaction_type": req.TransactionType,
			"amount":           req.Amount,
			"timestamp":        time.Now().Format(time.RFC3339),
		}).Info("Transaction completed")
		invalidateAccountCaches(c, req.AccountID)
		c.JSON(http.StatusCreated, entry)
	}
}

// GetTransactionHandler returns one ledger entry by ID
func GetTransactionHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := uintParam(c, "id")
		if !ok {
			return
		}
		var entry domain.Transaction
		if err := db.First(&entry, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
			return
		}
		c.JSON(http.StatusOK, entry)
	}
}
