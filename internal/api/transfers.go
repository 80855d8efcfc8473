package api

import (
	"errors"   // Error classification
	"net/http" // HTTP status codes

	"banking_api/internal/errlog"   // Error log context keys
	"banking_api/internal/transfer" // Transfer engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// InternalTransferRequest moves funds between two in-system accounts
type InternalTransferRequest struct {
	SourceAccountID      uint    `json:"source_account_id" binding:"required"`      // Debited account
	DestinationAccountID uint    `json:"destination_account_id" binding:"required"` // Credited account
	Amount               float64 `json:"amount" binding:"required,gt=0"`            // Transfer amount
	Description          string  `json:"description" binding:"max=255"`             // Optional description
}

// ExternalTransferRequest moves funds to an account at another bank
type ExternalTransferRequest struct {
	SourceAccountID       uint    `json:"source_account_id" binding:"required"`       // Debited account
	ExternalAccountNumber string  `json:"external_account_number" binding:"required"` // 8-20 digit destination account
	ExternalBankName      string  `json:"external_bank_name" binding:"required"`      // Destination bank name
	ExternalRoutingNumber string  `json:"external_routing_number" binding:"required"` // 9 digit routing number
	Amount                float64 `json:"amount" binding:"required,gt=0"`             // Transfer amount
	Description           string  `json:"description" binding:"max=255"`              // Optional description
}

// InternalTransferHandler creates an internal transfer. The engine performs
// validation, limit checks, balance mutation and ledger writes atomically.
func InternalTransferHandler(engine *transfer.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InternalTransferRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		result, err := engine.CreateInternalTransfer(req.SourceAccountID, req.DestinationAccountID, req.Amount, req.Description)
		if err != nil {
			respondTransferError(c, err)
			return
		}
		// Both balances changed; drop both cache entries
		invalidateAccountCaches(c, result.SourceAccountID, *result.DestinationAccountID)
		c.JSON(http.StatusCreated, result)
	}
}

// ExternalTransferHandler creates an external transfer; the resulting debit
// stays pending until external settlement
func ExternalTransferHandler(engine *transfer.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ExternalTransferRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		result, err := engine.CreateExternalTransfer(
			req.SourceAccountID,
			req.ExternalAccountNumber,
			req.ExternalBankName,
			req.ExternalRoutingNumber,
			req.Amount,
			req.Description,
		)
		if err != nil {
			respondTransferError(c, err)
			return
		}
		invalidateAccountCaches(c, result.SourceAccountID)
		c.JSON(http.StatusCreated, result)
	}
}

// GetTransferHandler returns the composite transfer view for a reference ID
func GetTransferHandler(engine *transfer.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := engine.GetTransferByReferenceID(c.Param("reference_id"))
		if err != nil {
			respondTransferError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// respondTransferError maps an engine error to its HTTP response and tags
// the request for the error log
func respondTransferError(c *gin.Context, err error) {
	var terr *transfer.Error
	if errors.As(err, &terr) {
		c.Set(errlog.ContextErrorType, string(terr.Code)) // Error log classification
		_ = c.Error(terr)                                 // Attach for the error log middleware
		c.JSON(terr.Code.HTTPStatus(), gin.H{"error": terr.Message})
		return
	}
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
