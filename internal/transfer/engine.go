package transfer

import (
	"errors"  // Error classification
	"fmt"     // Message formatting
	"regexp"  // External account format validation
	"strings" // Bank name trimming
	"time"    // Daily window arithmetic

	"banking_api/internal/domain" // Ledger models

	"github.com/sirupsen/logrus" // Structured logging
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Row locking
)

// External transfer field formats
var (
	externalAccountNumberRe = regexp.MustCompile(`^[0-9]{8,20}$`) // 8-20 digits
	externalRoutingNumberRe = regexp.MustCompile(`^[0-9]{9}$`)    // Exactly 9 digits
)

// Result is the composite transfer view returned to API callers. A transfer
// has no storage of its own; it is reconstructed from the ledger rows that
// share one reference ID.
type Result struct {
	TransferID               string                   `json:"transfer_id"`                       // Reference ID
	SourceTransactionID      uint                     `json:"source_transaction_id"`             // Debit-side ledger row
	DestinationTransactionID *uint                    `json:"destination_transaction_id"`        // Credit-side ledger row, nil for external
	TransferType             domain.TransferType      `json:"transfer_type"`                     // internal or external
	Amount                   float64                  `json:"amount"`                            // Transfer amount
	Status                   domain.TransactionStatus `json:"status"`                            // completed, or pending for external
	SourceAccountID          uint                     `json:"source_account_id"`                 // Debited account
	DestinationAccountID     *uint                    `json:"destination_account_id"`            // Credited account, nil for external
	ExternalAccountNumber    string                   `json:"external_account_number,omitempty"` // External destination account
	ExternalBankName         string                   `json:"external_bank_name,omitempty"`      // External destination bank
	Description              string                   `json:"description,omitempty"`             // Transfer description
	CreatedAt                time.Time                `json:"created_at"`                        // Debit row creation time
	UpdatedAt                time.Time                `json:"updated_at"`                        // Debit row update time
}

// Engine orchestrates money transfers: account validation, limit
// enforcement, balance mutation and ledger writes happen as one atomic
// database transaction per transfer. It is the only component that writes
// transfer-tagged ledger rows or mutates balances as part of a transfer.
type Engine struct {
	db     *gorm.DB // Ledger store
	limits Limits   // Immutable limit configuration
}

// NewEngine builds a transfer engine over the given ledger store
func NewEngine(db *gorm.DB, limits Limits) *Engine {
	return &Engine{db: db, limits: limits}
}

// lockForUpdate adds a row lock to the query. SQLite has no FOR UPDATE
// syntax; its single-writer transaction lock already covers the read
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// CreateInternalTransfer moves funds between two accounts held in this
// system. Both balance mutations and both ledger rows commit together or
// not at all; on any mid-flight failure the whole transfer rolls back.
func (e *Engine) CreateInternalTransfer(sourceID, destinationID uint, amount float64, description string) (*Result, error) {
	referenceID := newReferenceID(internalPrefix)
	logrus.WithFields(logrus.Fields{
		"reference_id":           referenceID,
		"source_account_id":      sourceID,
		"destination_account_id": destinationID,
		"amount":                 amount,
	}).Info("Internal transfer requested")

	// Schema validation upstream already rejects non-positive amounts; the
	// engine rejects them again so it never depends on its callers
	if amount <= 0 {
		return nil, errf(CodeInvalidRequest, "Transfer amount must be positive")
	}

	var result *Result
	err := e.db.Transaction(func(tx *gorm.DB) error {
		// Lock both account rows for the duration of the transfer so two
		// concurrent debits cannot both read the same stale balance
		var source domain.Account
		if err := lockForUpdate(tx).First(&source, sourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(CodeNotFound, "Source account not found")
			}
			return err
		}
		var destination domain.Account
		if err := lockForUpdate(tx).First(&destination, destinationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(CodeNotFound, "Destination account not found")
			}
			return err
		}
		if source.ID == destination.ID {
			return errf(CodeInvalidRequest, "Source and destination accounts must be different")
		}

		// Limit policy, first failure wins: minimum, single cap, balance
		// floor, daily total
		if lerr := e.limits.checkAmount(amount, false); lerr != nil {
			return lerr
		}
		if lerr := e.limits.checkBalance(source.Balance, amount); lerr != nil {
			return lerr
		}
		usedToday, err := dailyTransferTotal(tx, source.ID, time.Now())
		if err != nil {
			return err
		}
		if lerr := e.limits.checkDaily(usedToday, amount); lerr != nil {
			return lerr
		}

		// Debit source
		if err := tx.Model(&source).Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		// Credit destination
		if err := tx.Model(&destination).Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
			return err
		}

		// Debit-side ledger row
		sourceTxn := domain.Transaction{
			AccountID:            source.ID,
			TransactionType:      domain.TransactionTypeTransferOut,
			Amount:               amount,
			Description:          defaultDescription(description, "Transfer to account "+destination.AccountNumber),
			TransferType:         domain.TransferTypeInternal,
			DestinationAccountID: &destination.ID,
			Status:               domain.StatusCompleted,
			ReferenceID:          referenceID,
		}
		if err := tx.Create(&sourceTxn).Error; err != nil {
			return err
		}
		// Credit-side ledger row, same reference ID and amount
		destinationTxn := domain.Transaction{
			AccountID:            destination.ID,
			TransactionType:      domain.TransactionTypeTransferIn,
			Amount:               amount,
			Description:          defaultDescription(description, "Transfer from account "+source.AccountNumber),
			TransferType:         domain.TransferTypeInternal,
			DestinationAccountID: &source.ID,
			Status:               domain.StatusCompleted,
			ReferenceID:          referenceID,
		}
		if err := tx.Create(&destinationTxn).Error; err != nil {
			return err
		}

		result = &Result{
			TransferID:               referenceID,
			SourceTransactionID:      sourceTxn.ID,
			DestinationTransactionID: &destinationTxn.ID,
			TransferType:             domain.TransferTypeInternal,
			Amount:                   amount,
			Status:                   domain.StatusCompleted,
			SourceAccountID:          source.ID,
			DestinationAccountID:     &destination.ID,
			Description:              description,
			CreatedAt:                sourceTxn.CreatedAt,
			UpdatedAt:                sourceTxn.UpdatedAt,
		}
		return nil // Commit
	})
	if err != nil {
		return nil, e.classify(err, referenceID, "Internal transfer")
	}

	logrus.WithFields(logrus.Fields{
		"reference_id":               referenceID,
		"source_transaction_id":      result.SourceTransactionID,
		"destination_transaction_id": *result.DestinationTransactionID,
		"amount":                     amount,
	}).Info("Internal transfer completed")
	return result, nil
}

// CreateExternalTransfer debits an account in favor of an account held at
// another bank. Only the debit side is recorded; the row starts out pending
// and is moved to completed, failed or reversed by the settlement process
// (not implemented here).
func (e *Engine) CreateExternalTransfer(sourceID uint, accountNumber, bankName, routingNumber string, amount float64, description string) (*Result, error) {
	referenceID := newReferenceID(externalPrefix)
	logrus.WithFields(logrus.Fields{
		"reference_id":      referenceID,
		"source_account_id": sourceID,
		"external_bank":     bankName,
		"amount":            amount,
	}).Info("External transfer requested")

	if amount <= 0 {
		return nil, errf(CodeInvalidRequest, "Transfer amount must be positive")
	}

	var result *Result
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var source domain.Account
		if err := lockForUpdate(tx).First(&source, sourceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errf(CodeNotFound, "Source account not found")
			}
			return err
		}

		// External destination format checks run before any balance or
		// limit evaluation
		if verr := validateExternalDetails(accountNumber, bankName, routingNumber); verr != nil {
			return verr
		}

		if lerr := e.limits.checkAmount(amount, true); lerr != nil {
			return lerr
		}
		if lerr := e.limits.checkBalance(source.Balance, amount); lerr != nil {
			return lerr
		}
		usedToday, err := dailyTransferTotal(tx, source.ID, time.Now())
		if err != nil {
			return err
		}
		if lerr := e.limits.checkDaily(usedToday, amount); lerr != nil {
			return lerr
		}

		// Debit source
		if err := tx.Model(&source).Update("balance", gorm.Expr("balance - ?", amount)).Error; err != nil {
			return err
		}
		// Single debit-side row, pending until external settlement
		sourceTxn := domain.Transaction{
			AccountID:             source.ID,
			TransactionType:       domain.TransactionTypeTransferOut,
			Amount:                amount,
			Description:           defaultDescription(description, "External transfer to "+bankName),
			TransferType:          domain.TransferTypeExternal,
			ExternalAccountNumber: accountNumber,
			ExternalBankName:      bankName,
			ExternalRoutingNumber: routingNumber,
			Status:                domain.StatusPending,
			ReferenceID:           referenceID,
		}
		if err := tx.Create(&sourceTxn).Error; err != nil {
			return err
		}

		result = &Result{
			TransferID:            referenceID,
			SourceTransactionID:   sourceTxn.ID,
			TransferType:          domain.TransferTypeExternal,
			Amount:                amount,
			Status:                domain.StatusPending,
			SourceAccountID:       source.ID,
			ExternalAccountNumber: accountNumber,
			ExternalBankName:      bankName,
			Description:           description,
			CreatedAt:             sourceTxn.CreatedAt,
			UpdatedAt:             sourceTxn.UpdatedAt,
		}
		return nil // Commit
	})
	if err != nil {
		return nil, e.classify(err, referenceID, "External transfer")
	}

	logrus.WithFields(logrus.Fields{
		"reference_id":          referenceID,
		"source_transaction_id": result.SourceTransactionID,
		"status":                domain.StatusPending,
	}).Info("External transfer initiated")
	return result, nil
}

// GetTransferByReferenceID reconstructs the composite transfer view from the
// ledger rows sharing the given reference ID
func (e *Engine) GetTransferByReferenceID(referenceID string) (*Result, error) {
	var rows []domain.Transaction
	if err := e.db.Where("reference_id = ?", referenceID).Find(&rows).Error; err != nil {
		logrus.WithFields(logrus.Fields{"reference_id": referenceID, "error": err.Error()}).Error("Transfer lookup failed")
		return nil, errf(CodePersistenceFailure, "Transfer lookup failed")
	}
	if len(rows) == 0 {
		return nil, errf(CodeNotFound, fmt.Sprintf("Transfer with reference ID %s not found", referenceID))
	}

	var sourceTxn, destinationTxn *domain.Transaction
	for i := range rows {
		switch rows[i].TransactionType {
		case domain.TransactionTypeTransferOut:
			sourceTxn = &rows[i]
		case domain.TransactionTypeTransferIn:
			destinationTxn = &rows[i]
		}
	}
	if sourceTxn == nil {
		return nil, errf(CodeNotFound, "Transfer details incomplete")
	}

	result := &Result{
		TransferID:            referenceID,
		SourceTransactionID:   sourceTxn.ID,
		TransferType:          sourceTxn.TransferType,
		Amount:                sourceTxn.Amount,
		Status:                sourceTxn.Status,
		SourceAccountID:       sourceTxn.AccountID,
		DestinationAccountID:  sourceTxn.DestinationAccountID,
		ExternalAccountNumber: sourceTxn.ExternalAccountNumber,
		ExternalBankName:      sourceTxn.ExternalBankName,
		Description:           sourceTxn.Description,
		CreatedAt:             sourceTxn.CreatedAt,
		UpdatedAt:             sourceTxn.UpdatedAt,
	}
	if destinationTxn != nil {
		result.DestinationTransactionID = &destinationTxn.ID
	}
	return result, nil
}

// classify turns a transaction callback error into a transfer error:
// validation failures pass through untouched, anything else is a
// persistence failure that already triggered a full rollback
func (e *Engine) classify(err error, referenceID, operation string) error {
	var terr *Error
	if errors.As(err, &terr) {
		logrus.WithFields(logrus.Fields{
			"reference_id": referenceID,
			"code":         terr.Code,
			"error":        terr.Message,
		}).Warn(operation + " rejected")
		return terr
	}
	logrus.WithFields(logrus.Fields{
		"reference_id": referenceID,
		"error":        err.Error(),
	}).Error(operation + " failed - database error")
	return errf(CodePersistenceFailure, "Transfer failed due to database error. Transaction has been rolled back.")
}

// validateExternalDetails checks the external destination fields: 8-20 digit
// account number, 9 digit routing number, 2-100 character bank name
func validateExternalDetails(accountNumber, bankName, routingNumber string) *Error {
	if !externalAccountNumberRe.MatchString(accountNumber) {
		return errf(CodeInvalidRequest, "External account number must be 8-20 digits")
	}
	if !externalRoutingNumberRe.MatchString(routingNumber) {
		return errf(CodeInvalidRequest, "External routing number must be exactly 9 digits")
	}
	name := strings.TrimSpace(bankName)
	if len(name) < 2 || len(name) > 100 {
		return errf(CodeInvalidRequest, "External bank name must be 2-100 characters")
	}
	return nil
}

// dailyTransferTotal sums the outbound transfer amounts recorded for an
// account since the start of the current UTC day. Pending external debits
// count against the limit; failed and reversed rows do not.
func dailyTransferTotal(tx *gorm.DB, accountID uint, now time.Time) (float64, error) {
	dayStart := now.UTC().Truncate(24 * time.Hour)
	var total float64
	err := tx.Model(&domain.Transaction{}).
		Where("account_id = ? AND transaction_type = ? AND status IN ? AND created_at >= ?",
			accountID, domain.TransactionTypeTransferOut,
			[]domain.TransactionStatus{domain.StatusPending, domain.StatusCompleted}, dayStart).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// defaultDescription returns the caller-supplied description, or the given
// fallback when none was provided
func defaultDescription(description, fallback string) string {
	if strings.TrimSpace(description) != "" {
		return description
	}
	return fallback
}
