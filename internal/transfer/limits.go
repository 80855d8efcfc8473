package transfer

import (
	"fmt"

	"banking_api/internal/config" // Limit defaults
)

// Limits is the immutable limit configuration evaluated against every
// transfer. It is passed in at engine construction and never read from
// ambient state, so tests can run with arbitrary thresholds.
type Limits struct {
	MinTransferAmount         float64 // Rule 1: amount must be at least this
	MaxTransferAmount         float64 // Rule 2 (internal): amount must not exceed this
	MaxExternalTransferAmount float64 // Rule 2 (external): amount must not exceed this
	MinAccountBalance         float64 // Rule 3: balance after debit must not fall below this
	DailyTransferLimit        float64 // Rule 4: daily outbound total must not exceed this
}

// DefaultLimits returns the built-in limit thresholds
func DefaultLimits() Limits {
	return Limits{
		MinTransferAmount:         config.DefaultMinTransferAmount,
		MaxTransferAmount:         config.DefaultMaxTransferAmount,
		MaxExternalTransferAmount: config.DefaultMaxExternalTransferAmount,
		MinAccountBalance:         config.DefaultMinAccountBalance,
		DailyTransferLimit:        config.DefaultDailyTransferLimit,
	}
}

// FromConfig assembles Limits from the loaded application configuration
func FromConfig(cfg *config.Config) Limits {
	return Limits{
		MinTransferAmount:         cfg.MinTransferAmount,
		MaxTransferAmount:         cfg.MaxTransferAmount,
		MaxExternalTransferAmount: cfg.MaxExternalTransferAmount,
		MinAccountBalance:         cfg.MinAccountBalance,
		DailyTransferLimit:        cfg.DailyTransferLimit,
	}
}

// checkAmount evaluates the per-transfer amount rules (rules 1 and 2).
// External transfers have their own, lower single-transfer cap.
func (l Limits) checkAmount(amount float64, external bool) *Error {
	if amount < l.MinTransferAmount {
		return errf(CodeBelowMinimum,
			fmt.Sprintf("Transfer amount must be at least $%.2f", l.MinTransferAmount))
	}
	maxAmount := l.MaxTransferAmount
	if external {
		maxAmount = l.MaxExternalTransferAmount
	}
	if amount > maxAmount {
		return errf(CodeExceedsSingleLimit,
			fmt.Sprintf("Transfer amount exceeds maximum limit ($%.2f)", maxAmount))
	}
	return nil
}

// checkBalance evaluates the balance floor (rule 3)
func (l Limits) checkBalance(balance, amount float64) *Error {
	if balance < amount {
		return errf(CodeInsufficientBalance,
			fmt.Sprintf("Insufficient balance. Available: $%.2f, Required: $%.2f", balance, amount))
	}
	if balance-amount < l.MinAccountBalance {
		return errf(CodeInsufficientBalance,
			fmt.Sprintf("Transfer would bring balance below minimum ($%.2f)", l.MinAccountBalance))
	}
	return nil
}

// checkDaily evaluates the rolling daily limit (rule 4) given the outbound
// total already used today
func (l Limits) checkDaily(usedToday, amount float64) *Error {
	if usedToday+amount > l.DailyTransferLimit {
		return errf(CodeExceedsDailyLimit,
			fmt.Sprintf("Transfer would exceed daily limit. Used: $%.2f, Limit: $%.2f", usedToday, l.DailyTransferLimit))
	}
	return nil
}
