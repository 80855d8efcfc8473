package transfer

import "net/http"

// Code classifies transfer failures. Every engine error carries exactly one
// code, which determines the HTTP status the API surface responds with.
type Code string

// Transfer failure codes
const (
	CodeInvalidRequest      Code = "invalid_request"      // Malformed input or same-account transfer
	CodeNotFound            Code = "not_found"            // Account or reference ID does not exist
	CodeBelowMinimum        Code = "below_minimum"        // Amount under the configured minimum
	CodeExceedsSingleLimit  Code = "exceeds_single_limit" // Amount over the per-transfer maximum
	CodeInsufficientBalance Code = "insufficient_balance" // Debit would cross the balance floor
	CodeExceedsDailyLimit   Code = "exceeds_daily_limit"  // Daily outbound total would be exceeded
	CodePersistenceFailure  Code = "persistence_failure"  // Commit failed, everything rolled back
)

// HTTPStatus maps a failure code to its HTTP response status
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodePersistenceFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

// Error is a transfer failure with a classification code and a
// human-readable message carrying the numeric context
type Error struct {
	Code    Code   // Failure classification
	Message string // Human-readable detail
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// errf builds a transfer error from a code and message
func errf(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}
