package domain

import "errors"

// ErrorCode classifies a withdrawal failure. The set is closed and the
// string values are part of the wire contract.
type ErrorCode string

const (
	CodeAccountNotFound   ErrorCode = "ACCOUNT_NOT_FOUND"
	CodeInvalidAmount     ErrorCode = "INVALID_AMOUNT"
	CodeInsufficientFunds ErrorCode = "INSUFFICIENT_FUNDS"
)

// Error is a typed domain failure. Failures are ordinary return values,
// never panics; callers present Message to users or logs.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrMissingFields and ErrCurrencyMismatch reuse the INVALID_AMOUNT code;
// in-process callers discriminate with errors.Is against the specific
// sentinel.
var (
	ErrMissingFields     = &Error{Code: CodeInvalidAmount, Message: "Missing required account fields"}
	ErrAccountNotFound   = &Error{Code: CodeAccountNotFound, Message: "Account not found"}
	ErrInvalidAmount     = &Error{Code: CodeInvalidAmount, Message: "Withdrawal amount must be positive"}
	ErrCurrencyMismatch  = &Error{Code: CodeInvalidAmount, Message: "Currency mismatch"}
	ErrInsufficientFunds = &Error{Code: CodeInsufficientFunds, Message: "Insufficient funds for withdrawal"}

	// ErrAccountExists is a storage-layer sentinel, outside the
	// withdrawal code set.
	ErrAccountExists = errors.New("account already exists")
)
