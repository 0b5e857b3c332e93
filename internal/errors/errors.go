// Package errors provides custom error types for the CoinBuddy API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized       = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid email or password", StatusCode: http.StatusUnauthorized}
	ErrAccountLocked      = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput     = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound         = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrStoreUnavailable = &AppError{Code: "STORE_UNAVAILABLE", Message: "Data store is unavailable", StatusCode: http.StatusServiceUnavailable}
	ErrInternalServer   = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound   = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateEmail = &AppError{Code: "DUPLICATE_EMAIL", Message: "A user with this email already exists", StatusCode: http.StatusConflict}
)

// Wallet errors.
var (
	ErrWalletNotFound = &AppError{Code: "WALLET_NOT_FOUND", Message: "Wallet not found", StatusCode: http.StatusNotFound}
)

// Transaction errors.
var (
	ErrTransactionNotFound = &AppError{Code: "TRANSACTION_NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrInvalidDirection    = &AppError{Code: "INVALID_DIRECTION", Message: "Transaction type must be income or expense", StatusCode: http.StatusBadRequest}
)

// Backup errors.
var (
	ErrInvalidFormat = &AppError{Code: "INVALID_FORMAT", Message: "Invalid backup file format", StatusCode: http.StatusBadRequest}
)

// QR token errors.
var (
	ErrTokenNotFound        = &AppError{Code: "TOKEN_NOT_FOUND", Message: "Invalid or unknown token", StatusCode: http.StatusNotFound}
	ErrTokenExpired         = &AppError{Code: "TOKEN_EXPIRED", Message: "Token has expired", StatusCode: http.StatusGone}
	ErrTokenAlreadyRedeemed = &AppError{Code: "TOKEN_ALREADY_REDEEMED", Message: "Token has already been used", StatusCode: http.StatusConflict}
	ErrTokenNoOwner         = &AppError{Code: "TOKEN_NO_OWNER", Message: "Token has no associated user", StatusCode: http.StatusConflict}
)
