// Package domain defines the core domain models for the expense tracker.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a business domain error with a structured error code.
// Codes have the form TR-<CATEGORY>-<NNNN>; the numeric part mirrors the
// HTTP status the condition maps to.
type DomainError struct {
	Code    string // Error code (e.g., "TR-AUTH-4011")
	Message string // Human-readable message
	Details string // Optional additional details, usually the server message
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// Reason returns the text shown to a user: the details when present,
// otherwise the message.
func (e *DomainError) Reason() string {
	if e.Details != "" {
		return e.Details
	}
	return e.Message
}

// IsDomainError checks if an error is a DomainError with the given code.
// If code is empty, it only checks if the error is a DomainError.
func IsDomainError(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		if code == "" {
			return true
		}
		return de.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error if it's a DomainError.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// ============================================================================
// Argument Errors (ARG)
// ============================================================================

var (
	// ErrInvalidForm indicates the credential form failed local validation.
	ErrInvalidForm = NewDomainError("TR-ARG-4000", "invalid form")

	// ErrMissingCredentials indicates the request lacks an email or password.
	ErrMissingCredentials = NewDomainError("TR-ARG-4001", "email and password are required")

	// ErrInvalidExpense indicates an expense failed validation.
	ErrInvalidExpense = NewDomainError("TR-ARG-4002", "invalid expense")

	// ErrBadRequest indicates a malformed request body.
	ErrBadRequest = NewDomainError("TR-ARG-4003", "bad request")
)

// ============================================================================
// Authentication Errors (AUTH)
// ============================================================================

var (
	// ErrUnauthorized indicates the server refused the presented token.
	ErrUnauthorized = NewDomainError("TR-AUTH-4010", "unauthorized")

	// ErrLoginRejected indicates the server did not issue a token.
	ErrLoginRejected = NewDomainError("TR-AUTH-4011", "login failed")

	// ErrInvalidCredentials is the server-side form of ErrLoginRejected.
	ErrInvalidCredentials = NewDomainError("TR-AUTH-4011", "Invalid credentials")

	// ErrTokenMissing indicates no bearer token was presented.
	ErrTokenMissing = NewDomainError("TR-AUTH-4012", "authorization header missing")

	// ErrTokenInvalid indicates the bearer token could not be verified.
	ErrTokenInvalid = NewDomainError("TR-AUTH-4013", "invalid token")

	// ErrTokenExpired indicates the bearer token has expired.
	ErrTokenExpired = NewDomainError("TR-AUTH-4014", "token expired")

	// ErrRateLimited indicates too many login attempts for one account.
	ErrRateLimited = NewDomainError("TR-AUTH-4290", "too many login attempts")
)

// ============================================================================
// User Errors (USER)
// ============================================================================

var (
	// ErrRegistrationRejected indicates the server refused to create the account.
	ErrRegistrationRejected = NewDomainError("TR-USER-4000", "Failed to create user")

	// ErrAccountNotFound indicates the account does not exist.
	ErrAccountNotFound = NewDomainError("TR-USER-4040", "User not found")

	// ErrAccountExists indicates the email is already registered.
	ErrAccountExists = NewDomainError("TR-USER-4090", "User already exists")
)

// ============================================================================
// Signup Errors (SIGN)
// ============================================================================

var (
	// ErrAutoLoginFailed indicates the account was created but the follow-up
	// login did not establish a session.
	ErrAutoLoginFailed = NewDomainError("TR-SIGN-4240",
		"Signup succeeded but automatic login failed. Please login manually.")
)

// ============================================================================
// Network and System Errors (NET, SYS)
// ============================================================================

var (
	// ErrTransport indicates the server could not be reached.
	ErrTransport = NewDomainError("TR-NET-5030", "server unreachable")

	// ErrUnexpectedResponse indicates a response outside the expected contract.
	ErrUnexpectedResponse = NewDomainError("TR-SYS-5000", "unexpected server response")

	// ErrInternal indicates a local or server-side internal failure.
	ErrInternal = NewDomainError("TR-SYS-5001", "internal error")

	// ErrStorage indicates a storage layer failure.
	ErrStorage = NewDomainError("TR-SYS-5002", "storage error")
)

// Kind classifies a failure for the view layer.
type Kind string

// Failure kinds.
const (
	KindNone            Kind = ""
	KindLocalValidation Kind = "local_validation"
	KindTransport       Kind = "transport"
	KindRejected        Kind = "rejected"
	KindConflict        Kind = "conflict"
	KindUnauthorized    Kind = "unauthorized"
	KindPartialFailure  Kind = "partial_failure"
	KindUnexpected      Kind = "unexpected"
)

// KindOf maps an error to its failure kind. Errors that carry no domain code
// are reported as KindUnexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	code := GetErrorCode(err)
	switch {
	case code == "":
		return KindUnexpected
	case strings.HasPrefix(code, "TR-ARG-"):
		return KindLocalValidation
	case strings.HasPrefix(code, "TR-NET-"):
		return KindTransport
	case strings.HasPrefix(code, "TR-SIGN-"):
		return KindPartialFailure
	case code == ErrAccountExists.Code:
		return KindConflict
	case code == ErrLoginRejected.Code, code == ErrRateLimited.Code, code == ErrRegistrationRejected.Code:
		return KindRejected
	case strings.HasPrefix(code, "TR-AUTH-401"):
		return KindUnauthorized
	default:
		return KindUnexpected
	}
}
