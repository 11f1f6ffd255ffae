package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnbalancedEntry indicates that a journal entry's debits do not equal its credits.
var ErrUnbalancedEntry = errors.New("journal entry debits do not equal credits")

// ErrInsufficientLines indicates that a journal entry touches fewer than two distinct accounts.
var ErrInsufficientLines = errors.New("journal entry must have lines for at least two distinct accounts")

// ErrClosedPeriod indicates a posting attempt against a CLOSED fiscal period.
var ErrClosedPeriod = errors.New("fiscal period is closed for posting")

// ErrNonPostingAccount indicates a line that targets a header/rollup account.
var ErrNonPostingAccount = errors.New("account is not a posting account")

// ErrInvalidStateTransition indicates a journal entry status change outside the allowed table.
var ErrInvalidStateTransition = errors.New("invalid journal entry state transition")

// ErrPendingEntriesExist indicates an attempt to close a period that still has unposted entries.
var ErrPendingEntriesExist = errors.New("fiscal period has unposted journal entries")

// ErrAccountNotFound indicates that a referenced account does not exist.
var ErrAccountNotFound = errors.New("account not found")

// ErrPostingIntegrity is fatal: line sums disagreed with entry totals during posting.
// It aborts the unit of work and must never be retried automatically.
var ErrPostingIntegrity = errors.New("posting integrity violation: line sums disagree with entry totals")

// AppError wraps a lower-level error with a status code and a context message.
// Repositories use it to attach persistence context without losing errors.Is matching.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
