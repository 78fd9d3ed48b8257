package retry

import (
	"errors"
	"fmt"
)

// Kind is the classification of an external-service failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindNonRetryable
	KindBudgetExceeded
	KindRateLimited
	KindTransient
)

func (k Kind) String() string {
	switch k {
	case KindNonRetryable:
		return "non-retryable"
	case KindBudgetExceeded:
		return "budget-exceeded"
	case KindRateLimited:
		return "rate-limited"
	case KindTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Retryable reports whether failures of this kind are retried.
func (k Kind) Retryable() bool {
	return k == KindRateLimited || k == KindTransient || k == KindUnknown
}

// Error is returned for failures that are raised without retrying:
// non-retryable and budget-exceeded ones. Err is the service error unchanged.
type Error struct {
	Kind     Kind
	Label    string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Label, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsBudgetExceeded reports whether err is, or wraps, a budget-exceeded failure.
func IsBudgetExceeded(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindBudgetExceeded
}

// IsNonRetryable reports whether err is, or wraps, a non-retryable failure.
func IsNonRetryable(err error) bool {
	var re *Error
	return errors.As(err, &re) && re.Kind == KindNonRetryable
}
