package annotation

import (
	"errors"
	"fmt"
)

// ErrorCategory is the normalized failure taxonomy for the annotation provider.
type ErrorCategory string

const (
	// ErrorBadData: the model answered but the answer is unusable (malformed
	// JSON, label outside DocumentTypes, empty candidate).
	ErrorBadData ErrorCategory = "bad_data"

	// ErrorProviderOutage: staging or the model call itself failed.
	ErrorProviderOutage ErrorCategory = "provider_outage"

	ErrorInternal ErrorCategory = "internal"
)

// ProviderError wraps provider failures with a category.
type ProviderError struct {
	Category   ErrorCategory
	Provider   string
	Operation  string
	Message    string
	Underlying error
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("annotation %s %s [%s]: %s: %v", e.Provider, e.Operation, e.Category, e.Message, e.Underlying)
	}
	return fmt.Sprintf("annotation %s %s [%s]: %s", e.Provider, e.Operation, e.Category, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Underlying
}

func NewProviderError(category ErrorCategory, provider, operation, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		Provider:   provider,
		Operation:  operation,
		Message:    message,
		Underlying: underlying,
	}
}

// CategoryOf extracts the category; anything that is not a ProviderError is
// internal.
func CategoryOf(err error) ErrorCategory {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Category
	}
	return ErrorInternal
}
