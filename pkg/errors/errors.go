package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNotFound represents a city the directory could not resolve
	ErrorTypeNotFound ErrorType = "not_found"
	// ErrorTypeStateNotFound represents a listing page without an embedded state script
	ErrorTypeStateNotFound ErrorType = "state_not_found"
	// ErrorTypeMalformedState represents an embedded state that could not be parsed
	ErrorTypeMalformedState ErrorType = "malformed_state"
	// ErrorTypeAggregationPrecondition represents a record with non-numeric position or cost
	ErrorTypeAggregationPrecondition ErrorType = "aggregation_precondition"
	// ErrorTypeNetwork represents network-related errors
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeRateLimit represents rate limiting errors
	ErrorTypeRateLimit ErrorType = "rate_limit"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeStorage represents output and database errors
	ErrorTypeStorage ErrorType = "storage"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// Sentinels for errors.Is matching against a ScrapeError of the same type.
var (
	ErrNotFound                = &ScrapeError{Type: ErrorTypeNotFound}
	ErrStateNotFound           = &ScrapeError{Type: ErrorTypeStateNotFound}
	ErrMalformedState          = &ScrapeError{Type: ErrorTypeMalformedState}
	ErrAggregationPrecondition = &ScrapeError{Type: ErrorTypeAggregationPrecondition}
	ErrRateLimit               = &ScrapeError{Type: ErrorTypeRateLimit}
)

// ScrapeError represents a scraper-specific error
type ScrapeError struct {
	Type ErrorType
	// Subject is the city or postal code the error relates to, if any.
	Subject string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Subject, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Subject, e.Message)
}

// Unwrap returns the underlying error
func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a ScrapeError of the same type.
func (e *ScrapeError) Is(target error) bool {
	t, ok := target.(*ScrapeError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// IsRetryable returns true if the error is retryable
func (e *ScrapeError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether err carries a retryable ScrapeError.
func IsRetryable(err error) bool {
	var se *ScrapeError
	if stderrors.As(err, &se) {
		return se.IsRetryable()
	}
	return false
}

// New creates a new ScrapeError
func New(errType ErrorType, subject, message string, err error) *ScrapeError {
	return &ScrapeError{
		Type:    errType,
		Subject: subject,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNotFound creates a new city resolution error
func NewNotFound(city, message string) *ScrapeError {
	return New(ErrorTypeNotFound, city, message, nil)
}

// NewStateNotFound creates a new missing-state error
func NewStateNotFound(postalCode, message string) *ScrapeError {
	return New(ErrorTypeStateNotFound, postalCode, message, nil)
}

// NewMalformedState creates a new state parsing error
func NewMalformedState(message string, err error) *ScrapeError {
	return New(ErrorTypeMalformedState, "", message, err)
}

// NewAggregationPrecondition creates a new aggregation contract error
func NewAggregationPrecondition(restaurantID, message string, err error) *ScrapeError {
	return New(ErrorTypeAggregationPrecondition, restaurantID, message, err)
}

// NewNetwork creates a new network error
func NewNetwork(subject, message string, err error) *ScrapeError {
	return New(ErrorTypeNetwork, subject, message, err)
}

// NewRateLimit creates a new rate limit error
func NewRateLimit(subject string, duration time.Duration) *ScrapeError {
	message := fmt.Sprintf("rate limited for %v", duration)
	return New(ErrorTypeRateLimit, subject, message, nil)
}

// NewCache creates a new cache error
func NewCache(subject, message string, err error) *ScrapeError {
	return New(ErrorTypeCache, subject, message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(subject, message string, err error) *ScrapeError {
	return New(ErrorTypePublisher, subject, message, err)
}

// NewStorage creates a new storage error
func NewStorage(subject, message string, err error) *ScrapeError {
	return New(ErrorTypeStorage, subject, message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ScrapeError {
	return New(ErrorTypeConfiguration, "", message, err)
}
