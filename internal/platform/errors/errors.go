// Package errors provides error types and utilities for subharvest.
// It extends the standard errors package with the provider failure taxonomy
// and context wrapping.
package errors

import (
	"context"
	"errors"
	"fmt"
)

// Provider failure taxonomy. Every failure inside a source adapter is
// returned wrapping one of these, so callers can classify outcomes without
// knowing the provider.
var (
	// ErrProviderUnavailable indicates a network-level failure (timeout, refused, DNS)
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrProviderProtocol indicates a non-success status or a malformed payload
	ErrProviderProtocol = errors.New("provider protocol error")

	// ErrCredentialMissing indicates a credentialed provider has no usable credential
	ErrCredentialMissing = errors.New("credential missing")

	// ErrPaginationIncomplete indicates page/total metadata could not be established
	// or a page could not be fetched. It is a ProviderProtocol error.
	ErrPaginationIncomplete = fmt.Errorf("pagination incomplete: %w", ErrProviderProtocol)

	// ErrSourcePanic indicates a source adapter panicked and was recovered
	ErrSourcePanic = errors.New("source panicked")

	// ErrCircuitOpen indicates a source was skipped because its circuit breaker is open
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// Sentinel errors for transport failures, mapped from HTTP status codes.
var (
	// ErrTimeout indicates an operation exceeded its time limit
	ErrTimeout = errors.New("operation timed out")

	// ErrRateLimit indicates a rate limit was exceeded
	ErrRateLimit = errors.New("rate limit exceeded")

	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput indicates invalid input was provided
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates authentication or authorization failed
	ErrUnauthorized = errors.New("unauthorized")

	// ErrServiceUnavailable indicates a service is temporarily unavailable
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrInvalidResponse indicates a response could not be parsed or was malformed
	ErrInvalidResponse = errors.New("invalid response")
)

// wrappedError wraps an error with additional context
type wrappedError struct {
	msg   string
	cause error
}

// Error implements the error interface
func (e *wrappedError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.cause)
	}
	return e.msg
}

// Unwrap returns the underlying error
func (e *wrappedError) Unwrap() error {
	return e.cause
}

// Wrap wraps an error with additional context message.
// If err is nil, Wrap returns nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   msg,
		cause: err,
	}
}

// Wrapf wraps an error with a formatted context message.
// If err is nil, Wrapf returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &wrappedError{
		msg:   fmt.Sprintf(format, args...),
		cause: err,
	}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// New creates a new error with the given message.
func New(msg string) error {
	return errors.New(msg)
}

// Errorf formats according to a format specifier and returns the string as a value that satisfies error.
func Errorf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}

// Join returns an error that wraps the given errors.
// Any nil error values are discarded.
func Join(errs ...error) error {
	return errors.Join(errs...)
}

// Protocol marks err as a ProviderProtocol failure while keeping its chain.
func Protocol(err error, msg string) error {
	if err == nil {
		return nil
	}
	if Is(err, ErrProviderProtocol) {
		return Wrap(err, msg)
	}
	return Wrap(Join(ErrProviderProtocol, err), msg)
}

// Unavailable marks err as a ProviderUnavailable failure while keeping its chain.
func Unavailable(err error, msg string) error {
	if err == nil {
		return nil
	}
	if Is(err, ErrProviderUnavailable) {
		return Wrap(err, msg)
	}
	return Wrap(Join(ErrProviderUnavailable, err), msg)
}

// Classify returns a short label for the failure kind of err, for logs and events.
func Classify(err error) string {
	switch {
	case err == nil:
		return "none"
	case Is(err, ErrCredentialMissing):
		return "credential_missing"
	case Is(err, ErrPaginationIncomplete):
		return "pagination_incomplete"
	case Is(err, ErrCircuitOpen):
		return "circuit_open"
	case Is(err, ErrSourcePanic):
		return "panic"
	case Is(err, context.Canceled), Is(err, context.DeadlineExceeded), Is(err, ErrTimeout):
		return "timeout"
	case Is(err, ErrProviderProtocol), Is(err, ErrInvalidResponse), Is(err, ErrNotFound),
		Is(err, ErrUnauthorized):
		return "protocol"
	case Is(err, ErrProviderUnavailable), Is(err, ErrServiceUnavailable), Is(err, ErrRateLimit):
		return "unavailable"
	default:
		return "unknown"
	}
}

// IsTimeout reports whether the error is a timeout error
func IsTimeout(err error) bool {
	return Is(err, ErrTimeout)
}

// IsRateLimit reports whether the error is a rate limit error
func IsRateLimit(err error) bool {
	return Is(err, ErrRateLimit)
}

// IsCredentialMissing reports whether the error is a missing credential error
func IsCredentialMissing(err error) bool {
	return Is(err, ErrCredentialMissing)
}

// IsProtocol reports whether the error is a provider protocol error
func IsProtocol(err error) bool {
	return Is(err, ErrProviderProtocol)
}

// IsUnavailable reports whether the error is a provider unavailable error
func IsUnavailable(err error) bool {
	return Is(err, ErrProviderUnavailable)
}
