package classifier

import (
	"errors"
	"fmt"
)

// ErrEmptyReflection is returned when the reflection is empty after trimming.
// It never reaches the network.
var ErrEmptyReflection = errors.New("empty reflection")

// ValidationMessage is shown for ErrEmptyReflection.
const ValidationMessage = "Please enter a reflection to analyze"

// FallbackMessage is shown for any failure that is not a validation or
// service error.
const FallbackMessage = "Failed to analyze emotion. Please check if the API server is running."

// ServiceError is a non-success HTTP response from the classifier.
type ServiceError struct {
	StatusCode int
	StatusText string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.StatusText)
}

// TransportError means the request did not produce a usable response:
// the connection failed or the body could not be decoded.
type TransportError struct {
	Op  string // "request", "read" or "decode"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message returns the text shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrEmptyReflection) {
		return ValidationMessage
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Error()
	}
	return FallbackMessage
}
