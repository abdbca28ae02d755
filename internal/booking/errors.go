package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingFields is matched by every *ValidationError.
	ErrMissingFields = errors.New("missing required fields")

	// ErrUnknownLocation is returned when no vendor owns the requested location.
	ErrUnknownLocation = errors.New("invalid location")
)

// ValidationError lists the booking fields that were blank.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "Missing required fields: " + strings.Join(e.Missing, ", ")
}

// Is lets errors.Is(err, ErrMissingFields) match.
func (e *ValidationError) Is(target error) bool {
	return target == ErrMissingFields
}

// UpstreamError wraps a vendor-side booking failure.
type UpstreamError struct {
	Vendor string
	Err    error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("booking with %s failed: %v", e.Vendor, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
