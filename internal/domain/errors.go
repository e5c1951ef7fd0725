package domain

import "errors"

// Sentinel errors for the booking and payment flow. Handlers map these to
// HTTP status codes with errors.Is, services wrap them with fmt.Errorf("%w: ...").
var (
	ErrNotFound         = errors.New("not found")
	ErrUnavailable      = errors.New("not available")
	ErrInvalidSignature = errors.New("invalid payment signature")
	ErrProviderFailure  = errors.New("payment provider request failed")
	ErrValidation       = errors.New("invalid request")
)
