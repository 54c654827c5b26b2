package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound           = errors.New("not found")
	ErrNotConfigured      = errors.New("generation service is not configured")
	ErrEmptyResponse      = errors.New("generation service returned an empty response")
	ErrUnintelligible     = errors.New("speech was not understood")
	ErrServiceUnavailable = errors.New("speech recognition service unavailable")
)
