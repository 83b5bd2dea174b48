package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrRateLimited marks a provider-side rate limit so callers can
	// distinguish "try again later" from a broken request.
	ErrRateLimited = errors.New("upstream rate limited")
	// ErrUpstream marks an upstream failure with no cached fallback.
	ErrUpstream = errors.New("upstream failure")
)
