package presence

import "errors"

var (
	// ErrNotAuthenticated is returned when no session identity is attached
	// to the calling context. No backend write happens in that case.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrBackendUnavailable wraps store/network failures. The store never
	// retries; callers repeat the action.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCoordinate is returned for out-of-range latitude/longitude.
	ErrInvalidCoordinate = errors.New("invalid coordinate")

	// ErrInvalidRole is returned for a role outside {driver, passenger}.
	ErrInvalidRole = errors.New("invalid role")

	// ErrClosed is returned when subscribing on a store that has shut down.
	ErrClosed = errors.New("presence store closed")
)
