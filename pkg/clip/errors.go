package clip

import "errors"

var (
	// ErrInvalidPayload rejects payload construction from a nil byte source.
	ErrInvalidPayload = errors.New("clip: invalid payload")

	// ErrBackendUnavailable means the selected clipboard service could not
	// be reached (no display connection, permission denied).
	ErrBackendUnavailable = errors.New("clip: backend unavailable")

	// ErrNoBackend means no recognized clipboard service was detected at
	// startup. Get degrades to an empty payload, Set fails with this.
	ErrNoBackend = errors.New("clip: no clipboard backend available")

	// ErrBackendLost means the clipboard service vanished mid-operation,
	// ending any active ownership session.
	ErrBackendLost = errors.New("clip: backend connection lost")

	// ErrTimeout means a bounded protocol wait expired.
	ErrTimeout = errors.New("clip: operation timed out")

	// ErrUnsupported means the backend does not implement the operation
	// (Watch on one-shot backends, primary selection where absent).
	ErrUnsupported = errors.New("clip: operation not supported by backend")

	// ErrPayloadTooLarge means the input exceeded the configured payload
	// size limit before any write was attempted.
	ErrPayloadTooLarge = errors.New("clip: payload exceeds size limit")
)
