package commerce

import "errors"

// Errors returned by the commerce backend client. Callers classify failures
// with errors.Is; the HTTP status that produced the error is carried in the
// wrapped message.
var (
	// ErrUnavailable indicates the backend could not be reached at all
	ErrUnavailable = errors.New("commerce: backend unavailable")
	// ErrUnauthorized indicates the backend rejected the request (401/403)
	ErrUnauthorized = errors.New("commerce: not authorized")
	// ErrNotFound indicates the requested resource does not exist (404)
	ErrNotFound = errors.New("commerce: resource not found")
	// ErrRequestFailed indicates any other non-success response
	ErrRequestFailed = errors.New("commerce: request failed")
	// ErrInvalidResponse indicates the backend returned a body that could
	// not be decoded
	ErrInvalidResponse = errors.New("commerce: invalid response body")
)
