package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound indicates the catalog has no such title
	ErrNotFound = errors.New("media item not found")

	// ErrUnauthorized indicates the catalog rejected the bearer token
	ErrUnauthorized = errors.New("catalog token is invalid")

	// ErrUnknownKind indicates an unsupported media kind string
	ErrUnknownKind = errors.New("unknown media kind")

	// ErrUnknownCategory indicates a category that does not exist for a kind
	ErrUnknownCategory = errors.New("unknown category")

	// ErrUnknownHistoryKey indicates a history kind with no configured storage key
	ErrUnknownHistoryKey = errors.New("unknown history key")
)

// FetchError is returned when the catalog request fails at the transport level
// or answers with a non-2xx status. StatusCode is 0 for transport failures.
type FetchError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("catalog request failed: %v", e.Err)
	}
	if e.Body != "" {
		return fmt.Sprintf("catalog returned status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("catalog returned status %d", e.StatusCode)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is maps well-known status codes onto the domain sentinels
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized
	}
	return false
}

// DecodeError is returned when a catalog payload is malformed or lacks required fields
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed catalog payload: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StorageCorruptError describes an unparseable persisted blob.
// HistoryStore recovers from it locally; it is only ever logged.
type StorageCorruptError struct {
	Key string
	Err error
}

func (e *StorageCorruptError) Error() string {
	return fmt.Sprintf("corrupt blob under key %q: %v", e.Key, e.Err)
}

func (e *StorageCorruptError) Unwrap() error {
	return e.Err
}
