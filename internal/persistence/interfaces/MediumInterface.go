package interfaces

import "errors"

var (
	// ErrQuotaExceeded marks a write the medium cannot hold. Callers match it with errors.Is.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrNotFound      = errors.New("key not found")
)

// MediumInterface is a capacity-bounded key/value store.
// Set replaces the value atomically; a failed Set leaves the previous value readable.
type MediumInterface interface {
	Get(key string) ([]byte, error)
	Set(key string, data []byte) error
}
