package hoststore

import "errors"

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IHostStorage is a string-keyed storage facility provided by the host environment.
// The durable backend of an adapter persists one document per namespace through it.
// A nil IHostStorage means the environment does not provide persistent storage.
type IHostStorage interface {
	// Get returns the value stored under name.
	// The boolean return value indicates whether a value for the name was found.
	Get(name string) (value string, ok bool, err error)
	// Set stores value under name, replacing any previous value.
	// A failed Set must leave the previous value unchanged.
	Set(name string, value string) (err error)
}

// --------------------------------------------------------------------------
// Errors
// --------------------------------------------------------------------------

// Sentinel errors for host storage operations.
var (
	ErrReadFailed  = errors.New("host storage: read failed")
	ErrWriteFailed = errors.New("host storage: write failed")
)
