package tracker

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by index-based mutations when the position
// does not exist. The caller is responsible for only offering valid indices.
var ErrIndexOutOfRange = errors.New("index out of range")

// ErrNotFound is returned by id-based lookups when no entity carries the id.
var ErrNotFound = errors.New("not found")

// ValidationError rejects empty or out-of-enumeration input before any
// mutation happens; no partial chapter or task is ever created.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
