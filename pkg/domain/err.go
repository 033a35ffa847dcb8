package domain

import "fmt"

// NotFoundError represents a failed lookup for a resource.
type NotFoundError struct {
	// ID is the key used when looking for the resource.
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("resource (%s) not found", e.ID)
}

// ValidationError is returned when caller input is malformed or incomplete.
// The Reason is safe to show to the caller.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// StoreError wraps a failure of the underlying data store.
type StoreError struct {
	// Op names the store operation that failed.
	Op     string
	Reason error
}

func (e StoreError) Error() string {
	return fmt.Sprintf("store operation (%s) failed: %v", e.Op, e.Reason)
}

func (e StoreError) Unwrap() error {
	return e.Reason
}

// InternalError represents any failure that is not attributable to the
// caller or to the data store.
type InternalError struct {
	Reason error
}

func (e InternalError) Error() string {
	return fmt.Sprintf("internal error: %v", e.Reason)
}

func (e InternalError) Unwrap() error {
	return e.Reason
}
