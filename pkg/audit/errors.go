package audit

import "fmt"

// StorageError represents an error from the audit storage backend.
type StorageError struct {
	Operation string // Operation that failed ("open", "store", "query", ...)
	Cause     error  // Underlying error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage error [operation=%s]: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause error.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// newStorageError creates a new StorageError.
func newStorageError(operation string, cause error) *StorageError {
	return &StorageError{Operation: operation, Cause: cause}
}
