package apperrors

import "fmt"

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewProfileNotFoundError creates a specific error for an unknown profile ID.
func NewProfileNotFoundError(profileID int) *ErrNotFound {
	return &ErrNotFound{
		Resource: "profile",
		ID:       profileID,
	}
}

// NewTitleNotFoundError creates a specific error for an unknown show ID.
func NewTitleNotFoundError(showID string) *ErrNotFound {
	return &ErrNotFound{
		Resource: "title",
		ID:       showID,
	}
}

// ErrInvalidQuery is returned when a caller-supplied parameter fails
// validation before any computation begins. Param names the offending
// parameter so API responses can point at it.
type ErrInvalidQuery struct {
	Param  string
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidQuery) Error() string {
	return fmt.Sprintf("invalid query parameter %q: %s", e.Param, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidQuery) Is(target error) bool {
	_, ok := target.(*ErrInvalidQuery)
	return ok
}

// NewInvalidQueryError creates a new ErrInvalidQuery.
func NewInvalidQueryError(param, reason string) *ErrInvalidQuery {
	return &ErrInvalidQuery{Param: param, Reason: reason}
}

// ErrInvalidConfig is raised at configuration-load time when the scoring
// or policy configuration is unusable. It is fatal at startup and never
// produced per-request.
type ErrInvalidConfig struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid configuration %q: %s", e.Field, e.Reason)
}

// Is allows for error checking with errors.Is().
func (e *ErrInvalidConfig) Is(target error) bool {
	_, ok := target.(*ErrInvalidConfig)
	return ok
}

// NewInvalidConfigError creates a new ErrInvalidConfig.
func NewInvalidConfigError(field, reason string) *ErrInvalidConfig {
	return &ErrInvalidConfig{Field: field, Reason: reason}
}

// ErrStoreUnavailable wraps a failed read from the catalog or profile
// store. The engine never retries; the condition propagates to the caller
// as service-unavailable.
type ErrStoreUnavailable struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (e *ErrStoreUnavailable) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying store error.
func (e *ErrStoreUnavailable) Unwrap() error {
	return e.Err
}

// Is allows for error checking with errors.Is().
func (e *ErrStoreUnavailable) Is(target error) bool {
	_, ok := target.(*ErrStoreUnavailable)
	return ok
}

// NewStoreUnavailableError creates a new ErrStoreUnavailable.
func NewStoreUnavailableError(op string, err error) *ErrStoreUnavailable {
	return &ErrStoreUnavailable{Op: op, Err: err}
}
