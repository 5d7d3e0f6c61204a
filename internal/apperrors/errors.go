// Package apperrors defines the error taxonomy shared by the roster and event
// stores. Callers match with errors.As via the IsX helpers; repositories wrap
// lower-level failures with fmt.Errorf("...: %w", err) so the taxonomy
// survives layer boundaries.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports malformed input: an empty required string, a level
// outside its range, a non-positive count.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to an id that does not exist.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// ConflictError reports a state collision: a duplicate invitation, or a player
// already selected into another team of the same event.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return e.Reason
}

// CapacityError reports that an assignment would push a team past its event's
// maxPlayersPerTeam.
type CapacityError struct {
	TeamID     string
	Current    int
	Adding     int
	MaxAllowed int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("team %s capacity exceeded: %d selected + %d adding > max %d",
		e.TeamID, e.Current, e.Adding, e.MaxAllowed)
}

// InvalidStateError reports a forbidden state transition, such as responding
// to an invitation that is no longer open.
type InvalidStateError struct {
	Current string
	Attempt string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.Current, e.Attempt)
}

// APIError reports a non-2xx response from the remote backend.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api request failed: status %d: %s", e.Status, e.Body)
}

// StorageError reports a read or write failure of the underlying persistence
// medium.
type StorageError struct {
	Op  string // "get" or "set"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError, unwrapping as needed.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// IsCapacity reports whether err is a CapacityError.
func IsCapacity(err error) bool {
	var ce *CapacityError
	return errors.As(err, &ce)
}

// IsInvalidState reports whether err is an InvalidStateError.
func IsInvalidState(err error) bool {
	var ie *InvalidStateError
	return errors.As(err, &ie)
}

// IsAPI reports whether err is an APIError.
func IsAPI(err error) bool {
	var ae *APIError
	return errors.As(err, &ae)
}

// IsStorage reports whether err is a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
