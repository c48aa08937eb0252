package commit

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownStatus        = errors.New("unknown change status")
	ErrConsistencyViolation = errors.New("inconsistent snapshot")
	ErrEmptyPath            = errors.New("empty path")
)

// UnknownStatusError is returned for a changed file whose status is not one
// of added, removed, modified or renamed.
type UnknownStatusError struct {
	Path   string
	Status string
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown change status %q for %s", e.Status, e.Path)
}

func (e *UnknownStatusError) Is(target error) bool {
	return target == ErrUnknownStatus
}

// ConsistencyViolationError is returned when the changed files and the tree
// report the same path with different content.
type ConsistencyViolationError struct {
	Path    string
	Changed string // fingerprint from the changed files
	Present string // fingerprint from the tree
}

func (e *ConsistencyViolationError) Error() string {
	return fmt.Sprintf("%s reported twice with different content (%s != %s)", e.Path, e.Changed, e.Present)
}

func (e *ConsistencyViolationError) Is(target error) bool {
	return target == ErrConsistencyViolation
}
