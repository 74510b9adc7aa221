package detector

import (
	"errors"
	"fmt"
)

// ErrUnregistered means a checker produced a framework missing from the registry
var ErrUnregistered = errors.New("framework not registered")

// ListingError is returned when the initial file listing cannot be produced
type ListingError struct {
	Root string
	Err  error
}

func (e *ListingError) Error() string {
	return fmt.Sprintf("failed to list files in %s: %v", e.Root, e.Err)
}

func (e *ListingError) Unwrap() error { return e.Err }

// ProbeError is returned when a checker fails for a reason other than absence.
// It aborts the whole detection.
type ProbeError struct {
	Checker string
	Path    string
	Err     error
}

func (e *ProbeError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s check failed: %v", e.Checker, e.Err)
	}
	return fmt.Sprintf("%s check failed on %s: %v", e.Checker, e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

func probeErr(checker, path string, err error) error {
	return &ProbeError{Checker: checker, Path: path, Err: err}
}
