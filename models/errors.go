package models

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a lookup that matched no record for the owner.
var ErrNotFound = errors.New("not found")

// StoreError wraps a remote persistence failure with a human-readable message.
// Callers surface the message directly; there is no automatic retry.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err as a StoreError for the named operation.
func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// FormatError reports a malformed import document. Index is the offending
// array element, or -1 when the document as a whole is bad.
type FormatError struct {
	Index   int
	Message string
}

func (e *FormatError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("import: element %d: %s", e.Index, e.Message)
	}
	return "import: " + e.Message
}

// NewFormatError reports a document-level format problem.
func NewFormatError(message string) *FormatError {
	return &FormatError{Index: -1, Message: message}
}

// NewElementFormatError reports a format problem at a specific array index.
func NewElementFormatError(index int, message string) *FormatError {
	return &FormatError{Index: index, Message: message}
}

// NetworkError reports a metadata or suggestion call failure. Timeout is set
// when the upstream did not answer within the deadline, StatusCode when the
// upstream answered with a non-2xx status.
type NetworkError struct {
	URL        string
	StatusCode int
	Timeout    bool
	Err        error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("fetch %s: timed out", e.URL)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetch %s: upstream status %d", e.URL, e.StatusCode)
	default:
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError reports a missing or malformed field on a submitted link.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
