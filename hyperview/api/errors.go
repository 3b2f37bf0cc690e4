package api

import (
	"errors"
	"fmt"
)

var (
	ErrInputFileMissing = errors.New("input file does not exist")
	ErrRowRejected      = errors.New("row rejected")

	// ErrImportColumnsMissing is returned before any request when the import header lacks a required column.
	ErrImportColumnsMissing = errors.New("import file is missing columns")

	errMissingValueSeparator = errors.New("missing ':' between text and value")
)

// TransportError is returned when a request never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a response body does not match the expected shape.
type DecodeError struct {
	URL string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode response from %s: %v", e.URL, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// StatusError is returned when an operation that expects a typed body gets a
// non-2xx status instead.
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected response from %s: %s", e.URL, e.Status)
	}

	return fmt.Sprintf("unexpected response from %s: %s: %s", e.URL, e.Status, e.Body)
}

// MappingParseError reports a malformed pair in a packed value mapping.
type MappingParseError struct {
	Pair string
	Err  error
}

func (e *MappingParseError) Error() string {
	return fmt.Sprintf("invalid value mapping %q: %v", e.Pair, e.Err)
}

func (e *MappingParseError) Unwrap() error {
	return e.Err
}
