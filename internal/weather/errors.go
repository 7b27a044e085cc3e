package weather

import (
	"errors"
	"fmt"
)

// ErrNotYetFetched is returned when the cache window is open but no forecast
// has been stored yet, e.g. while the first fetch is still in flight or after
// it failed.
var ErrNotYetFetched = errors.New("no forecast has been fetched yet")

// TransportError wraps a failure to retrieve the raw provider document.
type TransportError struct {
	URI string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.URI, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError reports a response body that is not a valid provider document.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SchemaError reports a provider document missing a required field.
type SchemaError struct {
	Field string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: missing required field %q", e.Field)
}
