package notebook

import (
	"errors"
	"fmt"
)

// ErrMissingCells is wrapped by a FormatError when the payload has no cells sequence.
var ErrMissingCells = errors.New("document has no cells sequence")

// Reason classifies why a load failed.
type Reason int

const (
	// ReasonNone means the load did not fail.
	ReasonNone Reason = iota
	// ReasonTransport means the retrieval itself failed.
	ReasonTransport
	// ReasonFormat means the bytes were retrieved but are not a notebook.
	ReasonFormat
)

func (r Reason) String() string {
	switch r {
	case ReasonTransport:
		return "transport"
	case ReasonFormat:
		return "format"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// TransportError is returned when a reference could not be retrieved.
type TransportError struct {
	Ref string
	// StatusCode is the HTTP status for remote references, 0 otherwise.
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Ref, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Ref, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FormatError is returned when retrieved bytes are not a valid notebook document.
type FormatError struct {
	Ref string
	Err error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid notebook %s: %v", e.Ref, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// ReasonOf maps an error returned by this package to its failure reason.
// Errors of unknown type are treated as transport failures.
func ReasonOf(err error) Reason {
	if err == nil {
		return ReasonNone
	}
	var formatErr *FormatError
	if errors.As(err, &formatErr) {
		return ReasonFormat
	}
	return ReasonTransport
}
