package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant matches every InvariantError.
	ErrInvariant = errors.New("speech codec: invariant violation")
	// ErrUnknownRequest is returned for requests the encoder does not know.
	ErrUnknownRequest = errors.New("speech codec: unknown request")
	// ErrMalformedFrame is returned when a frame cannot be parsed.
	ErrMalformedFrame = errors.New("speech codec: malformed frame")
)

// SerializationError reports a text payload that could not be encoded.
type SerializationError struct {
	Path string
	Err  error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("speech codec: serialize %s payload: %v", e.Path, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// HeaderOverflowError reports a header block too long for the uint16 prefix.
type HeaderOverflowError struct {
	Length int
}

func (e *HeaderOverflowError) Error() string {
	return fmt.Sprintf("speech codec: header block is %d bytes, limit is %d", e.Length, MaxHeaderLength)
}

// InvariantError reports a request that would produce a corrupt frame.
type InvariantError struct {
	Field  string
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("speech codec: %s: %s", e.Field, e.Reason)
}

func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariant
}
