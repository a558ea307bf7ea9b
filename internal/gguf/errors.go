package gguf

import (
	"errors"
	"fmt"
)

// ErrMalformedHeader reports a buffer that is too short for the fixed
// preamble or does not start with the GGUF magic bytes.
var ErrMalformedHeader = errors.New("malformed GGUF header")

// DecodeError reports a violation of the tagged key/value format at a byte
// offset into the buffer. Decoding halts at the first occurrence; no partial
// entry list is returned.
type DecodeError struct {
	Offset int
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("gguf: decode error at offset %d: %s", e.Offset, e.Reason)
}
