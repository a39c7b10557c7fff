package iextp

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when a decode operation is invoked before a
// packet source has been attached via Open.
var ErrNotInitialized = errors.New("iextp: decoder not initialized")

// ErrInsufficientBytes is returned by the low-level field extractors when a
// read would run past the end of the supplied byte span.
var ErrInsufficientBytes = errors.New("iextp: insufficient bytes")

// ErrMalformedPacket indicates a packet payload is missing or shorter than
// the 40-byte transport header.
var ErrMalformedPacket = errors.New("iextp: malformed packet")

// UnsupportedVersionError reports a transport header whose version field is
// not the one supported version (1).
type UnsupportedVersionError struct {
	Version uint8
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("iextp: unsupported transport version %d", e.Version)
}

// TruncatedBlockError indicates a block's declared length runs past the
// remaining bytes in the segment.
type TruncatedBlockError struct {
	Declared  int
	Remaining int
}

func (e *TruncatedBlockError) Error() string {
	return fmt.Sprintf("iextp: truncated block: declared length %d exceeds %d remaining bytes", e.Declared, e.Remaining)
}

// MalformedBlockError indicates a block length of zero, or a block payload
// too small for its variant's required offsets.
type MalformedBlockError struct {
	Reason string
}

func (e *MalformedBlockError) Error() string {
	return "iextp: malformed block: " + e.Reason
}

// UnknownMessageTypeError indicates a block's type tag is outside the known
// set of 13 application message variants. The stream is still usable: the
// caller's next call to Next will resume with the block after this one.
type UnknownMessageTypeError struct {
	Tag byte
}

func (e *UnknownMessageTypeError) Error() string {
	return fmt.Sprintf("iextp: unknown message type 0x%02X", e.Tag)
}

// TagMismatchError indicates a variant decoder was invoked on a block whose
// tag does not match the variant's expected tag. This is an internal
// consistency error; it should not occur given correct factory dispatch.
type TagMismatchError struct {
	Expected, Actual byte
}

func (e *TagMismatchError) Error() string {
	return fmt.Sprintf("iextp: tag mismatch: expected 0x%02X, got 0x%02X", e.Expected, e.Actual)
}

// ImplausibleTimestampError indicates a decoded timestamp falls outside the
// permissive sanity window [2013-10-25, 2100-01-01).
type ImplausibleTimestampError struct {
	Timestamp Timestamp
}

func (e *ImplausibleTimestampError) Error() string {
	return fmt.Sprintf("iextp: implausible timestamp %d", int64(e.Timestamp))
}
