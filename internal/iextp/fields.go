package iextp

import (
	"encoding/binary"
	"strings"
	"time"
	"unicode"
)

// Price is a signed fixed-point price with an implicit scale of 10^-4,
// e.g. the on-wire value 40600 denotes $4.0600. It is kept as an integer
// internally so that decoding never loses precision through an
// intermediate float64 conversion; Float64 is a presentation-only widening.
type Price int64

// Float64 widens the fixed-point price to a decimal dollar amount. Callers
// that need to preserve exact precision should use the integer value
// directly instead of round-tripping through this method.
func (p Price) Float64() float64 {
	return float64(p) / 1e4
}

// Timestamp is nanoseconds since the Unix epoch, UTC.
type Timestamp int64

// Time converts the timestamp to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(0, int64(t)).UTC()
}

// minPlausibleTimestamp and maxPlausibleTimestamp bound the sanity window
// applied to every decoded message timestamp: 2013-10-25 through
// 2100-01-01, expressed in nanoseconds since the Unix epoch.
const (
	minPlausibleTimestamp Timestamp = 1_382_659_200_000_000_000
	maxPlausibleTimestamp Timestamp = 4_102_444_800_000_000_000
)

func (t Timestamp) plausible() bool {
	return t >= minPlausibleTimestamp && t < maxPlausibleTimestamp
}

// readU8 reads an unsigned 8-bit integer at off, failing if the read would
// run past the end of b.
func readU8(b []byte, off int) (uint8, error) {
	if off < 0 || off+1 > len(b) {
		return 0, ErrInsufficientBytes
	}
	return b[off], nil
}

// readU16 reads a little-endian unsigned 16-bit integer at off.
func readU16(b []byte, off int) (uint16, error) {
	if off < 0 || off+2 > len(b) {
		return 0, ErrInsufficientBytes
	}
	return binary.LittleEndian.Uint16(b[off : off+2]), nil
}

// readU32 reads a little-endian unsigned 32-bit integer at off.
func readU32(b []byte, off int) (uint32, error) {
	if off < 0 || off+4 > len(b) {
		return 0, ErrInsufficientBytes
	}
	return binary.LittleEndian.Uint32(b[off : off+4]), nil
}

// readU64 reads a little-endian unsigned 64-bit integer at off.
func readU64(b []byte, off int) (uint64, error) {
	if off < 0 || off+8 > len(b) {
		return 0, ErrInsufficientBytes
	}
	return binary.LittleEndian.Uint64(b[off : off+8]), nil
}

// readI64 reads a little-endian two's-complement signed 64-bit integer at off.
func readI64(b []byte, off int) (int64, error) {
	v, err := readU64(b, off)
	if err != nil {
		return 0, err
	}
	return int64(v), nil
}

// readPrice reads a signed 64-bit fixed-point price at off.
func readPrice(b []byte, off int) (Price, error) {
	v, err := readI64(b, off)
	if err != nil {
		return 0, err
	}
	return Price(v), nil
}

// readTimestamp reads a signed 64-bit nanosecond timestamp at off. It does
// not itself apply the plausibility window; callers validate that
// separately so the check can be attributed to the right message.
func readTimestamp(b []byte, off int) (Timestamp, error) {
	v, err := readI64(b, off)
	if err != nil {
		return 0, err
	}
	return Timestamp(v), nil
}

// readSymbol copies length bytes at off as ASCII and strips trailing
// whitespace (space, tab, CR, LF). Leading whitespace is preserved. An
// all-whitespace field decodes to the empty string.
func readSymbol(b []byte, off, length int) (string, error) {
	if off < 0 || off+length > len(b) {
		return "", ErrInsufficientBytes
	}
	return strings.TrimRightFunc(string(b[off:off+length]), unicode.IsSpace), nil
}
