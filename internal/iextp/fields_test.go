package iextp

import (
	"errors"
	"testing"
)

func TestReadU16LittleEndian(t *testing.T) {
	b := []byte{0x34, 0x12}
	v, err := readU16(b, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0x1234 {
		t.Fatalf("got %#x, want %#x", v, 0x1234)
	}
}

func TestReadU32InsufficientBytes(t *testing.T) {
	b := []byte{0x01, 0x02, 0x03}
	_, err := readU32(b, 0)
	if !errors.Is(err, ErrInsufficientBytes) {
		t.Fatalf("got %v, want ErrInsufficientBytes", err)
	}
}

func TestReadPricePrecision(t *testing.T) {
	// on-wire 40600 => $4.0600
	b := make([]byte, 8)
	b[0] = 0x98 // 40600 = 0x9E98
	b[1] = 0x9E
	p, err := readPrice(b, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if int64(p) != 40600 {
		t.Fatalf("got %d, want 40600", int64(p))
	}
	if got := p.Float64(); got != 4.06 {
		t.Fatalf("got %v, want 4.06", got)
	}
	// round tripping: n == round(price * 10000)
	if round(p.Float64()*1e4) != 40600 {
		t.Fatalf("round trip failed")
	}
}

func round(f float64) int64 {
	if f < 0 {
		return int64(f - 0.5)
	}
	return int64(f + 0.5)
}

func TestReadSymbolTrimsTrailingWhitespaceOnly(t *testing.T) {
	b := []byte(" AAPL   ")
	s, err := readSymbol(b, 0, len(b))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != " AAPL" {
		t.Fatalf("got %q, want %q", s, " AAPL")
	}
	if len(s) > 8 {
		t.Fatalf("symbol exceeds 8 bytes: %q", s)
	}
}

func TestReadSymbolAllWhitespaceIsEmpty(t *testing.T) {
	s, err := readSymbol([]byte("        "), 0, 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s != "" {
		t.Fatalf("got %q, want empty string", s)
	}
}

func TestReadSymbolOutOfBounds(t *testing.T) {
	_, err := readSymbol([]byte("AAPL"), 0, 8)
	if !errors.Is(err, ErrInsufficientBytes) {
		t.Fatalf("got %v, want ErrInsufficientBytes", err)
	}
}

func TestTimestampPlausibility(t *testing.T) {
	cases := []struct {
		ts   Timestamp
		want bool
	}{
		{minPlausibleTimestamp, true},
		{minPlausibleTimestamp - 1, false},
		{maxPlausibleTimestamp - 1, true},
		{maxPlausibleTimestamp, false},
		{1517058015909382289, true}, // fixture send_time
	}
	for _, c := range cases {
		if got := c.ts.plausible(); got != c.want {
			t.Errorf("Timestamp(%d).plausible() = %v, want %v", int64(c.ts), got, c.want)
		}
	}
}
