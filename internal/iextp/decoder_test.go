package iextp

import (
	"errors"
	"io"
	"testing"

	"github.com/rosskidson/iex-pcap/internal/iexfixture"
)

func firstPacketHeaderOnly() []byte {
	return iexfixture.Heartbeat(iexfixture.HeaderFields{
		ProtocolID:     32771,
		ChannelID:      1,
		SessionID:      1150681088,
		FirstMsgSeqNum: 1,
		SendTime:       1517058015909382289,
	})
}

func TestOpenDecodesFirstHeader(t *testing.T) {
	src := iexfixture.NewSource(firstPacketHeaderOnly())
	d, err := Open(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h := d.FirstHeader()
	if h.Version != 1 || h.ProtocolID != 32771 || h.ChannelID != 1 || h.SessionID != 1150681088 {
		t.Fatalf("unexpected header: %+v", h)
	}
	if h.PayloadLen != 0 || h.MessageCount != 0 {
		t.Fatalf("expected heartbeat header, got %+v", h)
	}
	if int64(h.SendTime) != 1517058015909382289 {
		t.Fatalf("send time = %d, want 1517058015909382289", int64(h.SendTime))
	}
}

func TestOpenOnEmptySourceReturnsEOF(t *testing.T) {
	src := iexfixture.NewSource()
	_, err := Open(src)
	if !errors.Is(err, io.EOF) {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestOpenRejectsUnsupportedVersion(t *testing.T) {
	seg := iexfixture.Segment(iexfixture.HeaderFields{Version: 2})
	src := iexfixture.NewSource(seg)
	_, err := Open(src)
	var uv *UnsupportedVersionError
	if !errors.As(err, &uv) {
		t.Fatalf("got %v, want *UnsupportedVersionError", err)
	}
}

func TestHeartbeatSkippingUpdatesLastHeaderOnly(t *testing.T) {
	first := firstPacketHeaderOnly()
	heartbeat := iexfixture.Heartbeat(iexfixture.HeaderFields{SendTime: 42 + minTS()})
	segment := iexfixture.Segment(
		iexfixture.HeaderFields{SendTime: 43 + minTS()},
		iexfixture.SystemEvent(minTS()+100, 0x53),
	)
	src := iexfixture.NewSource(first, heartbeat, segment)
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	msg, err := d.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if msg.Type() != MessageTypeSystemEvent {
		t.Fatalf("got %v, want SystemEvent", msg.Type())
	}
	last := d.LastHeader()
	if int64(last.SendTime) != 43+minTS() {
		t.Fatalf("last header send time = %d, want segment's, not heartbeat's", int64(last.SendTime))
	}
}

func minTS() int64 { return int64(minPlausibleTimestamp) }

func TestNextOrdersMessagesAcrossSegmentsAndPackets(t *testing.T) {
	seg1 := iexfixture.Segment(iexfixture.HeaderFields{},
		iexfixture.SystemEvent(minTS()+1, 0x53),
		iexfixture.SystemEvent(minTS()+2, 0x52),
	)
	seg2 := iexfixture.Segment(iexfixture.HeaderFields{},
		iexfixture.SystemEvent(minTS()+3, 0x54),
	)
	src := iexfixture.NewSource(firstPacketHeaderOnly(), seg1, seg2)
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	var got []int64
	for {
		msg, err := d.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		got = append(got, int64(msg.Timestamp()))
	}

	want := []int64{minTS() + 1, minTS() + 2, minTS() + 3}
	if len(got) != len(want) {
		t.Fatalf("got %v messages, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("message %d timestamp = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestNextReturnsEOFWhenSourceExhausted(t *testing.T) {
	src := iexfixture.NewSource(firstPacketHeaderOnly())
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = d.Next()
	if !errors.Is(err, io.EOF) {
		t.Fatalf("got %v, want io.EOF", err)
	}
}

func TestNextSkipsPastUnknownMessageType(t *testing.T) {
	bad := iexfixture.SystemEvent(minTS()+1, 0x53)
	bad[0] = 0xFE
	good := iexfixture.SystemEvent(minTS()+2, 0x53)
	seg := iexfixture.Segment(iexfixture.HeaderFields{}, bad, good)
	src := iexfixture.NewSource(firstPacketHeaderOnly(), seg)
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err = d.Next()
	var unknown *UnknownMessageTypeError
	if !errors.As(err, &unknown) {
		t.Fatalf("got %v, want *UnknownMessageTypeError", err)
	}

	msg, err := d.Next()
	if err != nil {
		t.Fatalf("expected decoder to continue past the bad block: %v", err)
	}
	if int64(msg.Timestamp()) != minTS()+2 {
		t.Fatalf("timestamp = %d, want %d", int64(msg.Timestamp()), minTS()+2)
	}
}

func TestNextRejectsZeroLengthBlock(t *testing.T) {
	seg := iexfixture.Segment(iexfixture.HeaderFields{}, []byte{})
	src := iexfixture.NewSource(firstPacketHeaderOnly(), seg)
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = d.Next()
	var malformed *MalformedBlockError
	if !errors.As(err, &malformed) {
		t.Fatalf("got %v, want *MalformedBlockError", err)
	}
}

func TestNextDetectsTruncatedBlock(t *testing.T) {
	seg := iexfixture.Segment(iexfixture.HeaderFields{}, iexfixture.SystemEvent(minTS()+1, 0x53))
	// Corrupt the length prefix to claim more bytes than actually follow.
	seg[40] = 0xFF
	seg[41] = 0xFF
	src := iexfixture.NewSource(firstPacketHeaderOnly(), seg)
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = d.Next()
	var truncated *TruncatedBlockError
	if !errors.As(err, &truncated) {
		t.Fatalf("got %v, want *TruncatedBlockError", err)
	}
}

func TestTotalLengthEqualityInvariant(t *testing.T) {
	blocks := [][]byte{
		iexfixture.SystemEvent(minTS()+1, 0x53),
		iexfixture.QuoteUpdate(minTS()+2, 0, "AAPL", 100, 10000, 10100, 200),
	}
	seg := iexfixture.Segment(iexfixture.HeaderFields{}, blocks...)
	payloadLen := 0
	for _, b := range blocks {
		payloadLen += 2 + len(b)
	}
	declared := int(seg[12]) | int(seg[13])<<8
	if declared != payloadLen {
		t.Fatalf("declared payload_len = %d, want %d", declared, payloadLen)
	}
}

func TestNextRejectsBlockThatOverrunsDeclaredSegment(t *testing.T) {
	body := iexfixture.SystemEvent(minTS()+1, 0x53)
	seg := iexfixture.Segment(iexfixture.HeaderFields{}, body)
	// Append bytes past the segment the transport header actually declared
	// (segmentEnd); a well-formed capture never has these, but a packet
	// source could still hand back a longer physical buffer.
	trailing := append(append([]byte{}, seg...), make([]byte, 32)...)

	// Inflate the block's declared length so the block reaches into the
	// trailing bytes: still inside the physical buffer, but past segmentEnd.
	overrun := len(body) + 16
	trailing[40] = byte(overrun)
	trailing[41] = byte(overrun >> 8)

	src := iexfixture.NewSource(firstPacketHeaderOnly(), trailing)
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	_, err = d.Next()
	var truncated *TruncatedBlockError
	if !errors.As(err, &truncated) {
		t.Fatalf("got %v, want *TruncatedBlockError (block overruns segmentEnd despite fitting the buffer)", err)
	}
}

func TestReopenClosesPreviousSourceAndDecodesNewOne(t *testing.T) {
	first := iexfixture.NewSource(
		firstPacketHeaderOnly(),
		iexfixture.Segment(iexfixture.HeaderFields{}, iexfixture.SystemEvent(minTS()+1, 0x53)),
	)
	d, err := Open(first)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	msg, err := d.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if int64(msg.Timestamp()) != minTS()+1 {
		t.Fatalf("unexpected first message timestamp %d", int64(msg.Timestamp()))
	}

	second := iexfixture.NewSource(
		firstPacketHeaderOnly(),
		iexfixture.Segment(iexfixture.HeaderFields{}, iexfixture.SystemEvent(minTS()+2, 0x53)),
	)
	if err := d.Reopen(second); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if !first.Closed() {
		t.Fatalf("expected Reopen to close the previous source")
	}

	msg, err = d.Next()
	if err != nil {
		t.Fatalf("next after reopen: %v", err)
	}
	if int64(msg.Timestamp()) != minTS()+2 {
		t.Fatalf("expected message from the new source, got timestamp %d", int64(msg.Timestamp()))
	}
}

func TestFixtureSourceCloseIsPropagated(t *testing.T) {
	src := iexfixture.NewSource(firstPacketHeaderOnly())
	d, err := Open(src)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := d.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !src.Closed() {
		t.Fatalf("expected underlying source to be closed")
	}
}

func TestBoundsSafetyOnRandomBytes(t *testing.T) {
	// A handful of adversarial payloads that must never panic, only error.
	payloads := [][]byte{
		nil,
		{0x01},
		make([]byte, 39),
		append(make([]byte, 40), 0x05), // version byte 0: rejected at the header, before the trailing byte is read
	}
	for _, p := range payloads {
		src := iexfixture.NewSource(p)
		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("panicked on payload %v: %v", p, r)
				}
			}()
			d, err := Open(src)
			if err != nil {
				return
			}
			_, _ = d.Next()
		}()
	}
}
