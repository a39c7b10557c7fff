// Package iexfixture builds synthetic IEX-TP byte streams for tests, and
// provides a deterministic in-memory iextp.PacketSource fixture, standing
// in for the pcap-backed adapter used in production.
package iexfixture

import (
	"encoding/binary"
	"io"
)

// Source is a deterministic, in-memory iextp.PacketSource over a
// pre-built sequence of packet payloads.
type Source struct {
	payloads [][]byte
	pos      int
	closed   bool
}

// NewSource returns a Source that yields payloads in order, then io.EOF.
func NewSource(payloads ...[]byte) *Source {
	return &Source{payloads: payloads}
}

// NextPayload implements iextp.PacketSource.
func (s *Source) NextPayload() ([]byte, error) {
	if s.pos >= len(s.payloads) {
		return nil, io.EOF
	}
	p := s.payloads[s.pos]
	s.pos++
	return p, nil
}

// Close implements iextp.PacketSource.
func (s *Source) Close() error {
	s.closed = true
	return nil
}

// Closed reports whether Close has been called, for test assertions.
func (s *Source) Closed() bool { return s.closed }

// HeaderFields are the fields of a 40-byte IEX-TP transport header, used
// by Segment to build test packets.
type HeaderFields struct {
	Version        uint8
	ProtocolID     uint16
	ChannelID      uint32
	SessionID      uint32
	MessageCount   uint16
	StreamOffset   int64
	FirstMsgSeqNum int64
	SendTime       int64
}

// Segment encodes a transport header followed by the given pre-encoded
// blocks (each already including its own message-data payload, but not the
// 2-byte length prefix), returning one full packet payload. PayloadLen is
// computed from the supplied blocks; MessageCount is the number of blocks
// unless h.MessageCount is non-zero, in which case that value is written.
func Segment(h HeaderFields, blocks ...[]byte) []byte {
	payloadLen := 0
	for _, b := range blocks {
		payloadLen += 2 + len(b)
	}

	out := make([]byte, 40+payloadLen)
	version := h.Version
	if version == 0 {
		version = 1
	}
	out[0] = version
	out[1] = 0 // reserved
	binary.LittleEndian.PutUint16(out[2:4], h.ProtocolID)
	binary.LittleEndian.PutUint32(out[4:8], h.ChannelID)
	binary.LittleEndian.PutUint32(out[8:12], h.SessionID)
	binary.LittleEndian.PutUint16(out[12:14], uint16(payloadLen))
	messageCount := h.MessageCount
	if messageCount == 0 {
		messageCount = uint16(len(blocks))
	}
	binary.LittleEndian.PutUint16(out[14:16], messageCount)
	binary.LittleEndian.PutUint64(out[16:24], uint64(h.StreamOffset))
	binary.LittleEndian.PutUint64(out[24:32], uint64(h.FirstMsgSeqNum))
	binary.LittleEndian.PutUint64(out[32:40], uint64(h.SendTime))

	off := 40
	for _, b := range blocks {
		binary.LittleEndian.PutUint16(out[off:off+2], uint16(len(b)))
		off += 2
		copy(out[off:], b)
		off += len(b)
	}
	return out
}

// Heartbeat returns a header-only segment (PayloadLen == 0).
func Heartbeat(h HeaderFields) []byte {
	return Segment(h)
}

// message builds the common tag+timestamp prefix used by every variant.
// Per the wire format, the first payload field (flags/code/etc., if any)
// sits at offset 1, immediately after the tag and before the timestamp
// at offset 2; any remaining fields follow the timestamp at offset 10.
func message(tag byte, timestamp int64, rest ...[]byte) []byte {
	body := make([]byte, 10)
	body[0] = tag
	binary.LittleEndian.PutUint64(body[2:10], uint64(timestamp))
	if len(rest) > 0 {
		body[1] = rest[0][0]
		for _, r := range rest[1:] {
			body = append(body, r...)
		}
	}
	return body
}

func u8(v uint8) []byte  { return []byte{v} }
func u32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}
func u64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}
func i64(v int64) []byte { return u64(uint64(v)) }
func sym(s string, width int) []byte {
	b := make([]byte, width)
	copy(b, s)
	for i := len(s); i < width; i++ {
		b[i] = ' '
	}
	return b
}

// SystemEvent builds a SystemEvent block's message data.
func SystemEvent(timestamp int64, code byte) []byte {
	return message(0x53, timestamp, u8(code))
}

// QuoteUpdate builds a QuoteUpdate block's message data.
func QuoteUpdate(timestamp int64, flags uint8, symbol string, bidSize uint32, bidPrice int64, askPrice int64, askSize uint32) []byte {
	return message(0x51, timestamp,
		u8(flags),
		sym(symbol, 8),
		u32(bidSize),
		i64(bidPrice),
		i64(askPrice),
		u32(askSize),
	)
}

// TradeReport builds a TradeReport block's message data.
func TradeReport(timestamp int64, flags uint8, symbol string, size uint32, price int64, tradeID uint64) []byte {
	return message(0x54, timestamp,
		u8(flags),
		sym(symbol, 8),
		u32(size),
		i64(price),
		u64(tradeID),
	)
}

// AuctionInformation builds an AuctionInformation block's message data.
func AuctionInformation(timestamp int64, auctionType byte, symbol string, pairedShares uint32, referencePrice, indicativeClearingPrice int64, imbalanceShares uint32, imbalanceSide byte, extensionNumber uint8, scheduledAuctionTime uint32, auctionBookClearingPrice, collarReferencePrice, lowerAuctionCollar, upperAuctionCollar int64) []byte {
	return message(0x41, timestamp,
		u8(auctionType),
		sym(symbol, 8),
		u32(pairedShares),
		i64(referencePrice),
		i64(indicativeClearingPrice),
		u32(imbalanceShares),
		u8(imbalanceSide),
		u8(extensionNumber),
		u32(scheduledAuctionTime),
		i64(auctionBookClearingPrice),
		i64(collarReferencePrice),
		i64(lowerAuctionCollar),
		i64(upperAuctionCollar),
	)
}

// PriceLevelUpdate builds a PriceLevelUpdateBuy/Sell block's message data;
// tag must be 0x38 (buy) or 0x35 (sell).
func PriceLevelUpdate(tag byte, timestamp int64, flags uint8, symbol string, size uint32, price int64) []byte {
	return message(tag, timestamp,
		u8(flags),
		sym(symbol, 8),
		u32(size),
		i64(price),
	)
}
