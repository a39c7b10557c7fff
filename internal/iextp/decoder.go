package iextp

import (
	"errors"
	"io"
)

// PacketSource yields opaque packet payload byte-spans. In production it
// wraps a pcap file reader (see the pcapsource package); in tests it is a
// deterministic in-memory fixture. NextPayload returns (nil, io.EOF) once
// exhausted.
type PacketSource interface {
	NextPayload() ([]byte, error)
	Close() error
}

// segmentState is the decoder's position with respect to the current
// packet payload.
type segmentState int

const (
	stateUninitialized segmentState = iota
	stateReady
	stateInSegment
	stateBetweenSegments
	stateExhausted
)

// Decoder is a single-threaded, pull-based iterator over the application
// messages carried by an IEX-TP byte stream. Each call to Next runs to
// completion; there is no internal concurrency.
type Decoder struct {
	source PacketSource
	state  segmentState

	firstHeader TransportHeader
	lastHeader  TransportHeader

	payload     []byte
	blockOffset int
	segmentEnd  int
}

// Open attaches source and decodes the first packet's transport header.
// The first packet is expected to be header-only (PayloadLen == 0); if it
// is not, its blocks remain available to the first call to Next rather
// than being discarded.
func Open(source PacketSource) (*Decoder, error) {
	d := &Decoder{source: source, state: stateReady}

	payload, err := source.NextPayload()
	if err != nil {
		if errors.Is(err, io.EOF) {
			d.state = stateExhausted
			return nil, io.EOF
		}
		return nil, err
	}

	header, err := decodeTransportHeader(payload)
	if err != nil {
		return nil, err
	}
	d.firstHeader = header
	d.lastHeader = header

	if !header.IsHeartbeat() {
		d.payload = payload
		d.blockOffset = headerLen
		d.segmentEnd = headerLen + int(header.PayloadLen)
		d.state = stateInSegment
	}

	return d, nil
}

// FirstHeader returns the transport header of the first packet pulled from
// the source.
func (d *Decoder) FirstHeader() TransportHeader { return d.firstHeader }

// LastHeader returns the most recently decoded transport header, including
// heartbeats.
func (d *Decoder) LastHeader() TransportHeader { return d.lastHeader }

// Close releases the underlying packet source.
func (d *Decoder) Close() error {
	if d.source == nil {
		return nil
	}
	return d.source.Close()
}

// Reopen closes the current packet source, if any, and attaches a new one,
// resetting all decoder state. This mirrors the ownership rule that
// opening a decoder on a new source closes any previously open source.
func (d *Decoder) Reopen(source PacketSource) error {
	if d.source != nil {
		if err := d.source.Close(); err != nil {
			return err
		}
	}
	d.source = nil
	fresh, err := Open(source)
	if err != nil {
		return err
	}
	*d = *fresh
	return nil
}

// fillSegment pulls payloads from the source, silently skipping heartbeat
// segments (PayloadLen == 0), until it finds a segment with blocks to walk
// or the source is exhausted. IoError and MalformedPacket/
// UnsupportedVersion errors are surfaced immediately without advancing
// past the offending packet's position in the loop; the decoder remains
// usable and the next call resumes with the following packet.
func (d *Decoder) fillSegment() error {
	for {
		payload, err := d.source.NextPayload()
		if err != nil {
			if errors.Is(err, io.EOF) {
				d.state = stateExhausted
				return io.EOF
			}
			return err
		}

		header, err := decodeTransportHeader(payload)
		if err != nil {
			return err
		}
		d.lastHeader = header

		if header.IsHeartbeat() {
			continue
		}

		d.payload = payload
		d.blockOffset = headerLen
		d.segmentEnd = headerLen + int(header.PayloadLen)
		d.state = stateInSegment
		return nil
	}
}

// Next returns the next decoded message, or (nil, io.EOF) at end-of-stream.
// Decode errors for a single block (UnknownMessageType, MalformedBlock,
// ImplausibleTimestamp, TruncatedBlock) are returned to the caller; where
// the block's declared length is known, the segment cursor is advanced
// past it first, so a single bad block does not stall the stream.
func (d *Decoder) Next() (Message, error) {
	switch d.state {
	case stateUninitialized:
		return nil, ErrNotInitialized
	case stateExhausted:
		return nil, io.EOF
	}

	if d.state != stateInSegment {
		if err := d.fillSegment(); err != nil {
			return nil, err
		}
	}

	// A block, and its length prefix, must lie entirely within the segment
	// the transport header declared (segmentEnd), not merely within
	// whatever physical buffer the packet source happened to hand back;
	// trailing bytes past the declared segment are not part of it.
	bound := d.segmentEnd
	if len(d.payload) < bound {
		bound = len(d.payload)
	}

	if d.blockOffset+2 > bound {
		d.state = stateBetweenSegments
		return nil, &TruncatedBlockError{Declared: 2, Remaining: bound - d.blockOffset}
	}
	// bound <= len(d.payload), so this read is always in range.
	blockLen, _ := readU16(d.payload, d.blockOffset)
	if blockLen == 0 {
		d.state = stateBetweenSegments
		return nil, &MalformedBlockError{Reason: "block length is zero"}
	}

	msgStart := d.blockOffset + 2
	msgEnd := msgStart + int(blockLen)
	if msgEnd > bound {
		d.state = stateBetweenSegments
		return nil, &TruncatedBlockError{Declared: int(blockLen), Remaining: bound - msgStart}
	}
	msgData := d.payload[msgStart:msgEnd]

	d.blockOffset = msgEnd
	if d.blockOffset >= d.segmentEnd {
		d.state = stateBetweenSegments
	}

	return decodeMessage(msgData)
}
