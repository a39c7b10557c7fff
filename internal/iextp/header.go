package iextp

// headerLen is the fixed size of the IEX-TP segment header.
const headerLen = 40

// supportedVersion is the only transport version this decoder understands.
const supportedVersion = 1

// TransportHeader is the 40-byte IEX-TP segment header that precedes every
// packet's message blocks.
type TransportHeader struct {
	Version        uint8
	ProtocolID     uint16
	ChannelID      uint32
	SessionID      uint32
	PayloadLen     uint16
	MessageCount   uint16
	StreamOffset   int64
	FirstMsgSeqNum int64
	SendTime       Timestamp
}

// decodeTransportHeader parses the 40-byte segment header from the start of
// a packet payload. It does not validate PayloadLen against the length of
// b; that is the stream iterator's responsibility.
func decodeTransportHeader(b []byte) (TransportHeader, error) {
	if len(b) < headerLen {
		return TransportHeader{}, ErrMalformedPacket
	}

	version, err := readU8(b, 0)
	if err != nil {
		return TransportHeader{}, err
	}
	if version != supportedVersion {
		return TransportHeader{}, &UnsupportedVersionError{Version: version}
	}

	protocolID, err := readU16(b, 2)
	if err != nil {
		return TransportHeader{}, err
	}
	channelID, err := readU32(b, 4)
	if err != nil {
		return TransportHeader{}, err
	}
	sessionID, err := readU32(b, 8)
	if err != nil {
		return TransportHeader{}, err
	}
	payloadLen, err := readU16(b, 12)
	if err != nil {
		return TransportHeader{}, err
	}
	messageCount, err := readU16(b, 14)
	if err != nil {
		return TransportHeader{}, err
	}
	streamOffset, err := readI64(b, 16)
	if err != nil {
		return TransportHeader{}, err
	}
	firstMsgSeqNum, err := readI64(b, 24)
	if err != nil {
		return TransportHeader{}, err
	}
	sendTime, err := readTimestamp(b, 32)
	if err != nil {
		return TransportHeader{}, err
	}

	return TransportHeader{
		Version:        version,
		ProtocolID:     protocolID,
		ChannelID:      channelID,
		SessionID:      sessionID,
		PayloadLen:     payloadLen,
		MessageCount:   messageCount,
		StreamOffset:   streamOffset,
		FirstMsgSeqNum: firstMsgSeqNum,
		SendTime:       sendTime,
	}, nil
}

// IsHeartbeat reports whether this segment carries no message blocks.
func (h TransportHeader) IsHeartbeat() bool {
	return h.PayloadLen == 0
}
