package iextp

import (
	"errors"
	"fmt"
)

// decodeFunc decodes one block's message data into a concrete Message.
type decodeFunc func(data []byte) (Message, error)

// decoders maps the 1-byte type tag found at offset 0 of a block's message
// data to the decoder for that variant. Tags 0x54/0x42 and 0x38/0x35 share
// payload shapes but are dispatched to distinct variants.
var decoders = map[MessageType]decodeFunc{
	MessageTypeSystemEvent:              decodeSystemEvent,
	MessageTypeSecurityDirectory:        decodeSecurityDirectory,
	MessageTypeSecurityEvent:            decodeSecurityEvent,
	MessageTypeTradingStatus:            decodeTradingStatus,
	MessageTypeOperationalHaltStatus:    decodeOperationalHaltStatus,
	MessageTypeShortSalePriceTestStatus: decodeShortSalePriceTestStatus,
	MessageTypeQuoteUpdate:              decodeQuoteUpdate,
	MessageTypeTradeReport:              decodeTradeReport,
	MessageTypeTradeBreak:               decodeTradeBreak,
	MessageTypeOfficialPrice:            decodeOfficialPrice,
	MessageTypeAuctionInformation:       decodeAuctionInformation,
	MessageTypePriceLevelUpdateBuy:      decodePriceLevelUpdateBuy,
	MessageTypePriceLevelUpdateSell:     decodePriceLevelUpdateSell,
}

// lookupDecoder returns the decode function for tag, or
// (nil, UnknownMessageTypeError) if tag is outside the known set.
func lookupDecoder(tag byte) (decodeFunc, error) {
	fn, ok := decoders[MessageType(tag)]
	if !ok {
		return nil, &UnknownMessageTypeError{Tag: tag}
	}
	return fn, nil
}

// decodeMessage dispatches on the first byte of data (the type tag) and
// invokes the matching variant decoder. A block too short for its variant's
// field offsets is reported as a MalformedBlockError.
func decodeMessage(data []byte) (Message, error) {
	if len(data) < 1 {
		return nil, &MalformedBlockError{Reason: "block has no type tag"}
	}
	fn, err := lookupDecoder(data[0])
	if err != nil {
		return nil, err
	}
	msg, err := fn(data)
	if errors.Is(err, ErrInsufficientBytes) {
		return nil, &MalformedBlockError{Reason: fmt.Sprintf("%d-byte block too short for %v", len(data), MessageType(data[0]))}
	}
	return msg, err
}
