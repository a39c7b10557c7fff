package iextp

// MessageType is the 1-byte discriminator at offset 0 of every block's
// message data.
type MessageType byte

const (
	MessageTypeSystemEvent               MessageType = 0x53
	MessageTypeSecurityDirectory         MessageType = 0x44
	MessageTypeSecurityEvent             MessageType = 0x45
	MessageTypeTradingStatus             MessageType = 0x48
	MessageTypeOperationalHaltStatus     MessageType = 0x4F
	MessageTypeShortSalePriceTestStatus  MessageType = 0x50
	MessageTypeQuoteUpdate               MessageType = 0x51
	MessageTypeTradeReport               MessageType = 0x54
	MessageTypeTradeBreak                MessageType = 0x42
	MessageTypeOfficialPrice             MessageType = 0x58
	MessageTypeAuctionInformation        MessageType = 0x41
	MessageTypePriceLevelUpdateBuy       MessageType = 0x38
	MessageTypePriceLevelUpdateSell      MessageType = 0x35
)

func (t MessageType) String() string {
	switch t {
	case MessageTypeSystemEvent:
		return "SystemEvent"
	case MessageTypeSecurityDirectory:
		return "SecurityDirectory"
	case MessageTypeSecurityEvent:
		return "SecurityEvent"
	case MessageTypeTradingStatus:
		return "TradingStatus"
	case MessageTypeOperationalHaltStatus:
		return "OperationalHaltStatus"
	case MessageTypeShortSalePriceTestStatus:
		return "ShortSalePriceTestStatus"
	case MessageTypeQuoteUpdate:
		return "QuoteUpdate"
	case MessageTypeTradeReport:
		return "TradeReport"
	case MessageTypeTradeBreak:
		return "TradeBreak"
	case MessageTypeOfficialPrice:
		return "OfficialPrice"
	case MessageTypeAuctionInformation:
		return "AuctionInformation"
	case MessageTypePriceLevelUpdateBuy:
		return "PriceLevelUpdateBuy"
	case MessageTypePriceLevelUpdateSell:
		return "PriceLevelUpdateSell"
	default:
		return unknownByte(byte(t))
	}
}

// Message is implemented by every decoded application message variant, and
// by nothing else: the set of implementations is closed to the 13 variants
// below.
type Message interface {
	Type() MessageType
	Timestamp() Timestamp
}

// msgHeader carries the two fields every variant shares (tag and
// timestamp) and is embedded in each concrete variant to supply Message.
// Its fields are exported (with lowercase JSON tags) purely so that
// encoding/json promotes them onto every variant; use the Type/Timestamp
// accessor methods rather than these fields directly.
type msgHeader struct {
	Tag MessageType `json:"type"`
	Ts  Timestamp   `json:"timestamp"`
}

func (h msgHeader) Type() MessageType    { return h.Tag }
func (h msgHeader) Timestamp() Timestamp { return h.Ts }

// decodeMsgHeader reads the shared tag+timestamp prefix and validates the
// tag against want and the timestamp against the plausibility window.
func decodeMsgHeader(data []byte, want MessageType) (msgHeader, error) {
	tag, err := readU8(data, 0)
	if err != nil {
		return msgHeader{}, err
	}
	if MessageType(tag) != want {
		return msgHeader{}, &TagMismatchError{Expected: byte(want), Actual: tag}
	}
	ts, err := readTimestamp(data, 2)
	if err != nil {
		return msgHeader{}, err
	}
	if !ts.plausible() {
		return msgHeader{}, &ImplausibleTimestampError{Timestamp: ts}
	}
	return msgHeader{Tag: want, Ts: ts}, nil
}

// SystemEvent reports a system-wide lifecycle event (start/end of messages,
// system hours, or regular market hours).
type SystemEvent struct {
	msgHeader
	Code SystemEventCode
}

func decodeSystemEvent(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeSystemEvent)
	if err != nil {
		return nil, err
	}
	code, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	return &SystemEvent{msgHeader: h, Code: SystemEventCode(code)}, nil
}

// SecurityDirectory conveys per-security static reference data.
type SecurityDirectory struct {
	msgHeader
	Flags            uint8
	Symbol           string
	RoundLotSize     uint32
	AdjustedPOCPrice Price
	LULDTier         LULDTier
}

func decodeSecurityDirectory(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeSecurityDirectory)
	if err != nil {
		return nil, err
	}
	flags, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	roundLotSize, err := readU32(data, 18)
	if err != nil {
		return nil, err
	}
	adjustedPOCPrice, err := readPrice(data, 22)
	if err != nil {
		return nil, err
	}
	luldTier, err := readU8(data, 30)
	if err != nil {
		return nil, err
	}
	return &SecurityDirectory{
		msgHeader:        h,
		Flags:            flags,
		Symbol:           symbol,
		RoundLotSize:     roundLotSize,
		AdjustedPOCPrice: adjustedPOCPrice,
		LULDTier:         LULDTier(luldTier),
	}, nil
}

// SecurityEvent reports an opening or closing process completion for a
// security.
type SecurityEvent struct {
	msgHeader
	Code   SecurityEventCode
	Symbol string
}

func decodeSecurityEvent(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeSecurityEvent)
	if err != nil {
		return nil, err
	}
	code, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	return &SecurityEvent{msgHeader: h, Code: SecurityEventCode(code), Symbol: symbol}, nil
}

// TradingStatus reports a change in a security's trading status.
type TradingStatus struct {
	msgHeader
	Status TradingStatusCode
	Symbol string
	Reason string
}

func decodeTradingStatus(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeTradingStatus)
	if err != nil {
		return nil, err
	}
	status, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	reason, err := readSymbol(data, 18, 4)
	if err != nil {
		return nil, err
	}
	return &TradingStatus{msgHeader: h, Status: TradingStatusCode(status), Symbol: symbol, Reason: reason}, nil
}

// OperationalHaltStatus reports whether IEX has operationally halted a
// security.
type OperationalHaltStatus struct {
	msgHeader
	Status OperationalHaltCode
	Symbol string
}

func decodeOperationalHaltStatus(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeOperationalHaltStatus)
	if err != nil {
		return nil, err
	}
	status, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	return &OperationalHaltStatus{msgHeader: h, Status: OperationalHaltCode(status), Symbol: symbol}, nil
}

// ShortSalePriceTestStatus reports whether a Regulation SHO short-sale
// price test is in effect for a security.
type ShortSalePriceTestStatus struct {
	msgHeader
	InEffect bool
	Symbol   string
	Detail   ShortSaleDetail
}

func decodeShortSalePriceTestStatus(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeShortSalePriceTestStatus)
	if err != nil {
		return nil, err
	}
	inEffect, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	detail, err := readU8(data, 18)
	if err != nil {
		return nil, err
	}
	return &ShortSalePriceTestStatus{
		msgHeader: h,
		InEffect:  inEffect != 0,
		Symbol:    symbol,
		Detail:    ShortSaleDetail(detail),
	}, nil
}

// QuoteUpdate reports IEX's best bid and offer for a security.
type QuoteUpdate struct {
	msgHeader
	Flags    uint8
	Symbol   string
	BidSize  uint32
	BidPrice Price
	AskPrice Price
	AskSize  uint32
}

func decodeQuoteUpdate(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeQuoteUpdate)
	if err != nil {
		return nil, err
	}
	flags, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	bidSize, err := readU32(data, 18)
	if err != nil {
		return nil, err
	}
	bidPrice, err := readPrice(data, 22)
	if err != nil {
		return nil, err
	}
	askPrice, err := readPrice(data, 30)
	if err != nil {
		return nil, err
	}
	askSize, err := readU32(data, 38)
	if err != nil {
		return nil, err
	}
	return &QuoteUpdate{
		msgHeader: h,
		Flags:     flags,
		Symbol:    symbol,
		BidSize:   bidSize,
		BidPrice:  bidPrice,
		AskPrice:  askPrice,
		AskSize:   askSize,
	}, nil
}

// TradeReportBody is the shared payload shape of TradeReport and
// TradeBreak: the two variants differ only by their type tag.
type TradeReportBody struct {
	Flags   uint8
	Symbol  string
	Size    uint32
	Price   Price
	TradeID uint64
}

func decodeTradeReportBody(data []byte) (TradeReportBody, error) {
	flags, err := readU8(data, 1)
	if err != nil {
		return TradeReportBody{}, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return TradeReportBody{}, err
	}
	size, err := readU32(data, 18)
	if err != nil {
		return TradeReportBody{}, err
	}
	price, err := readPrice(data, 22)
	if err != nil {
		return TradeReportBody{}, err
	}
	tradeID, err := readU64(data, 30)
	if err != nil {
		return TradeReportBody{}, err
	}
	return TradeReportBody{Flags: flags, Symbol: symbol, Size: size, Price: price, TradeID: tradeID}, nil
}

// TradeReport reports an execution on IEX.
type TradeReport struct {
	msgHeader
	TradeReportBody
}

func decodeTradeReport(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeTradeReport)
	if err != nil {
		return nil, err
	}
	body, err := decodeTradeReportBody(data)
	if err != nil {
		return nil, err
	}
	return &TradeReport{msgHeader: h, TradeReportBody: body}, nil
}

// TradeBreak reports that a previously reported trade has been broken. It
// shares TradeReport's payload layout; only the type tag distinguishes it.
type TradeBreak struct {
	msgHeader
	TradeReportBody
}

func decodeTradeBreak(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeTradeBreak)
	if err != nil {
		return nil, err
	}
	body, err := decodeTradeReportBody(data)
	if err != nil {
		return nil, err
	}
	return &TradeBreak{msgHeader: h, TradeReportBody: body}, nil
}

// OfficialPrice reports IEX's official opening or closing price for a
// security.
type OfficialPrice struct {
	msgHeader
	PriceType OfficialPriceType
	Symbol    string
	Price     Price
}

func decodeOfficialPrice(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeOfficialPrice)
	if err != nil {
		return nil, err
	}
	priceType, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	price, err := readPrice(data, 18)
	if err != nil {
		return nil, err
	}
	return &OfficialPrice{msgHeader: h, PriceType: OfficialPriceType(priceType), Symbol: symbol, Price: price}, nil
}

// AuctionInformation reports the state of an IEX auction in progress.
type AuctionInformation struct {
	msgHeader
	AuctionType               AuctionType
	Symbol                    string
	PairedShares              uint32
	ReferencePrice            Price
	IndicativeClearingPrice   Price
	ImbalanceShares           uint32
	ImbalanceSide             ImbalanceSide
	ExtensionNumber           uint8
	ScheduledAuctionTime      uint32
	AuctionBookClearingPrice  Price
	CollarReferencePrice      Price
	LowerAuctionCollar        Price
	UpperAuctionCollar        Price
}

func decodeAuctionInformation(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypeAuctionInformation)
	if err != nil {
		return nil, err
	}
	auctionType, err := readU8(data, 1)
	if err != nil {
		return nil, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return nil, err
	}
	pairedShares, err := readU32(data, 18)
	if err != nil {
		return nil, err
	}
	referencePrice, err := readPrice(data, 22)
	if err != nil {
		return nil, err
	}
	indicativeClearingPrice, err := readPrice(data, 30)
	if err != nil {
		return nil, err
	}
	imbalanceShares, err := readU32(data, 38)
	if err != nil {
		return nil, err
	}
	imbalanceSide, err := readU8(data, 42)
	if err != nil {
		return nil, err
	}
	extensionNumber, err := readU8(data, 43)
	if err != nil {
		return nil, err
	}
	scheduledAuctionTime, err := readU32(data, 44)
	if err != nil {
		return nil, err
	}
	auctionBookClearingPrice, err := readPrice(data, 48)
	if err != nil {
		return nil, err
	}
	collarReferencePrice, err := readPrice(data, 56)
	if err != nil {
		return nil, err
	}
	lowerAuctionCollar, err := readPrice(data, 64)
	if err != nil {
		return nil, err
	}
	upperAuctionCollar, err := readPrice(data, 72)
	if err != nil {
		return nil, err
	}
	return &AuctionInformation{
		msgHeader:                h,
		AuctionType:              AuctionType(auctionType),
		Symbol:                   symbol,
		PairedShares:             pairedShares,
		ReferencePrice:           referencePrice,
		IndicativeClearingPrice:  indicativeClearingPrice,
		ImbalanceShares:          imbalanceShares,
		ImbalanceSide:            ImbalanceSide(imbalanceSide),
		ExtensionNumber:          extensionNumber,
		ScheduledAuctionTime:     scheduledAuctionTime,
		AuctionBookClearingPrice: auctionBookClearingPrice,
		CollarReferencePrice:     collarReferencePrice,
		LowerAuctionCollar:       lowerAuctionCollar,
		UpperAuctionCollar:       upperAuctionCollar,
	}, nil
}

// PriceLevelBody is the shared payload shape of PriceLevelUpdateBuy and
// PriceLevelUpdateSell: the two variants differ only by their type tag and
// which side of the book they update.
type PriceLevelBody struct {
	Flags  uint8
	Symbol string
	Size   uint32
	Price  Price
}

func decodePriceLevelBody(data []byte) (PriceLevelBody, error) {
	flags, err := readU8(data, 1)
	if err != nil {
		return PriceLevelBody{}, err
	}
	symbol, err := readSymbol(data, 10, 8)
	if err != nil {
		return PriceLevelBody{}, err
	}
	size, err := readU32(data, 18)
	if err != nil {
		return PriceLevelBody{}, err
	}
	price, err := readPrice(data, 22)
	if err != nil {
		return PriceLevelBody{}, err
	}
	return PriceLevelBody{Flags: flags, Symbol: symbol, Size: size, Price: price}, nil
}

// PriceLevelUpdateBuy adds or updates a price level on the buy side of the
// IEX-provided order book (DEEP feed).
type PriceLevelUpdateBuy struct {
	msgHeader
	PriceLevelBody
}

func decodePriceLevelUpdateBuy(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypePriceLevelUpdateBuy)
	if err != nil {
		return nil, err
	}
	body, err := decodePriceLevelBody(data)
	if err != nil {
		return nil, err
	}
	return &PriceLevelUpdateBuy{msgHeader: h, PriceLevelBody: body}, nil
}

// PriceLevelUpdateSell adds or updates a price level on the sell side of
// the IEX-provided order book (DEEP feed).
type PriceLevelUpdateSell struct {
	msgHeader
	PriceLevelBody
}

func decodePriceLevelUpdateSell(data []byte) (Message, error) {
	h, err := decodeMsgHeader(data, MessageTypePriceLevelUpdateSell)
	if err != nil {
		return nil, err
	}
	body, err := decodePriceLevelBody(data)
	if err != nil {
		return nil, err
	}
	return &PriceLevelUpdateSell{msgHeader: h, PriceLevelBody: body}, nil
}
