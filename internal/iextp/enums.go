package iextp

import "fmt"

// unknownByte renders a coded byte whose value is outside the enumerated
// range documented by the IEX TOPS/DEEP specification. The decoder accepts
// any byte value here; only the String rendering distinguishes known codes.
func unknownByte(b byte) string {
	return fmt.Sprintf("0x%02X", b)
}

// SystemEventCode identifies the kind of a SystemEvent message.
type SystemEventCode byte

const (
	SystemEventStartOfMessages           SystemEventCode = 0x4F // 'O'
	SystemEventStartOfSystemHours        SystemEventCode = 0x53 // 'S'
	SystemEventStartOfRegularMarketHours SystemEventCode = 0x52 // 'R'
	SystemEventEndOfRegularMarketHours   SystemEventCode = 0x4D // 'M'
	SystemEventEndOfSystemHours          SystemEventCode = 0x45 // 'E'
	SystemEventEndOfMessages             SystemEventCode = 0x43 // 'C'
)

func (c SystemEventCode) String() string {
	switch c {
	case SystemEventStartOfMessages:
		return "StartOfMessages"
	case SystemEventStartOfSystemHours:
		return "StartOfSystemHours"
	case SystemEventStartOfRegularMarketHours:
		return "StartOfRegularMarketHours"
	case SystemEventEndOfRegularMarketHours:
		return "EndOfRegularMarketHours"
	case SystemEventEndOfSystemHours:
		return "EndOfSystemHours"
	case SystemEventEndOfMessages:
		return "EndOfMessages"
	default:
		return unknownByte(byte(c))
	}
}

// LULDTier identifies the Limit Up-Limit Down price band tier applied to a
// security.
type LULDTier byte

const (
	LULDTierNotApplicable  LULDTier = 0
	LULDTierTier1NMSStock  LULDTier = 1
	LULDTierTier2NMSStock  LULDTier = 2
)

func (t LULDTier) String() string {
	switch t {
	case LULDTierNotApplicable:
		return "NotApplicable"
	case LULDTierTier1NMSStock:
		return "Tier1NMSStock"
	case LULDTierTier2NMSStock:
		return "Tier2NMSStock"
	default:
		return unknownByte(byte(t))
	}
}

// TradingStatusCode identifies a security's current trading status.
type TradingStatusCode byte

const (
	TradingStatusHalted           TradingStatusCode = 'H'
	TradingStatusHaltReleasedIEX  TradingStatusCode = 'O'
	TradingStatusPaused           TradingStatusCode = 'P'
	TradingStatusTrading          TradingStatusCode = 'T'
)

func (s TradingStatusCode) String() string {
	switch s {
	case TradingStatusHalted:
		return "Halted"
	case TradingStatusHaltReleasedIEX:
		return "HaltReleasedIEX"
	case TradingStatusPaused:
		return "Paused"
	case TradingStatusTrading:
		return "Trading"
	default:
		return unknownByte(byte(s))
	}
}

// OperationalHaltCode identifies whether IEX has operationally halted a
// security, independent of regulatory trading status.
type OperationalHaltCode byte

const (
	OperationalHaltIEX OperationalHaltCode = 'O'
	OperationalHaltNot OperationalHaltCode = 'N'
)

func (c OperationalHaltCode) String() string {
	switch c {
	case OperationalHaltIEX:
		return "IEXOperationalHalt"
	case OperationalHaltNot:
		return "NotHalted"
	default:
		return unknownByte(byte(c))
	}
}

// ShortSaleDetail identifies the reason a short-sale price test is (or is
// not) in effect for a security.
type ShortSaleDetail byte

const (
	ShortSaleDetailNoPriceTest        ShortSaleDetail = 0x20 // ' '
	ShortSaleDetailIntradayPriceDrop  ShortSaleDetail = 'A'
	ShortSaleDetailContinued          ShortSaleDetail = 'C'
	ShortSaleDetailDeactivated        ShortSaleDetail = 'D'
	ShortSaleDetailNotAvailable       ShortSaleDetail = 'N'
)

func (d ShortSaleDetail) String() string {
	switch d {
	case ShortSaleDetailNoPriceTest:
		return "NoPriceTest"
	case ShortSaleDetailIntradayPriceDrop:
		return "IntradayPriceDrop"
	case ShortSaleDetailContinued:
		return "Continued"
	case ShortSaleDetailDeactivated:
		return "Deactivated"
	case ShortSaleDetailNotAvailable:
		return "NotAvailable"
	default:
		return unknownByte(byte(d))
	}
}

// OfficialPriceType distinguishes an opening from a closing official price.
type OfficialPriceType byte

const (
	OfficialPriceOpening OfficialPriceType = 'Q'
	OfficialPriceClosing OfficialPriceType = 'M'
)

func (t OfficialPriceType) String() string {
	switch t {
	case OfficialPriceOpening:
		return "Opening"
	case OfficialPriceClosing:
		return "Closing"
	default:
		return unknownByte(byte(t))
	}
}

// AuctionType identifies the kind of auction an AuctionInformation message
// describes.
type AuctionType byte

const (
	AuctionTypeOpening    AuctionType = 'O'
	AuctionTypeClosing    AuctionType = 'C'
	AuctionTypeIPO        AuctionType = 'I'
	AuctionTypeHalt       AuctionType = 'H'
	AuctionTypeVolatility AuctionType = 'V'
)

func (a AuctionType) String() string {
	switch a {
	case AuctionTypeOpening:
		return "OpeningAuction"
	case AuctionTypeClosing:
		return "ClosingAuction"
	case AuctionTypeIPO:
		return "IPOAuction"
	case AuctionTypeHalt:
		return "HaltAuction"
	case AuctionTypeVolatility:
		return "VolatilityAuction"
	default:
		return unknownByte(byte(a))
	}
}

// ImbalanceSide identifies the side of an auction's unpaired shares.
type ImbalanceSide byte

const (
	ImbalanceSideBuy  ImbalanceSide = 'B'
	ImbalanceSideSell ImbalanceSide = 'S'
	ImbalanceSideNone ImbalanceSide = 'N'
)

func (s ImbalanceSide) String() string {
	switch s {
	case ImbalanceSideBuy:
		return "BuySideImbalance"
	case ImbalanceSideSell:
		return "SellSideImbalance"
	case ImbalanceSideNone:
		return "NoImbalance"
	default:
		return unknownByte(byte(s))
	}
}

// SecurityEventCode identifies the kind of a SecurityEvent message.
type SecurityEventCode byte

const (
	SecurityEventOpeningProcessComplete SecurityEventCode = 'O'
	SecurityEventClosingProcessComplete SecurityEventCode = 'C'
)

func (c SecurityEventCode) String() string {
	switch c {
	case SecurityEventOpeningProcessComplete:
		return "OpeningProcessComplete"
	case SecurityEventClosingProcessComplete:
		return "ClosingProcessComplete"
	default:
		return unknownByte(byte(c))
	}
}
