package model

import (
	"time"

	"main/internal/model/enum"
)

// Time is a wall-clock instant as the exchange encodes it.
type Time struct {
	Seconds     uint64
	Nanoseconds uint64
}

func Now() Time {
	return Time{Seconds: uint64(time.Now().Unix())}
}

// OrderEntry is one order as reported on the orders channel.
type OrderEntry struct {
	ID                int64
	InstrumentID      int
	Type              enum.OrderType
	TimeInForce       enum.OrderTimeInForce
	Side              enum.OrderSide
	Status            enum.OrderStatus
	Price             Number
	QuantityInitial   int
	QuantityRemaining int
}

// OrderBookRow is one price level. Quantity 0 means the level was removed.
type OrderBookRow struct {
	Price    Number
	Quantity int
}

// OrderBookEntry is one instrument's book update.
type OrderBookEntry struct {
	InstrumentID int
	Bids         []OrderBookRow
	Asks         []OrderBookRow
}

// Instrument carries the tick size used to quantize quoted prices.
type Instrument struct {
	Symbol            string
	MinPriceIncrement Number
}

// Position is the account position for one instrument.
type Position struct {
	InstrumentID            int
	Size                    int
	UnrealizedPnl           Number
	RealizedPnl             Number
	Margin                  Number
	MaxRemovableMargin      Number
	EntryPrice              Number
	EntryNotionalValue      Number
	CurrentNotionalValue    Number
	PartialLiquidationPrice Number
	FullLiquidationPrice    Number
}
