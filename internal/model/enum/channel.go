package enum

// Channel is a server-push stream the client can subscribe to. Only
// instruments, orders, orderbook and positions are consumed; the rest exist
// on the exchange but carry no name here.
type Channel uint8

const (
	_channel_beg Channel = iota
	ChannelInstruments
	ChannelOrders
	ChannelOrderFills
	ChannelLastTrades
	ChannelPositions
	ChannelOrderBook
	ChannelBalance
	ChannelCandles
	ChannelRiskSettings
	ChannelTickers
	_channel_end
)

func (c Channel) IsAvailable() bool {
	return c > _channel_beg && c < _channel_end
}

func (c Channel) String() string {
	switch c {
	case ChannelInstruments:
		return "instruments"
	case ChannelOrders:
		return "orders"
	case ChannelPositions:
		return "positions"
	case ChannelOrderBook:
		return "orderbook"
	default:
		return "N/A"
	}
}

func ChannelFromName(name string) Channel {
	switch name {
	case "instruments":
		return ChannelInstruments
	case "orders":
		return ChannelOrders
	case "positions":
		return ChannelPositions
	case "orderbook":
		return ChannelOrderBook
	default:
		return _channel_beg
	}
}
