package wire

import (
	"strconv"

	"main/internal/codec"
	"main/internal/model"
	"main/internal/model/enum"
)

// Kind tags the closed union of inbound message types.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindAuth
	KindPlaceOrder
	KindChannelOrders
	KindChannelOrderBook
	KindChannelPositions
	KindChannelInstruments
)

// TypeResolver maps a response id to a Kind using the sender's
// pending-request table. Only needed for method-keyed responses; channel
// pushes resolve by channel name.
type TypeResolver func(id int64) Kind

// Response is a decoded inbound message. Exactly the body matching Kind is
// non-nil; an unresolvable envelope degrades to KindUndefined with only the
// ok/error fields populated.
type Response struct {
	ID        int64
	Kind      Kind
	OK        bool
	ErrorCode string

	Auth        *AuthResult
	PlaceOrder  *PlaceOrderResult
	Orders      *OrdersUpdate
	OrderBook   *OrderBookUpdate
	Positions   *PositionsUpdate
	Instruments *InstrumentsUpdate
}

type AuthResult struct {
	UserID int64
}

type PlaceOrderResult struct {
	OrderID int64
}

type OrdersUpdate struct {
	Entries map[int64]model.OrderEntry
}

type OrderBookUpdate struct {
	Entries map[int]model.OrderBookEntry
}

type PositionsUpdate struct {
	Entries map[int]model.Position
}

type InstrumentsUpdate struct {
	List map[int]model.Instrument
}

var kindDecoders = map[Kind]func(*Response, codec.Codec){
	KindAuth:               decodeAuth,
	KindPlaceOrder:         decodePlaceOrder,
	KindChannelOrders:      decodeChannelOrders,
	KindChannelOrderBook:   decodeChannelOrderBook,
	KindChannelPositions:   decodeChannelPositions,
	KindChannelInstruments: decodeChannelInstruments,
}

func channelKind(ch enum.Channel) Kind {
	switch ch {
	case enum.ChannelOrders:
		return KindChannelOrders
	case enum.ChannelOrderBook:
		return KindChannelOrderBook
	case enum.ChannelPositions:
		return KindChannelPositions
	case enum.ChannelInstruments:
		return KindChannelInstruments
	default:
		return KindUndefined
	}
}

// DecodeResponse resolves and decodes one inbound frame. Resolution order:
// channel name, then the pending-table resolver keyed by id, then the
// generic undefined response. Decode failures never drop the frame; the
// degraded response is still delivered to the handler.
func DecodeResponse(c codec.Codec, payload []byte, resolve TypeResolver) *Response {
	res := &Response{ID: -1}
	if len(payload) == 0 {
		return res
	}
	if err := c.FromText(payload); err != nil {
		return res
	}

	res.ID = c.Int("id", -1)
	result, ok := c.Object("result")
	if !ok {
		return res
	}

	if name := result.Str("channel", ""); name != "" {
		res.Kind = channelKind(enum.ChannelFromName(name))
	} else if resolve != nil {
		res.Kind = resolve(res.ID)
	}

	// Method-keyed responses nest the tagged payload under result.data;
	// channel pushes carry it on result directly.
	body := result
	if data, ok := result.Object("data"); ok {
		body = data
	}

	res.OK = body.Str("tag", "") == "ok"

	value, ok := body.Object("value")
	if !ok {
		return res
	}

	if !res.OK {
		res.ErrorCode = value.Str("code", "")
		return res
	}
	if decode, ok := kindDecoders[res.Kind]; ok {
		decode(res, value)
	}
	return res
}

func decodeAuth(res *Response, value codec.Codec) {
	res.Auth = &AuthResult{UserID: value.Int("userId", -1)}
}

func decodePlaceOrder(res *Response, value codec.Codec) {
	orderID, err := strconv.ParseInt(value.SelfStr(""), 10, 64)
	if err != nil {
		orderID = -1
	}
	res.PlaceOrder = &PlaceOrderResult{OrderID: orderID}
}

func decodeChannelOrders(res *Response, value codec.Codec) {
	res.Orders = &OrdersUpdate{Entries: map[int64]model.OrderEntry{}}
	if value.Str("type", "") != "update" {
		return
	}

	payload, ok := value.Object("payload")
	if !ok {
		return
	}
	entry := decodeOrderEntry(payload)
	res.Orders.Entries[entry.ID] = entry
}

func decodeChannelOrderBook(res *Response, value codec.Codec) {
	res.OrderBook = &OrderBookUpdate{Entries: map[int]model.OrderBookEntry{}}
	value.EachMember(func(name string, member codec.Codec) {
		id, err := strconv.Atoi(name)
		if err != nil {
			return
		}
		res.OrderBook.Entries[id] = decodeOrderBookEntry(member, id)
	})
}

func decodeChannelPositions(res *Response, value codec.Codec) {
	res.Positions = &PositionsUpdate{Entries: map[int]model.Position{}}

	switch value.Str("type", "") {
	case "update":
		payload, ok := value.Object("payload")
		if !ok {
			return
		}
		p := decodePosition(payload)
		res.Positions.Entries[p.InstrumentID] = p
	case "snapshot":
		payload, ok := value.Object("payload")
		if !ok {
			return
		}
		payload.EachMember(func(name string, member codec.Codec) {
			id, err := strconv.Atoi(name)
			if err != nil {
				return
			}
			p := decodePosition(member)
			if p.InstrumentID == 0 {
				p.InstrumentID = id
			}
			res.Positions.Entries[id] = p
		})
	}
}

func decodeChannelInstruments(res *Response, value codec.Codec) {
	res.Instruments = &InstrumentsUpdate{List: map[int]model.Instrument{}}
	value.EachMember(func(name string, member codec.Codec) {
		id, err := strconv.Atoi(name)
		if err != nil {
			return
		}
		res.Instruments.List[id] = model.Instrument{
			Symbol:            member.Str("symbol", ""),
			MinPriceIncrement: decodeNumber(member, "minPriceIncrement"),
		}
	})
}

func decodeNumber(c codec.Codec, name string) model.Number {
	obj, ok := c.Object(name)
	if !ok {
		return model.Undefined()
	}
	return model.NewNumber(
		obj.Int("mantissa", model.UndefinedMantissa),
		int(obj.Int("exponent", 0)),
	)
}

func decodeOrderEntry(c codec.Codec) model.OrderEntry {
	return model.OrderEntry{
		ID:                c.Int("id", -1),
		InstrumentID:      int(c.Int("instrument", -1)),
		Type:              enum.OrderTypeFromName(c.Str("type", "")),
		TimeInForce:       enum.OrderTimeInForceFromName(c.Str("timeInForce", "")),
		Side:              enum.OrderSideFromName(c.Str("side", "")),
		Status:            enum.OrderStatusFromName(c.Str("status", "")),
		Price:             decodeNumber(c, "price"),
		QuantityInitial:   int(c.Int("initialSize", 0)),
		QuantityRemaining: int(c.Int("remainingSize", 0)),
	}
}

func decodeOrderBookEntry(c codec.Codec, id int) model.OrderBookEntry {
	entry := model.OrderBookEntry{InstrumentID: int(c.Int("instrumentId", int64(id)))}
	c.EachItem("bids", func(item codec.Codec) {
		entry.Bids = append(entry.Bids, decodeOrderBookRow(item))
	})
	c.EachItem("asks", func(item codec.Codec) {
		entry.Asks = append(entry.Asks, decodeOrderBookRow(item))
	})
	return entry
}

func decodeOrderBookRow(c codec.Codec) model.OrderBookRow {
	return model.OrderBookRow{
		Price:    decodeNumber(c, "price"),
		Quantity: int(c.Int("size", 0)),
	}
}

func decodePosition(c codec.Codec) model.Position {
	return model.Position{
		InstrumentID:            int(c.Int("instrumentId", -1)),
		Size:                    int(c.Int("size", 0)),
		UnrealizedPnl:           decodeNumber(c, "unrealizedPnl"),
		RealizedPnl:             decodeNumber(c, "realizedPnl"),
		Margin:                  decodeNumber(c, "margin"),
		MaxRemovableMargin:      decodeNumber(c, "maxRemovableMargin"),
		EntryPrice:              decodeNumber(c, "entryPrice"),
		EntryNotionalValue:      decodeNumber(c, "entryNotionalValue"),
		CurrentNotionalValue:    decodeNumber(c, "currentNotionalValue"),
		PartialLiquidationPrice: decodeNumber(c, "partialLiquidationPrice"),
		FullLiquidationPrice:    decodeNumber(c, "fullLiquidationPrice"),
	}
}
