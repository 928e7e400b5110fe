// Package quoter is the decision loop. It consumes decoded session messages,
// tracks book, position and working-order state for one instrument and keeps
// a resting quote on both sides of the mid.
package quoter

import (
	"math"

	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/model/enum"
	"main/internal/wire"
)

// positionUnknown holds the position slot until the first positions snapshot
// arrives. No quoting happens before it resolves.
const positionUnknown = math.MaxInt

// Sender is the outbound half of the session.
type Sender interface {
	Send(req wire.Request) (int64, error)
}

type Config struct {
	InstrumentID    int
	Quantity        int
	PositionSizeMax int

	// PositionSizeStart seeds the position when UseConfigStartPositionSize
	// is set; otherwise the first exchange snapshot wins.
	PositionSizeStart          int
	UseConfigStartPositionSize bool

	// Shift and Interest are in price units. Interest widens the quote away
	// from the mid; Shift times the position leans both quotes away from the
	// side that would grow the inventory.
	Shift    float64
	Interest float64
}

// Engine holds all quoting state. Every method runs on the session's read
// goroutine, one message at a time, so nothing here needs a lock.
type Engine struct {
	conf   Config
	sender Sender

	bids priceLadder
	asks priceLadder

	bestBid           model.Number
	bestAsk           model.Number
	minPriceIncrement model.Number
	position          int

	// inflight keys placements by request id until the exchange assigns an
	// order id; buyOrders and sellOrders key working orders by order id.
	inflight   map[int64]*wire.PlaceOrderRequest
	buyOrders  map[int64]*wire.PlaceOrderRequest
	sellOrders map[int64]*wire.PlaceOrderRequest

	buyPlaced  bool
	sellPlaced bool
}

func New(conf Config, sender Sender) *Engine {
	position := positionUnknown
	if conf.UseConfigStartPositionSize {
		position = conf.PositionSizeStart
	}

	return &Engine{
		conf:              conf,
		sender:            sender,
		bestBid:           model.Undefined(),
		bestAsk:           model.Undefined(),
		minPriceIncrement: model.Undefined(),
		position:          position,
		inflight:          map[int64]*wire.PlaceOrderRequest{},
		buyOrders:         map[int64]*wire.PlaceOrderRequest{},
		sellOrders:        map[int64]*wire.PlaceOrderRequest{},
	}
}

// HandleAuth subscribes the data channels. It runs after every successful
// login, so a reconnect re-subscribes without extra bookkeeping.
func (e *Engine) HandleAuth() {
	for _, ch := range []enum.Channel{
		enum.ChannelInstruments,
		enum.ChannelOrders,
		enum.ChannelOrderBook,
		enum.ChannelPositions,
	} {
		if _, err := e.sender.Send(&wire.SubscribeRequest{Channel: ch}); err != nil {
			logs.Errorf("subscribe %s failed, err: %+v", ch, err)
		}
	}
}

// HandleMessage applies one decoded message to the engine state, then runs
// the quoting pass: place a missing quote on each permitted side and replace
// any working order whose target price moved.
func (e *Engine) HandleMessage(res *wire.Response) {
	switch res.Kind {
	case wire.KindPlaceOrder:
		e.onPlaceOrder(res)
	case wire.KindChannelInstruments:
		if res.Instruments != nil {
			e.onInstruments(res.Instruments)
		}
	case wire.KindChannelOrderBook:
		if res.OrderBook != nil {
			e.onOrderBook(res.OrderBook)
		}
	case wire.KindChannelPositions:
		if res.Positions != nil {
			e.onPositions(res.Positions)
		}
	case wire.KindChannelOrders:
		if res.Orders != nil {
			for _, entry := range res.Orders.Entries {
				e.onOrderUpdate(entry)
			}
		}
	}

	if !e.ready() {
		return
	}

	if !e.buyPlaced && e.position < e.conf.PositionSizeMax && len(e.buyOrders) == 0 {
		e.placeOrder(enum.OrderSideBuy, e.conf.Quantity, e.quotePrice(enum.OrderSideBuy))
	}

	if !e.sellPlaced && e.position > -e.conf.PositionSizeMax && len(e.sellOrders) == 0 {
		e.placeOrder(enum.OrderSideSell, e.conf.Quantity, e.quotePrice(enum.OrderSideSell))
	}

	logs.Debugf("position size: %d", e.position)

	e.replaceIfPriceChanged(enum.OrderSideBuy)
	e.replaceIfPriceChanged(enum.OrderSideSell)
}

func (e *Engine) ready() bool {
	return e.bestBid.HasValue() && e.bestAsk.HasValue() &&
		e.minPriceIncrement.HasValue() && e.position != positionUnknown
}

// quotePrice computes one side's quote: half the spread's mid, leaned away
// by the interest constant and by the inventory skew, rounded to the tick.
func (e *Engine) quotePrice(side enum.OrderSide) model.Number {
	price := e.bestBid.Add(e.bestAsk).DivScalar(2)

	if side == enum.OrderSideBuy {
		price = price.SubScalar(e.conf.Interest)
	} else {
		price = price.AddScalar(e.conf.Interest)
	}

	return price.
		SubScalar(e.conf.Shift * float64(e.position)).
		ModRing(e.minPriceIncrement)
}

func (e *Engine) placeOrder(side enum.OrderSide, quantity int, price model.Number) {
	logs.Infof("placing %s order, price: %v, quantity: %d", side, price.Value(), quantity)

	req := &wire.PlaceOrderRequest{
		InstrumentID: e.conf.InstrumentID,
		Price:        price,
		Side:         side,
		Quantity:     quantity,
		Type:         enum.OrderTypeLimit,
		TimeInForce:  enum.OrderTimeInForceGTC,
	}

	reqID, err := e.sender.Send(req)
	if err != nil {
		logs.Errorf("place %s order failed, err: %+v", side, err)
		return
	}
	e.inflight[reqID] = req

	// Placed flag is set optimistically; a rejection clears it so the next
	// event retries.
	if side == enum.OrderSideBuy {
		e.buyPlaced = true
	} else {
		e.sellPlaced = true
	}
}

// replaceIfPriceChanged cancels every working order on the side whose
// recomputed quote moved in either direction, recording the new target
// price on the request. The actual re-place happens when the cancel
// confirms on the orders channel.
func (e *Engine) replaceIfPriceChanged(side enum.OrderSide) {
	orders := e.ordersFor(side)
	if len(orders) == 0 {
		return
	}

	price := e.quotePrice(side)

	for orderID, req := range orders {
		if !req.Price.Ne(price) {
			continue
		}

		logs.Infof("replacing order %d, old price: %v, new price: %v",
			orderID, req.Price.Value(), price.Value())

		if _, err := e.sender.Send(&wire.CancelOrderRequest{OrderID: orderID}); err != nil {
			logs.Errorf("cancel order %d failed, err: %+v", orderID, err)
			continue
		}

		req.Price = price
		req.IsReplace = true
	}
}

func (e *Engine) onPlaceOrder(res *wire.Response) {
	req, ok := e.inflight[res.ID]
	if !ok {
		return
	}
	delete(e.inflight, res.ID)

	// A degraded ack without a body carries no order id to track; treat it
	// like a rejection so the side re-quotes.
	if !res.OK || res.PlaceOrder == nil {
		logs.Errorf("%s order rejected, code: %s", req.Side, res.ErrorCode)
		if req.Side == enum.OrderSideBuy {
			e.buyPlaced = false
		} else {
			e.sellPlaced = false
		}
		return
	}

	e.ordersFor(req.Side)[res.PlaceOrder.OrderID] = req
}

func (e *Engine) onInstruments(update *wire.InstrumentsUpdate) {
	if ins, ok := update.List[e.conf.InstrumentID]; ok {
		e.minPriceIncrement = ins.MinPriceIncrement
	}
}

// onOrderBook merges one book update. A zero quantity removes the level;
// best bid and ask are recomputed from the ladders after the merge.
func (e *Engine) onOrderBook(update *wire.OrderBookUpdate) {
	entry, ok := update.Entries[e.conf.InstrumentID]
	if !ok {
		return
	}

	for _, row := range entry.Bids {
		if row.Quantity > 0 {
			e.bids.Insert(row.Price)
		} else {
			e.bids.Remove(row.Price)
		}
	}
	for _, row := range entry.Asks {
		if row.Quantity > 0 {
			e.asks.Insert(row.Price)
		} else {
			e.asks.Remove(row.Price)
		}
	}

	if !e.bids.Empty() {
		e.bestBid = e.bids.Max()
	}
	if !e.asks.Empty() {
		e.bestAsk = e.asks.Min()
	}

	logs.Debugf("best bid: %v, best ask: %v", e.bestBid.Value(), e.bestAsk.Value())
}

// onPositions resolves the unknown position exactly once; later updates are
// ignored because fills already adjust the position locally.
func (e *Engine) onPositions(update *wire.PositionsUpdate) {
	if e.position != positionUnknown {
		return
	}

	if p, ok := update.Entries[e.conf.InstrumentID]; ok {
		e.position = p.Size
	} else {
		e.position = 0
	}

	logs.Infof("exchange position size: %d", e.position)
}

func (e *Engine) onOrderUpdate(order model.OrderEntry) {
	orders := e.ordersFor(order.Side)

	req, ok := orders[order.ID]
	if !ok {
		return
	}

	switch order.Status {
	case enum.OrderStatusFilled, enum.OrderStatusPartiallyFilled:
		filled := req.Quantity - order.QuantityRemaining

		if order.Side == enum.OrderSideBuy {
			e.position += filled
		} else {
			e.position -= filled
		}

		req.Quantity = order.QuantityRemaining

		if order.QuantityRemaining == 0 {
			delete(orders, order.ID)
			e.setPlaced(order.Side, false)
		}

	case enum.OrderStatusCancelled:
		if req.IsReplace && req.Quantity > 0 {
			// Cancel-for-replace confirmed: re-place the remaining quantity
			// at the price recorded when the replace was triggered.
			e.placeOrder(req.Side, req.Quantity, req.Price)
		} else {
			e.setPlaced(order.Side, false)
		}

		delete(orders, order.ID)
	}
}

func (e *Engine) ordersFor(side enum.OrderSide) map[int64]*wire.PlaceOrderRequest {
	if side == enum.OrderSideBuy {
		return e.buyOrders
	}
	return e.sellOrders
}

func (e *Engine) setPlaced(side enum.OrderSide, placed bool) {
	if side == enum.OrderSideBuy {
		e.buyPlaced = placed
	} else {
		e.sellPlaced = placed
	}
}
