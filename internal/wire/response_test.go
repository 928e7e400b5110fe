package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/codec"
	"main/internal/model"
	"main/internal/model/enum"
)

func resolverFor(kinds map[int64]Kind) TypeResolver {
	return func(id int64) Kind {
		return kinds[id]
	}
}

func decode(payload string, resolve TypeResolver) *Response {
	return DecodeResponse(codec.JSON(), []byte(payload), resolve)
}

func TestDecodeAuthOK(t *testing.T) {
	res := decode(
		`{"id":1,"result":{"data":{"tag":"ok","value":{"userId":25}}}}`,
		resolverFor(map[int64]Kind{1: KindAuth}),
	)

	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, KindAuth, res.Kind)
	assert.True(t, res.OK)
	require.NotNil(t, res.Auth)
	assert.Equal(t, int64(25), res.Auth.UserID)
}

func TestDecodeAuthError(t *testing.T) {
	res := decode(
		`{"id":1,"result":{"data":{"tag":"err","value":{"code":"AUTHORIZATION_REQUIRED"}}}}`,
		resolverFor(map[int64]Kind{1: KindAuth}),
	)

	assert.Equal(t, KindAuth, res.Kind)
	assert.False(t, res.OK)
	assert.Equal(t, "AUTHORIZATION_REQUIRED", res.ErrorCode)
	assert.Nil(t, res.Auth)
}

func TestDecodePlaceOrderOK(t *testing.T) {
	// the order id arrives as a decimal string
	res := decode(
		`{"id":7,"result":{"data":{"tag":"ok","value":"9007199254740993"}}}`,
		resolverFor(map[int64]Kind{7: KindPlaceOrder}),
	)

	assert.Equal(t, KindPlaceOrder, res.Kind)
	assert.True(t, res.OK)
	require.NotNil(t, res.PlaceOrder)
	assert.Equal(t, int64(9007199254740993), res.PlaceOrder.OrderID)
}

func TestDecodePlaceOrderMissingValue(t *testing.T) {
	// tagged ok but no value member: the frame degrades to a body-less
	// response instead of being dropped
	res := decode(
		`{"id":7,"result":{"data":{"tag":"ok"}}}`,
		resolverFor(map[int64]Kind{7: KindPlaceOrder}),
	)

	assert.Equal(t, KindPlaceOrder, res.Kind)
	assert.True(t, res.OK)
	assert.Nil(t, res.PlaceOrder)
}

func TestDecodePlaceOrderRejected(t *testing.T) {
	res := decode(
		`{"id":7,"result":{"data":{"tag":"err","value":{"code":"NOT_ENOUGH_FUNDS"}}}}`,
		resolverFor(map[int64]Kind{7: KindPlaceOrder}),
	)

	assert.Equal(t, KindPlaceOrder, res.Kind)
	assert.False(t, res.OK)
	assert.Equal(t, "NOT_ENOUGH_FUNDS", res.ErrorCode)
	assert.Nil(t, res.PlaceOrder)
}

func TestDecodeUnknownID(t *testing.T) {
	res := decode(
		`{"id":99,"result":{"data":{"tag":"ok","value":{"userId":1}}}}`,
		resolverFor(nil),
	)

	assert.Equal(t, int64(99), res.ID)
	assert.Equal(t, KindUndefined, res.Kind)
	assert.True(t, res.OK)
	assert.Nil(t, res.Auth)
}

func TestDecodeOrderBookChannel(t *testing.T) {
	res := decode(
		`{"result":{"channel":"orderbook","data":{"tag":"ok","value":{
			"2":{"instrumentId":2,
				"bids":[{"price":{"mantissa":10000,"exponent":-2},"size":5}],
				"asks":[{"price":{"mantissa":10010,"exponent":-2},"size":0}]}
		}}}}`,
		nil,
	)

	assert.Equal(t, KindChannelOrderBook, res.Kind)
	assert.True(t, res.OK)
	require.NotNil(t, res.OrderBook)

	entry, ok := res.OrderBook.Entries[2]
	require.True(t, ok)
	require.Len(t, entry.Bids, 1)
	require.Len(t, entry.Asks, 1)

	assert.False(t, entry.Bids[0].Price.Ne(model.NewNumber(10000, -2)))
	assert.Equal(t, 5, entry.Bids[0].Quantity)
	assert.Equal(t, 0, entry.Asks[0].Quantity)
}

func TestDecodeOrdersUpdate(t *testing.T) {
	res := decode(
		`{"result":{"channel":"orders","data":{"tag":"ok","value":{
			"type":"update",
			"payload":{"id":514065163585,"instrument":2,"type":"LIMIT",
				"timeInForce":"GTC","side":"BUY","status":"PARTIALLY_FILLED",
				"price":{"mantissa":10003,"exponent":-2},
				"initialSize":10,"remainingSize":4}
		}}}}`,
		nil,
	)

	assert.Equal(t, KindChannelOrders, res.Kind)
	require.NotNil(t, res.Orders)

	entry, ok := res.Orders.Entries[514065163585]
	require.True(t, ok)
	assert.Equal(t, 2, entry.InstrumentID)
	assert.Equal(t, enum.OrderSideBuy, entry.Side)
	assert.Equal(t, enum.OrderStatusPartiallyFilled, entry.Status)
	assert.Equal(t, 10, entry.QuantityInitial)
	assert.Equal(t, 4, entry.QuantityRemaining)
}

func TestDecodeOrdersSnapshotIgnored(t *testing.T) {
	res := decode(
		`{"result":{"channel":"orders","data":{"tag":"ok","value":{"type":"snapshot","payload":{}}}}}`,
		nil,
	)

	assert.Equal(t, KindChannelOrders, res.Kind)
	require.NotNil(t, res.Orders)
	assert.Empty(t, res.Orders.Entries)
}

func TestDecodePositionsSnapshot(t *testing.T) {
	res := decode(
		`{"result":{"channel":"positions","data":{"tag":"ok","value":{
			"type":"snapshot",
			"payload":{"2":{"instrumentId":2,"size":-3,
				"unrealizedPnl":{"mantissa":150,"exponent":-2}}}
		}}}}`,
		nil,
	)

	assert.Equal(t, KindChannelPositions, res.Kind)
	require.NotNil(t, res.Positions)

	p, ok := res.Positions.Entries[2]
	require.True(t, ok)
	assert.Equal(t, -3, p.Size)
	assert.False(t, p.UnrealizedPnl.Ne(model.NewNumber(150, -2)))
	assert.False(t, p.Margin.HasValue())
}

func TestDecodePositionsUpdate(t *testing.T) {
	res := decode(
		`{"result":{"channel":"positions","data":{"tag":"ok","value":{
			"type":"update","payload":{"instrumentId":2,"size":7}
		}}}}`,
		nil,
	)

	require.NotNil(t, res.Positions)
	p, ok := res.Positions.Entries[2]
	require.True(t, ok)
	assert.Equal(t, 7, p.Size)
}

func TestDecodeInstruments(t *testing.T) {
	res := decode(
		`{"result":{"channel":"instruments","data":{"tag":"ok","value":{
			"2":{"symbol":"BTC/USD","minPriceIncrement":{"mantissa":1,"exponent":-2}}
		}}}}`,
		nil,
	)

	assert.Equal(t, KindChannelInstruments, res.Kind)
	require.NotNil(t, res.Instruments)

	ins, ok := res.Instruments.List[2]
	require.True(t, ok)
	assert.Equal(t, "BTC/USD", ins.Symbol)
	assert.False(t, ins.MinPriceIncrement.Ne(model.NewNumber(1, -2)))
}

func TestDecodeUnknownChannel(t *testing.T) {
	res := decode(
		`{"result":{"channel":"candles","data":{"tag":"ok","value":{}}}}`,
		nil,
	)
	assert.Equal(t, KindUndefined, res.Kind)
	assert.True(t, res.OK)
}

func TestDecodeDegraded(t *testing.T) {
	for name, payload := range map[string]string{
		"empty":     "",
		"garbage":   "{not json",
		"no result": `{"id":5}`,
	} {
		t.Run(name, func(t *testing.T) {
			res := decode(payload, nil)
			require.NotNil(t, res)
			assert.Equal(t, KindUndefined, res.Kind)
			assert.False(t, res.OK)
		})
	}
}
