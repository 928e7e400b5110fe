package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"main/internal/codec"
	"main/internal/model"
	"main/internal/model/enum"
)

func encode(t *testing.T, id int64, req Request) codec.Codec {
	t.Helper()

	text, err := EncodeRequest(codec.JSON(), id, req)
	require.NoError(t, err)

	parsed := codec.JSON()
	require.NoError(t, parsed.FromText(text))
	return parsed
}

func methodData(t *testing.T, c codec.Codec) codec.Codec {
	t.Helper()

	params, ok := c.Object("params")
	require.True(t, ok)
	data, ok := params.Object("data")
	require.True(t, ok)
	return data
}

func TestEncodeSubscribe(t *testing.T) {
	c := encode(t, 3, &SubscribeRequest{Channel: enum.ChannelOrderBook})

	assert.Equal(t, int64(1), c.Int("method", -1))
	assert.Equal(t, int64(3), c.Int("id", -1))

	params, ok := c.Object("params")
	require.True(t, ok)
	assert.Equal(t, "orderbook", params.Str("channel", ""))
}

func TestEncodeUnsubscribe(t *testing.T) {
	c := encode(t, 4, &UnsubscribeRequest{Channel: enum.ChannelPositions})

	assert.Equal(t, int64(2), c.Int("method", -1))

	params, ok := c.Object("params")
	require.True(t, ok)
	assert.Equal(t, "positions", params.Str("channel", ""))
}

func TestEncodeAuth(t *testing.T) {
	c := encode(t, 1, &AuthRequest{
		KeyID:     "6aa06d87-a18c-44ca-a9a6-81792c4cfbe0",
		KeySecret: "0a0b0c0d",
	})

	assert.Equal(t, int64(9), c.Int("method", -1))

	data := methodData(t, c)
	assert.Equal(t, MethodAuth, data.Str("method", ""))

	params, ok := data.Object("params")
	require.True(t, ok)
	assert.Equal(t, "6aa06d87-a18c-44ca-a9a6-81792c4cfbe0", params.Str("apiKey", ""))

	tm, ok := params.Object("time")
	require.True(t, ok)
	seconds := tm.Int("seconds", -1)
	require.Positive(t, seconds)

	// the digest must be signed with the seconds that went on the wire
	want, err := Digest("6aa06d87-a18c-44ca-a9a6-81792c4cfbe0", "0a0b0c0d", uint64(seconds))
	require.NoError(t, err)
	assert.Equal(t, want, params.Str("hmacDigest", ""))
}

func TestEncodeAuthBadSecret(t *testing.T) {
	_, err := EncodeRequest(codec.JSON(), 1, &AuthRequest{KeyID: "k", KeySecret: "zz"})
	if err == nil {
		t.Fatal("expected an error for a non-hex secret")
	}
}

func TestEncodePlaceOrder(t *testing.T) {
	c := encode(t, 7, &PlaceOrderRequest{
		InstrumentID: 2,
		Price:        model.NewNumber(10003, -2),
		Side:         enum.OrderSideBuy,
		Quantity:     10,
		Type:         enum.OrderTypeLimit,
		TimeInForce:  enum.OrderTimeInForceGTC,
	})

	data := methodData(t, c)
	assert.Equal(t, MethodPlaceOrder, data.Str("method", ""))

	params, ok := data.Object("params")
	require.True(t, ok)
	assert.Equal(t, int64(2), params.Int("instrument", -1))
	assert.Equal(t, int64(10), params.Int("size", -1))
	assert.Equal(t, "LIMIT", params.Str("type", ""))
	assert.Equal(t, "BUY", params.Str("side", ""))
	assert.Equal(t, "GTC", params.Str("timeInForce", ""))

	price, ok := params.Object("price")
	require.True(t, ok)
	assert.Equal(t, int64(10003), price.Int("mantissa", 0))
	assert.Equal(t, int64(-2), price.Int("exponent", 1))
}

func TestEncodeReplaceOrder(t *testing.T) {
	c := encode(t, 8, &ReplaceOrderRequest{
		OrderID:  514065163585,
		Price:    model.NewNumber(10004, -2),
		Quantity: 6,
	})

	data := methodData(t, c)
	assert.Equal(t, MethodReplaceOrder, data.Str("method", ""))

	params, ok := data.Object("params")
	require.True(t, ok)
	assert.Equal(t, int64(514065163585), params.Int("orderId", -1))
	assert.Equal(t, int64(6), params.Int("size", -1))
}

func TestEncodeCancelOrder(t *testing.T) {
	c := encode(t, 9, &CancelOrderRequest{OrderID: 514065163585})

	data := methodData(t, c)
	assert.Equal(t, MethodCancelOrder, data.Str("method", ""))

	// cancel params is the bare order id, not an object
	assert.Equal(t, int64(514065163585), data.Int("params", -1))
}

func TestMethodNames(t *testing.T) {
	assert.Equal(t, MethodAuth, (&AuthRequest{}).MethodName())
	assert.Equal(t, MethodPlaceOrder, (&PlaceOrderRequest{}).MethodName())
	assert.Equal(t, MethodReplaceOrder, (&ReplaceOrderRequest{}).MethodName())
	assert.Equal(t, MethodCancelOrder, (&CancelOrderRequest{}).MethodName())
	assert.Empty(t, (&SubscribeRequest{}).MethodName())
	assert.Empty(t, (&UnsubscribeRequest{}).MethodName())
}
