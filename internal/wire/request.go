package wire

import (
	"main/internal/codec"
	"main/internal/model"
	"main/internal/model/enum"
)

const (
	methodIDRequest     = 9
	methodIDSubscribe   = 1
	methodIDUnsubscribe = 2
)

// Method names the exchange keys request/response correlation on. The wire
// never echoes them back, which is why the pending-request table exists.
const (
	MethodAuth         = "loginSessionByApiToken"
	MethodPlaceOrder   = "placeOrder"
	MethodReplaceOrder = "replaceOrder"
	MethodCancelOrder  = "cancelOrder"
)

// Request is the closed set of outbound messages.
type Request interface {
	// MethodName is recorded in the pending table; empty for channel
	// subscription requests.
	MethodName() string

	methodID() int
	// encodeInto writes the method-level body ("method" and "params") into
	// the data object of a method-keyed envelope. Subscription requests do
	// not implement a body; their channel goes on the envelope itself.
	encodeInto(data codec.Codec) error
}

// EncodeRequest serializes the full envelope for a request that was assigned
// the given id. Envelope shape: {"method": <id>, "id": <n>, "params": ...};
// method-keyed requests nest {"method": <name>, "params": ...} under
// params.data, subscriptions carry {"channel": <name>} directly.
func EncodeRequest(c codec.Codec, id int64, req Request) ([]byte, error) {
	c.SetInt(int64(req.methodID()), "method")
	c.SetInt(id, "id")
	params := c.AddObject("params")

	switch r := req.(type) {
	case *SubscribeRequest:
		params.SetString(r.Channel.String(), "channel")
	case *UnsubscribeRequest:
		params.SetString(r.Channel.String(), "channel")
	default:
		if err := req.encodeInto(params.AddObject("data")); err != nil {
			return nil, err
		}
	}

	return c.Text()
}

func setNumber(c codec.Codec, n model.Number, name string) {
	obj := c.AddObject(name)
	obj.SetInt(n.Significand(), "mantissa")
	obj.SetInt(int64(n.Exponent()), "exponent")
}

// AuthRequest authenticates the session. Time and digest are computed at
// encode so a reconnect re-signs with fresh wall-clock seconds.
type AuthRequest struct {
	KeyID     string
	KeySecret string
}

func (r *AuthRequest) MethodName() string { return MethodAuth }
func (r *AuthRequest) methodID() int      { return methodIDRequest }

func (r *AuthRequest) encodeInto(data codec.Codec) error {
	data.SetString(MethodAuth, "method")
	params := data.AddObject("params")

	now := model.Now()
	t := params.AddObject("time")
	t.SetInt(int64(now.Seconds), "seconds")
	t.SetInt(int64(now.Nanoseconds), "nanos")

	params.SetString(r.KeyID, "apiKey")

	digest, err := Digest(r.KeyID, r.KeySecret, now.Seconds)
	if err != nil {
		return err
	}
	params.SetString(digest, "hmacDigest")
	return nil
}

// PlaceOrderRequest places a new limit order. Quantity, Price and IsReplace
// are mutated by the quoting engine after the request is sent; only the
// fields named in encodeInto ever reach the wire.
type PlaceOrderRequest struct {
	InstrumentID int
	Price        model.Number
	Side         enum.OrderSide
	Quantity     int
	Type         enum.OrderType
	TimeInForce  enum.OrderTimeInForce

	// IsReplace marks an order whose cancel was requested so that the
	// remaining quantity is re-placed at Price once the cancel confirms.
	IsReplace bool
}

func (r *PlaceOrderRequest) MethodName() string { return MethodPlaceOrder }
func (r *PlaceOrderRequest) methodID() int      { return methodIDRequest }

func (r *PlaceOrderRequest) encodeInto(data codec.Codec) error {
	data.SetString(MethodPlaceOrder, "method")
	params := data.AddObject("params")
	params.SetInt(int64(r.InstrumentID), "instrument")
	params.SetInt(int64(r.Quantity), "size")
	params.SetString(r.Type.String(), "type")
	params.SetString(r.Side.String(), "side")
	params.SetString(r.TimeInForce.String(), "timeInForce")
	setNumber(params, r.Price, "price")
	return nil
}

// ReplaceOrderRequest is the exchange's atomic replace. The quoting engine
// uses cancel-then-place instead; this request exists for completeness of
// the protocol surface.
type ReplaceOrderRequest struct {
	OrderID  int64
	Price    model.Number
	Quantity int
}

func (r *ReplaceOrderRequest) MethodName() string { return MethodReplaceOrder }
func (r *ReplaceOrderRequest) methodID() int      { return methodIDRequest }

func (r *ReplaceOrderRequest) encodeInto(data codec.Codec) error {
	data.SetString(MethodReplaceOrder, "method")
	params := data.AddObject("params")
	params.SetInt(r.OrderID, "orderId")
	setNumber(params, r.Price, "price")
	params.SetInt(int64(r.Quantity), "size")
	return nil
}

// CancelOrderRequest cancels a working order. Its params value is the bare
// order id, not an object.
type CancelOrderRequest struct {
	OrderID int64
}

func (r *CancelOrderRequest) MethodName() string { return MethodCancelOrder }
func (r *CancelOrderRequest) methodID() int      { return methodIDRequest }

func (r *CancelOrderRequest) encodeInto(data codec.Codec) error {
	data.SetString(MethodCancelOrder, "method")
	data.SetInt(r.OrderID, "params")
	return nil
}

// SubscribeRequest opens a channel subscription.
type SubscribeRequest struct {
	Channel enum.Channel
}

func (r *SubscribeRequest) MethodName() string                { return "" }
func (r *SubscribeRequest) methodID() int                     { return methodIDSubscribe }
func (r *SubscribeRequest) encodeInto(data codec.Codec) error { return nil }

// UnsubscribeRequest closes a channel subscription.
type UnsubscribeRequest struct {
	Channel enum.Channel
}

func (r *UnsubscribeRequest) MethodName() string                { return "" }
func (r *UnsubscribeRequest) methodID() int                     { return methodIDUnsubscribe }
func (r *UnsubscribeRequest) encodeInto(data codec.Codec) error { return nil }
