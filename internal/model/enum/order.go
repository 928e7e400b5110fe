package enum

// OrderSide buy, sell
type OrderSide uint8

const (
	_order_side_beg OrderSide = iota
	OrderSideBuy
	OrderSideSell
	_order_side_end
)

func (s OrderSide) IsAvailable() bool {
	return s > _order_side_beg && s < _order_side_end
}

func (s OrderSide) String() string {
	switch s {
	case OrderSideBuy:
		return "BUY"
	case OrderSideSell:
		return "SELL"
	default:
		return "N/A"
	}
}

func OrderSideFromName(name string) OrderSide {
	switch name {
	case "BUY":
		return OrderSideBuy
	case "SELL":
		return OrderSideSell
	default:
		return _order_side_beg
	}
}

// OrderType limit, post only
type OrderType uint8

const (
	_order_type_beg OrderType = iota
	OrderTypeLimit
	OrderTypePostOnly
	_order_type_end
)

func (t OrderType) IsAvailable() bool {
	return t > _order_type_beg && t < _order_type_end
}

func (t OrderType) String() string {
	switch t {
	case OrderTypeLimit:
		return "LIMIT"
	case OrderTypePostOnly:
		return "POST_ONLY"
	default:
		return "N/A"
	}
}

func OrderTypeFromName(name string) OrderType {
	switch name {
	case "LIMIT":
		return OrderTypeLimit
	case "POST_ONLY":
		return OrderTypePostOnly
	default:
		return _order_type_beg
	}
}

// OrderTimeInForce GTC, IOC, FOK
type OrderTimeInForce uint8

const (
	_order_time_in_force_beg OrderTimeInForce = iota
	OrderTimeInForceGTC
	OrderTimeInForceIOC
	OrderTimeInForceFOK
	_order_time_in_force_end
)

func (f OrderTimeInForce) IsAvailable() bool {
	return f > _order_time_in_force_beg && f < _order_time_in_force_end
}

func (f OrderTimeInForce) String() string {
	switch f {
	case OrderTimeInForceGTC:
		return "GTC"
	case OrderTimeInForceIOC:
		return "IOC"
	case OrderTimeInForceFOK:
		return "FOK"
	default:
		return "N/A"
	}
}

func OrderTimeInForceFromName(name string) OrderTimeInForce {
	switch name {
	case "GTC":
		return OrderTimeInForceGTC
	case "IOC":
		return OrderTimeInForceIOC
	case "FOK":
		return OrderTimeInForceFOK
	default:
		return _order_time_in_force_beg
	}
}

// OrderStatus new, partially filled, filled, cancelled
type OrderStatus uint8

const (
	_order_status_beg OrderStatus = iota
	OrderStatusNew
	OrderStatusPartiallyFilled
	OrderStatusFilled
	OrderStatusCancelled
	_order_status_end
)

func (s OrderStatus) IsAvailable() bool {
	return s > _order_status_beg && s < _order_status_end
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusNew:
		return "NEW"
	case OrderStatusPartiallyFilled:
		return "PARTIALLY_FILLED"
	case OrderStatusFilled:
		return "FILLED"
	case OrderStatusCancelled:
		return "CANCELLED"
	default:
		return "N/A"
	}
}

func OrderStatusFromName(name string) OrderStatus {
	switch name {
	case "NEW":
		return OrderStatusNew
	case "PARTIALLY_FILLED":
		return OrderStatusPartiallyFilled
	case "FILLED":
		return OrderStatusFilled
	case "CANCELLED":
		return OrderStatusCancelled
	default:
		return _order_status_beg
	}
}
