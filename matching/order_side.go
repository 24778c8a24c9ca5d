package matching

// OrderSide is an enumeration of possible trading sides (buy/sell).
type OrderSide uint8

const (
	// OrderSideBuy represents market side which includes only buy orders (bids).
	OrderSideBuy OrderSide = iota + 1
	// OrderSideSell represents market side which includes only sell orders (asks).
	OrderSideSell
)

// Valid returns true if the side is either buy or sell.
func (os OrderSide) Valid() bool {
	return os == OrderSideBuy || os == OrderSideSell
}

// Opposite returns the side orders of the given side are matched against.
func (os OrderSide) Opposite() OrderSide {
	switch os {
	case OrderSideBuy:
		return OrderSideSell
	case OrderSideSell:
		return OrderSideBuy
	default:
		return os
	}
}

func (os OrderSide) String() string {
	switch os {
	case OrderSideBuy:
		return "buy"
	case OrderSideSell:
		return "sell"
	default:
		return "unknown"
	}
}
