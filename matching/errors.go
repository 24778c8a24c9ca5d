package matching

import (
	"errors"
)

// Errors used by the package.
var (
	ErrOrderBookDuplicate   = errors.New("order book is duplicated")
	ErrOrderBookNotFound    = errors.New("order book is not found")
	ErrOrderDuplicate       = errors.New("order is duplicated")
	ErrInvalidSymbol        = errors.New("invalid symbol")
	ErrInvalidOrderSide     = errors.New("invalid order side")
	ErrInvalidOrderQuantity = errors.New("invalid order quantity")
	ErrInvalidConfig        = errors.New("invalid config")
	ErrPriceOutOfRange      = errors.New("order price is out of price ladder range")

	// Consistency check failures reported by OrderBook.Validate
	ErrBrokenBestPrice  = errors.New("best price cursor does not point to the best price level")
	ErrBrokenPriceLevel = errors.New("price level aggregates do not match its orders")
	ErrBrokenIndex      = errors.New("order index does not match price levels")
)
