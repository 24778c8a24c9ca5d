package matching

import (
	"fmt"

	"github.com/cryptonstudio/ladder-matching-engine/types/list"
)

// Order contains information about a resting limit order.
// Orders live inside slots of the order book Allocator and are addressed by Ref,
// links to neighbour orders of the same price level are stored in the order itself.
type Order struct {
	id        uint64
	timestamp uint64 // arrival time, priority is defined by the queue position only
	quantity  uint64 // rest quantity which is not matched yet
	price     Uint
	symbolID  uint32
	level     int32 // index of the price level in the ladder of the order side
	side      OrderSide

	// Links to the previous/next orders of the price level queue.
	links list.Links[Ref]
}

////////////////////////////////////////////////////////////////

// ID returns the order ID.
func (o *Order) ID() uint64 {
	return o.id
}

// SymbolID returns the symbol ID of the order.
func (o *Order) SymbolID() uint32 {
	return o.symbolID
}

// Timestamp returns the arrival timestamp of the order.
func (o *Order) Timestamp() uint64 {
	return o.timestamp
}

////////////////////////////////////////////////////////////////

// Side returns the order side.
func (o *Order) Side() OrderSide {
	return o.side
}

// IsBuy returns true if buy order.
func (o *Order) IsBuy() bool {
	return o.side == OrderSideBuy
}

// IsSell returns true if sell order.
func (o *Order) IsSell() bool {
	return o.side == OrderSideSell
}

////////////////////////////////////////////////////////////////

// Price returns the order price.
// The price is always aligned to the price ladder of the order book.
func (o *Order) Price() Uint {
	return o.price
}

// Quantity returns the rest quantity of the order.
func (o *Order) Quantity() uint64 {
	return o.quantity
}

// Level returns index of the price level where the order is queued.
func (o *Order) Level() int {
	return int(o.level)
}

func (o *Order) String() string {
	return fmt.Sprintf("Order{id: %d, symbol: %d, side: %s, price: %s, quantity: %d, timestamp: %d}",
		o.id, o.symbolID, o.side, o.price.ToFloatString(), o.quantity, o.timestamp)
}
