package matching

import (
	"github.com/cryptonstudio/ladder-matching-engine/types/list"
)

// PriceLevelL2 contains price, total volume and amount of orders of a price level.
type PriceLevelL2 struct {
	Price  Uint
	Volume uint64
	Orders int
}

// PriceLevel contains total volume of the level and encapsulates order queue management.
// Orders are queued in arrival order, queue links are stored in the orders themselves.
// NOTE: Not thread-safe.
type PriceLevel struct {
	volume uint64
	queue  list.List[Ref]
}

// Volume returns total orders volume.
func (pl *PriceLevel) Volume() uint64 {
	return pl.volume
}

// Orders returns amount of orders in the queue.
func (pl *PriceLevel) Orders() int {
	return pl.queue.Len()
}

// IsEmpty returns true if there are no orders in the queue.
func (pl *PriceLevel) IsEmpty() bool {
	return pl.queue.IsEmpty()
}

// Front returns the oldest order of the queue.
func (pl *PriceLevel) Front() Ref {
	return pl.queue.Front()
}

////////////////////////////////////////////////////////////////
// Ladder
////////////////////////////////////////////////////////////////

// ladder is a fixed array of price levels of a single side with best level cursor.
// Bids are better when index is higher, asks are better when index is lower.
type ladder struct {
	side   OrderSide
	levels []PriceLevel
	best   int // -1 if there are no orders
	volume uint64
}

func newLadder(side OrderSide, levels int) ladder {
	return ladder{
		side:   side,
		levels: make([]PriceLevel, levels),
		best:   -1,
	}
}

// better returns true if price level a is strictly better than price level b.
func (l *ladder) better(a, b int) bool {
	if l.side == OrderSideBuy {
		return a > b
	}
	return a < b
}

// crossedBy returns true if an opposite order at price level index can match the best level.
func (l *ladder) crossedBy(index int) bool {
	return l.best >= 0 && !l.better(index, l.best)
}

// push appends the order to the tail of its price level queue.
// Returns true if the price level was empty before.
func (l *ladder) push(a *Allocator, ref Ref) bool {
	order := a.Order(ref)
	level := &l.levels[order.level]
	created := level.queue.IsEmpty()
	_ = level.queue.PushBack(a, ref)
	level.volume += order.quantity
	l.volume += order.quantity
	if l.best < 0 || !l.better(l.best, int(order.level)) {
		l.best = int(order.level)
	}
	return created
}

// remove unlinks the order from its price level queue.
// Returns true if the price level became empty.
func (l *ladder) remove(a *Allocator, ref Ref) bool {
	order := a.Order(ref)
	level := &l.levels[order.level]
	_ = level.queue.Remove(a, ref)
	level.volume -= order.quantity
	l.volume -= order.quantity
	if !level.queue.IsEmpty() {
		return false
	}
	if int(order.level) == l.best {
		l.rescan()
	}
	return true
}

// reduce decreases quantity of the queued order keeping its position.
func (l *ladder) reduce(order *Order, quantity uint64) {
	order.quantity -= quantity
	l.levels[order.level].volume -= quantity
	l.volume -= quantity
}

// rescan moves the best cursor from the emptied best level toward the book interior.
func (l *ladder) rescan() {
	l.best = l.next(l.best)
}

// next returns the next non-empty price level after index in best-to-worst order or -1.
func (l *ladder) next(index int) int {
	if l.side == OrderSideBuy {
		for i := index - 1; i >= 0; i-- {
			if !l.levels[i].queue.IsEmpty() {
				return i
			}
		}
	} else {
		for i := index + 1; i < len(l.levels); i++ {
			if !l.levels[i].queue.IsEmpty() {
				return i
			}
		}
	}
	return -1
}
