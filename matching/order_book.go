package matching

import (
	"fmt"
	"iter"
)

// Order book is used to store buy and sell orders in a price level order.
// Price levels of each side form a fixed ladder described by the symbol limits,
// orders are stored in the order book own allocator and found by id with the order index.
// NOTE: Not thread-safe.
type OrderBook struct {
	handler Handler

	// Order book symbol
	symbol Symbol

	// Allocator used by the order book
	allocator *Allocator

	// Orders storage is internal for each order book
	orders *OrderIndex

	// Bid/Ask price levels
	bids ladder
	asks ladder

	// Last used update ID
	lastUpdateID uint64
}

// NewOrderBook creates and returns new OrderBook instance.
func NewOrderBook(symbol Symbol, config Config, handler Handler) *OrderBook {
	config = config.withDefaults()
	if handler == nil {
		handler = NopHandler{}
	}
	levels := symbol.limits.Levels()
	return &OrderBook{
		handler:   handler,
		symbol:    symbol,
		allocator: NewAllocator(config.PoolChunkSize),
		orders:    NewOrderIndex(config.IndexCapacity),
		bids:      newLadder(OrderSideBuy, levels),
		asks:      newLadder(OrderSideSell, levels),
	}
}

////////////////////////////////////////////////////////////////
// Order book symbol
////////////////////////////////////////////////////////////////

// Symbol returns order book symbol.
func (ob *OrderBook) Symbol() Symbol {
	return ob.symbol
}

// setName is used by the engine to rename the symbol, it has no effect on matching.
func (ob *OrderBook) setName(name string) {
	ob.symbol.name = name
}

////////////////////////////////////////////////////////////////
// Orders management
////////////////////////////////////////////////////////////////

// ProcessOrder matches new limit order against resting orders of the opposite side
// and queues its rest quantity at the order price level.
// Orders priced outside of the ladder are rejected without any effect on the order book.
func (ob *OrderBook) ProcessOrder(side OrderSide, price Uint, quantity uint64, timestamp uint64, id uint64) error {
	if err := ob.processOrder(side, price, quantity, timestamp, id); err != nil {
		ob.handler.OnError(ob, err)
		return err
	}
	return nil
}

// CancelOrder removes the order from the order book.
// Returns false if there is no order with given id.
func (ob *OrderBook) CancelOrder(id uint64) bool {
	ref, ok := ob.orders.Find(id)
	if !ok {
		return false
	}
	ob.deleteOrder(ref)
	return true
}

// EditOrder modifies price and quantity of the order.
// Decreasing quantity at the same price keeps the order position in the queue,
// otherwise the order is canceled and processed again with the same id, side and timestamp.
// Zero quantity cancels the order. Returns false if there is no order with given id.
func (ob *OrderBook) EditOrder(id uint64, price Uint, quantity uint64) bool {
	ref, ok := ob.orders.Find(id)
	if !ok {
		return false
	}

	if quantity == 0 {
		ob.deleteOrder(ref)
		return true
	}

	order := ob.allocator.Order(ref)
	if index, ok := ob.symbol.limits.Index(price); ok && index == int(order.level) && quantity <= order.quantity {
		if quantity < order.quantity {
			l := ob.ladder(order.side)
			l.reduce(order, order.quantity-quantity)
			ob.handler.OnUpdateOrder(ob, order)
			ob.notifyPriceLevel(l, index, PriceLevelUpdateKindUpdate)
		}
		return true
	}

	side, timestamp := order.side, order.timestamp
	ob.deleteOrder(ref)
	if err := ob.processOrder(side, price, quantity, timestamp, id); err != nil {
		// the order is canceled anyway
		ob.handler.OnError(ob, err)
	}
	return true
}

func (ob *OrderBook) processOrder(side OrderSide, price Uint, quantity uint64, timestamp uint64, id uint64) error {
	if !side.Valid() {
		return ErrInvalidOrderSide
	}
	if quantity == 0 {
		return ErrInvalidOrderQuantity
	}
	index, ok := ob.symbol.limits.Index(price)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPriceOutOfRange, price.ToFloatString())
	}
	if _, ok := ob.orders.Find(id); ok {
		return fmt.Errorf("%w: %d", ErrOrderDuplicate, id)
	}

	quantity = ob.match(side, index, quantity, id)
	if quantity == 0 {
		return nil
	}

	ob.addOrder(Order{
		id:        id,
		timestamp: timestamp,
		quantity:  quantity,
		price:     ob.symbol.limits.Price(index),
		symbolID:  ob.symbol.id,
		level:     int32(index),
		side:      side,
	})
	return nil
}

// match executes the taker order against the best price levels of the opposite side
// while they are crossed. Returns the rest quantity of the taker order.
func (ob *OrderBook) match(side OrderSide, index int, quantity uint64, takerID uint64) uint64 {
	opposite := ob.ladder(side.Opposite())
	for quantity > 0 && opposite.crossedBy(index) {
		makerRef := opposite.levels[opposite.best].Front()
		maker := ob.allocator.Order(makerRef)

		// Partially executed maker keeps its position
		if maker.quantity > quantity {
			ob.handler.OnExecuteTrade(ob, maker, takerID, maker.price, quantity)
			opposite.reduce(maker, quantity)
			ob.handler.OnUpdateOrder(ob, maker)
			ob.notifyPriceLevel(opposite, int(maker.level), PriceLevelUpdateKindUpdate)
			return 0
		}

		ob.handler.OnExecuteTrade(ob, maker, takerID, maker.price, maker.quantity)
		quantity -= maker.quantity
		ob.deleteOrder(makerRef)
	}
	return quantity
}

func (ob *OrderBook) addOrder(order Order) {
	ref := ob.allocator.Allocate(order)
	l := ob.ladder(order.side)
	created := l.push(ob.allocator, ref)
	ob.orders.Insert(order.id, ref)

	ob.handler.OnAddOrder(ob, ob.allocator.Order(ref))
	if created {
		ob.notifyPriceLevel(l, int(order.level), PriceLevelUpdateKindAdd)
	} else {
		ob.notifyPriceLevel(l, int(order.level), PriceLevelUpdateKindUpdate)
	}
}

func (ob *OrderBook) deleteOrder(ref Ref) {
	order := ob.allocator.Order(ref)
	l := ob.ladder(order.side)
	index := int(order.level)
	top := index == l.best

	ob.handler.OnDeleteOrder(ob, order)
	deleted := l.remove(ob.allocator, ref)
	ob.orders.Erase(order.id)
	if deleted {
		ob.lastUpdateID++
		ob.handler.OnDeletePriceLevel(ob, PriceLevelUpdate{
			ID:    ob.lastUpdateID,
			Kind:  PriceLevelUpdateKindDelete,
			Side:  l.side,
			Price: ob.symbol.limits.Price(index),
			Top:   top,
		})
	} else {
		ob.notifyPriceLevel(l, index, PriceLevelUpdateKindUpdate)
	}

	ob.allocator.Deallocate(ref)
}

func (ob *OrderBook) notifyPriceLevel(l *ladder, index int, kind PriceLevelUpdateKind) {
	level := &l.levels[index]
	ob.lastUpdateID++
	update := PriceLevelUpdate{
		ID:     ob.lastUpdateID,
		Kind:   kind,
		Side:   l.side,
		Price:  ob.symbol.limits.Price(index),
		Volume: level.volume,
		Orders: level.Orders(),
		Top:    index == l.best,
	}
	switch kind {
	case PriceLevelUpdateKindAdd:
		ob.handler.OnAddPriceLevel(ob, update)
	case PriceLevelUpdateKindUpdate:
		ob.handler.OnUpdatePriceLevel(ob, update)
	case PriceLevelUpdateKindDelete:
		ob.handler.OnDeletePriceLevel(ob, update)
	}
}

func (ob *OrderBook) ladder(side OrderSide) *ladder {
	if side == OrderSideBuy {
		return &ob.bids
	}
	return &ob.asks
}

////////////////////////////////////////////////////////////////
// Order book getters
////////////////////////////////////////////////////////////////

// IsEmpty returns true of the order book has no any orders.
func (ob *OrderBook) IsEmpty() bool {
	return ob.Size() == 0
}

// Size returns total amount of orders in the order book.
func (ob *OrderBook) Size() int {
	return ob.orders.Len()
}

// Order returns copy of the order with given id.
func (ob *OrderBook) Order(id uint64) (Order, bool) {
	ref, ok := ob.orders.Find(id)
	if !ok {
		return Order{}, false
	}
	return *ob.allocator.Order(ref), true
}

// Volume returns total rest quantity of all orders of the side.
func (ob *OrderBook) Volume(side OrderSide) uint64 {
	return ob.ladder(side).volume
}

// Allocator returns the order book allocator for statistics.
func (ob *OrderBook) Allocator() *Allocator {
	return ob.allocator
}

// Levels returns amount of price levels on each side of the order book.
func (ob *OrderBook) Levels() int {
	return len(ob.bids.levels)
}

////////////////////////////////////////////////////////////////
// Top price levels getters
////////////////////////////////////////////////////////////////

// BestBid returns the highest price of buy orders.
func (ob *OrderBook) BestBid() (Uint, bool) {
	if ob.bids.best < 0 {
		return Uint{}, false
	}
	return ob.symbol.limits.Price(ob.bids.best), true
}

// BestAsk returns the lowest price of sell orders.
func (ob *OrderBook) BestAsk() (Uint, bool) {
	if ob.asks.best < 0 {
		return Uint{}, false
	}
	return ob.symbol.limits.Price(ob.asks.best), true
}

// BestBidLevel returns index of the best bid price level or -1 if there are no buy orders.
func (ob *OrderBook) BestBidLevel() int {
	return ob.bids.best
}

// BestAskLevel returns index of the best ask price level or -1 if there are no sell orders.
func (ob *OrderBook) BestAskLevel() int {
	return ob.asks.best
}

////////////////////////////////////////////////////////////////
// Price levels getters
////////////////////////////////////////////////////////////////

// Bids iterates non-empty buy price levels from the best to the worst.
func (ob *OrderBook) Bids() iter.Seq[PriceLevelL2] {
	return ob.depth(&ob.bids)
}

// Asks iterates non-empty sell price levels from the best to the worst.
func (ob *OrderBook) Asks() iter.Seq[PriceLevelL2] {
	return ob.depth(&ob.asks)
}

// Depth returns all non-empty price levels of the side from the best to the worst.
func (ob *OrderBook) Depth(side OrderSide) []PriceLevelL2 {
	var levels []PriceLevelL2
	for level := range ob.depth(ob.ladder(side)) {
		levels = append(levels, level)
	}
	return levels
}

// LevelOrders returns copies of orders queued at the price level in the queue order.
func (ob *OrderBook) LevelOrders(side OrderSide, price Uint) []Order {
	index, ok := ob.symbol.limits.Index(price)
	if !ok {
		return nil
	}
	level := &ob.ladder(side).levels[index]
	orders := make([]Order, 0, level.Orders())
	for it := level.queue.Iterator(ob.allocator); it.Next(); {
		orders = append(orders, *ob.allocator.Order(it.Current()))
	}
	return orders
}

func (ob *OrderBook) depth(l *ladder) iter.Seq[PriceLevelL2] {
	return func(yield func(PriceLevelL2) bool) {
		for i := l.best; i >= 0; i = l.next(i) {
			level := &l.levels[i]
			if !yield(PriceLevelL2{
				Price:  ob.symbol.limits.Price(i),
				Volume: level.volume,
				Orders: level.Orders(),
			}) {
				return
			}
		}
	}
}

////////////////////////////////////////////////////////////////
// Consistency check
////////////////////////////////////////////////////////////////

// Validate walks through the whole order book and checks that price levels, best price cursors
// and the order index are consistent with each other.
func (ob *OrderBook) Validate() error {
	orders := 0
	for _, l := range []*ladder{&ob.bids, &ob.asks} {
		best := -1
		var volume uint64
		for i := range l.levels {
			level := &l.levels[i]
			count := 0
			var levelVolume uint64
			for it := level.queue.Iterator(ob.allocator); it.Next(); {
				order := ob.allocator.Order(it.Current())
				if order.side != l.side || int(order.level) != i || order.quantity == 0 {
					return fmt.Errorf("%w: %s level %d has invalid %s", ErrBrokenPriceLevel, l.side, i, order)
				}
				if ref, ok := ob.orders.Find(order.id); !ok || ref != it.Current() {
					return fmt.Errorf("%w: order %d is not indexed", ErrBrokenIndex, order.id)
				}
				count++
				levelVolume += order.quantity
			}
			if count != level.Orders() || levelVolume != level.volume {
				return fmt.Errorf("%w: %s level %d", ErrBrokenPriceLevel, l.side, i)
			}
			if count > 0 && (best < 0 || l.better(i, best)) {
				best = i
			}
			orders += count
			volume += levelVolume
		}
		if best != l.best {
			return fmt.Errorf("%w: %s best level %d, expected %d", ErrBrokenBestPrice, l.side, l.best, best)
		}
		if volume != l.volume {
			return fmt.Errorf("%w: %s volume %d, expected %d", ErrBrokenPriceLevel, l.side, l.volume, volume)
		}
	}

	if ob.bids.best >= 0 && ob.asks.best >= 0 && ob.bids.best >= ob.asks.best {
		return fmt.Errorf("%w: crossed book, bid level %d, ask level %d", ErrBrokenBestPrice, ob.bids.best, ob.asks.best)
	}
	if orders != ob.orders.Len() {
		return fmt.Errorf("%w: %d orders queued, %d indexed", ErrBrokenIndex, orders, ob.orders.Len())
	}
	return nil
}
