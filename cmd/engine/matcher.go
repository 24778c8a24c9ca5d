package main

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
)

// Matcher counts matching engine notifications of all order books.
// Order books run in different goroutines so all counters are atomic.
type Matcher struct {
	priceLevelUpdates [3]uint64
	orderUpdates      [3]uint64
	trades            uint64
	tradedQuantity    uint64
	errors            uint64
	totalUpdates      uint64
}

var _ matching.Handler = &Matcher{}

func (m *Matcher) OnAddPriceLevel(orderBook *matching.OrderBook, update matching.PriceLevelUpdate) {
	atomic.AddUint64(&m.priceLevelUpdates[0], 1)
	atomic.AddUint64(&m.totalUpdates, 1)
}

func (m *Matcher) OnUpdatePriceLevel(orderBook *matching.OrderBook, update matching.PriceLevelUpdate) {
	atomic.AddUint64(&m.priceLevelUpdates[1], 1)
	atomic.AddUint64(&m.totalUpdates, 1)
}

func (m *Matcher) OnDeletePriceLevel(orderBook *matching.OrderBook, update matching.PriceLevelUpdate) {
	atomic.AddUint64(&m.priceLevelUpdates[2], 1)
	atomic.AddUint64(&m.totalUpdates, 1)
}

func (m *Matcher) OnAddOrder(orderBook *matching.OrderBook, order *matching.Order) {
	atomic.AddUint64(&m.orderUpdates[0], 1)
	atomic.AddUint64(&m.totalUpdates, 1)
}

func (m *Matcher) OnUpdateOrder(orderBook *matching.OrderBook, order *matching.Order) {
	atomic.AddUint64(&m.orderUpdates[1], 1)
	atomic.AddUint64(&m.totalUpdates, 1)
}

func (m *Matcher) OnDeleteOrder(orderBook *matching.OrderBook, order *matching.Order) {
	atomic.AddUint64(&m.orderUpdates[2], 1)
	atomic.AddUint64(&m.totalUpdates, 1)
}

func (m *Matcher) OnExecuteTrade(orderBook *matching.OrderBook, makerOrder *matching.Order, takerOrderID uint64, price matching.Uint, quantity uint64) {
	atomic.AddUint64(&m.trades, 1)
	atomic.AddUint64(&m.tradedQuantity, quantity)
	atomic.AddUint64(&m.totalUpdates, 1)
}

func (m *Matcher) OnError(orderBook *matching.OrderBook, err error) {
	atomic.AddUint64(&m.errors, 1)
}

func (m *Matcher) PrintStatistics(w io.Writer, elapsed time.Duration) {
	fmt.Fprintf(w, "MATCHING ENGINE HANDLER:\n")
	fmt.Fprintf(w, "Price level adds %12d\n", atomic.LoadUint64(&m.priceLevelUpdates[0]))
	fmt.Fprintf(w, "Price level updates %9d\n", atomic.LoadUint64(&m.priceLevelUpdates[1]))
	fmt.Fprintf(w, "Price level deletes %9d\n", atomic.LoadUint64(&m.priceLevelUpdates[2]))
	fmt.Fprintf(w, "Order adds %18d\n", atomic.LoadUint64(&m.orderUpdates[0]))
	fmt.Fprintf(w, "Order updates %15d\n", atomic.LoadUint64(&m.orderUpdates[1]))
	fmt.Fprintf(w, "Order deletes %15d\n", atomic.LoadUint64(&m.orderUpdates[2]))
	fmt.Fprintf(w, "Executed trades %13d\n", atomic.LoadUint64(&m.trades))
	fmt.Fprintf(w, "Traded quantity %13d\n", atomic.LoadUint64(&m.tradedQuantity))
	fmt.Fprintf(w, "Errors %22d\n", atomic.LoadUint64(&m.errors))
	fmt.Fprintf(w, "Total calls %17d\n", atomic.LoadUint64(&m.totalUpdates))
	if elapsed > 0 {
		fmt.Fprintf(w, "Calls per second %12.0f\n", float64(atomic.LoadUint64(&m.totalUpdates))/elapsed.Seconds())
	}
}
