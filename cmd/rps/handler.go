package main

import (
	"fmt"
	"sync/atomic"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
)

// Matcher counts trades and errors only, order book changes are ignored.
type Matcher struct {
	matching.NopHandler

	trades         uint64
	tradedQuantity uint64
	errors         uint64
}

func (m *Matcher) OnExecuteTrade(orderBook *matching.OrderBook, makerOrder *matching.Order, takerOrderID uint64, price matching.Uint, quantity uint64) {
	atomic.AddUint64(&m.trades, 1)
	atomic.AddUint64(&m.tradedQuantity, quantity)
}

func (m *Matcher) OnError(orderBook *matching.OrderBook, err error) {
	atomic.AddUint64(&m.errors, 1)
}

func (m *Matcher) PrintStatistics() {
	fmt.Printf("MATCHING ENGINE HANDLER:\n")
	fmt.Printf("Executed trades %13d\n", atomic.LoadUint64(&m.trades))
	fmt.Printf("Traded quantity %13d\n", atomic.LoadUint64(&m.tradedQuantity))
	fmt.Printf("Errors %22d\n", atomic.LoadUint64(&m.errors))
}
