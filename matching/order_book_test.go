package matching_test

import (
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	matching "github.com/cryptonstudio/ladder-matching-engine/matching"
	mockmatching "github.com/cryptonstudio/ladder-matching-engine/matching/mocks"
)

const (
	buy  = matching.OrderSideBuy
	sell = matching.OrderSideSell
)

func p(t testing.TB, s string) matching.Uint {
	t.Helper()
	v, err := matching.NewUintFromFloatString(s)
	require.NoError(t, err, s)
	return v
}

// newOrderBook creates order book with ladder [50.0, 150.0] and 0.1 step.
func newOrderBook(t testing.TB, handler matching.Handler) *matching.OrderBook {
	t.Helper()
	limits := matching.NewLimits(p(t, "50"), p(t, "0.1"), 1001)
	return matching.NewOrderBook(
		matching.NewSymbol(0, "AAPL", limits),
		matching.Config{PoolChunkSize: 4, IndexCapacity: 4},
		handler,
	)
}

func levelIDs(ob *matching.OrderBook, side matching.OrderSide, price matching.Uint) []uint64 {
	ids := []uint64{}
	for _, order := range ob.LevelOrders(side, price) {
		ids = append(ids, order.ID())
	}
	return ids
}

func TestOrderBookScenarios(t *testing.T) {
	t.Run("A: sell crosses the best bid first", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 10, 1, 1))
		require.NoError(t, ob.ProcessOrder(buy, p(t, "99"), 5, 2, 2))
		require.NoError(t, ob.ProcessOrder(sell, p(t, "99"), 3, 3, 3))

		order1, ok := ob.Order(1)
		require.True(t, ok)
		require.Equal(t, uint64(7), order1.Quantity())
		order2, ok := ob.Order(2)
		require.True(t, ok)
		require.Equal(t, uint64(5), order2.Quantity())
		_, ok = ob.Order(3)
		require.False(t, ok)

		require.Equal(t, 2, ob.Size())
		require.Equal(t, uint64(12), ob.Volume(buy))
		require.Equal(t, uint64(0), ob.Volume(sell))
		require.NoError(t, ob.Validate())
	})

	t.Run("B: cancel twice", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(sell, p(t, "101"), 10, 1, 10))
		require.True(t, ob.CancelOrder(10))
		require.False(t, ob.CancelOrder(10))

		require.Empty(t, ob.LevelOrders(sell, p(t, "101")))
		require.Empty(t, ob.Depth(sell))
		require.Equal(t, -1, ob.BestAskLevel())
		require.Equal(t, uint64(0), ob.Volume(sell))
		require.NoError(t, ob.Validate())
	})

	t.Run("C: edit decrease keeps priority, increase requeues", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 5, 1, 20))
		require.True(t, ob.EditOrder(20, p(t, "100"), 3))
		order, ok := ob.Order(20)
		require.True(t, ok)
		require.Equal(t, uint64(3), order.Quantity())
		require.Equal(t, []uint64{20}, levelIDs(ob, buy, p(t, "100")))

		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 4, 2, 21))
		require.True(t, ob.EditOrder(20, p(t, "100"), 5))
		require.Equal(t, []uint64{21, 20}, levelIDs(ob, buy, p(t, "100")))
		order, ok = ob.Order(20)
		require.True(t, ok)
		require.Equal(t, uint64(5), order.Quantity())
		// original timestamp is kept by requeued order
		require.Equal(t, uint64(1), order.Timestamp())
		require.NoError(t, ob.Validate())
	})

	t.Run("D: unknown id", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 5, 1, 1))
		require.NoError(t, ob.ProcessOrder(sell, p(t, "101"), 5, 2, 2))
		bids, asks := ob.Depth(buy), ob.Depth(sell)

		require.False(t, ob.CancelOrder(999))
		require.False(t, ob.EditOrder(999, p(t, "100"), 1))

		require.Equal(t, 2, ob.Size())
		require.Equal(t, bids, ob.Depth(buy))
		require.Equal(t, asks, ob.Depth(sell))
	})
}

func TestOrderBookPriority(t *testing.T) {
	t.Run("fifo at the same price", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		for id := uint64(1); id <= 5; id++ {
			require.NoError(t, ob.ProcessOrder(sell, p(t, "100"), 2, id, id))
		}
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 5, 6, 6))

		// 1 and 2 are fully executed, 3 is partially executed and keeps its position
		require.Equal(t, []uint64{3, 4, 5}, levelIDs(ob, sell, p(t, "100")))
		order, _ := ob.Order(3)
		require.Equal(t, uint64(1), order.Quantity())
		require.NoError(t, ob.Validate())
	})

	t.Run("edit decrease keeps position between others", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		for id := uint64(1); id <= 3; id++ {
			require.NoError(t, ob.ProcessOrder(sell, p(t, "100"), 10, id, id))
		}
		require.True(t, ob.EditOrder(2, p(t, "100"), 10))
		require.True(t, ob.EditOrder(2, p(t, "100"), 4))
		require.Equal(t, []uint64{1, 2, 3}, levelIDs(ob, sell, p(t, "100")))

		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 14, 4, 4))
		require.Equal(t, []uint64{3}, levelIDs(ob, sell, p(t, "100")))
	})

	t.Run("edit price change requeues at the new level", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(buy, p(t, "99"), 1, 1, 1))
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 1, 2, 2))
		require.True(t, ob.EditOrder(2, p(t, "99"), 1))
		require.Equal(t, []uint64{1, 2}, levelIDs(ob, buy, p(t, "99")))
		require.Empty(t, levelIDs(ob, buy, p(t, "100")))
		best, ok := ob.BestBid()
		require.True(t, ok)
		require.Equal(t, "99", best.ToFloatString())
	})

	t.Run("edit into crossing price matches", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(sell, p(t, "101"), 5, 1, 1))
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 8, 2, 2))
		require.True(t, ob.EditOrder(2, p(t, "101"), 8))

		_, ok := ob.Order(1)
		require.False(t, ok)
		order, ok := ob.Order(2)
		require.True(t, ok)
		require.Equal(t, uint64(3), order.Quantity())
		require.Equal(t, "101", order.Price().ToFloatString())
		require.NoError(t, ob.Validate())
	})

	t.Run("edit to zero quantity cancels", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 5, 1, 1))
		require.True(t, ob.EditOrder(1, p(t, "100"), 0))
		require.True(t, ob.IsEmpty())
		require.False(t, ob.CancelOrder(1))
	})

	t.Run("edit out of range removes the order", func(t *testing.T) {
		ob := newOrderBook(t, nil)
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 5, 1, 1))
		require.True(t, ob.EditOrder(1, p(t, "500"), 5))
		require.True(t, ob.IsEmpty())
		require.NoError(t, ob.Validate())
	})
}

func TestOrderBookBestPrices(t *testing.T) {
	ob := newOrderBook(t, nil)
	_, ok := ob.BestBid()
	require.False(t, ok)
	_, ok = ob.BestAsk()
	require.False(t, ok)
	require.Equal(t, -1, ob.BestBidLevel())
	require.Equal(t, -1, ob.BestAskLevel())

	require.NoError(t, ob.ProcessOrder(buy, p(t, "98"), 1, 1, 1))
	require.NoError(t, ob.ProcessOrder(buy, p(t, "99.5"), 1, 2, 2))
	require.NoError(t, ob.ProcessOrder(buy, p(t, "97"), 1, 3, 3))
	require.NoError(t, ob.ProcessOrder(sell, p(t, "102"), 1, 4, 4))
	require.NoError(t, ob.ProcessOrder(sell, p(t, "101.5"), 1, 5, 5))

	best, _ := ob.BestBid()
	require.Equal(t, "99.5", best.ToFloatString())
	require.Equal(t, 495, ob.BestBidLevel())
	best, _ = ob.BestAsk()
	require.Equal(t, "101.5", best.ToFloatString())
	require.Equal(t, 515, ob.BestAskLevel())

	// contraction after the best level empties
	require.True(t, ob.CancelOrder(2))
	best, _ = ob.BestBid()
	require.Equal(t, "98", best.ToFloatString())
	require.True(t, ob.CancelOrder(1))
	best, _ = ob.BestBid()
	require.Equal(t, "97", best.ToFloatString())

	// sweep of the whole ask side
	require.NoError(t, ob.ProcessOrder(buy, p(t, "110"), 2, 6, 6))
	require.Equal(t, -1, ob.BestAskLevel())
	require.Equal(t, 0, len(ob.Depth(sell)))

	// nothing is left of the sweeping order
	require.Equal(t, 1, ob.Size())
	require.NoError(t, ob.Validate())
}

func TestOrderBookDepth(t *testing.T) {
	ob := newOrderBook(t, nil)
	require.NoError(t, ob.ProcessOrder(buy, p(t, "99"), 3, 1, 1))
	require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 2, 2, 2))
	require.NoError(t, ob.ProcessOrder(buy, p(t, "99"), 4, 3, 3))
	require.NoError(t, ob.ProcessOrder(sell, p(t, "102"), 1, 4, 4))
	require.NoError(t, ob.ProcessOrder(sell, p(t, "101"), 6, 5, 5))

	require.Equal(t, []matching.PriceLevelL2{
		{Price: p(t, "100"), Volume: 2, Orders: 1},
		{Price: p(t, "99"), Volume: 7, Orders: 2},
	}, ob.Depth(buy))
	require.Equal(t, []matching.PriceLevelL2{
		{Price: p(t, "101"), Volume: 6, Orders: 1},
		{Price: p(t, "102"), Volume: 1, Orders: 1},
	}, ob.Depth(sell))

	// early stop of the iteration
	levels := 0
	for range ob.Bids() {
		levels++
		break
	}
	require.Equal(t, 1, levels)
	for level := range ob.Asks() {
		require.Equal(t, "101", level.Price.ToFloatString())
		break
	}
}

func TestOrderBookRejects(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := mockmatching.NewMockHandler(ctrl)
	handler.EXPECT().OnAddOrder(gomock.Any(), gomock.Any()).Times(1)
	handler.EXPECT().OnAddPriceLevel(gomock.Any(), gomock.Any()).Times(1)
	handler.EXPECT().OnError(gomock.Any(), gomock.Any()).Times(5)

	ob := newOrderBook(t, handler)
	require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 5, 1, 1))
	bids := ob.Depth(buy)

	require.ErrorIs(t, ob.ProcessOrder(buy, p(t, "49.9"), 5, 2, 2), matching.ErrPriceOutOfRange)
	require.ErrorIs(t, ob.ProcessOrder(sell, p(t, "150.1"), 5, 3, 3), matching.ErrPriceOutOfRange)
	require.ErrorIs(t, ob.ProcessOrder(buy, p(t, "100"), 0, 4, 4), matching.ErrInvalidOrderQuantity)
	require.ErrorIs(t, ob.ProcessOrder(buy, p(t, "100"), 5, 5, 1), matching.ErrOrderDuplicate)
	require.ErrorIs(t, ob.ProcessOrder(0, p(t, "100"), 5, 6, 6), matching.ErrInvalidOrderSide)

	require.Equal(t, 1, ob.Size())
	require.Equal(t, bids, ob.Depth(buy))
	require.Empty(t, ob.Depth(sell))
}

func TestOrderBookPriceRounding(t *testing.T) {
	ob := newOrderBook(t, nil)
	require.NoError(t, ob.ProcessOrder(buy, p(t, "100.04"), 1, 1, 1))
	require.NoError(t, ob.ProcessOrder(buy, p(t, "99.96"), 1, 2, 2))
	require.Equal(t, []uint64{1, 2}, levelIDs(ob, buy, p(t, "100")))
	order, _ := ob.Order(2)
	require.Equal(t, "100", order.Price().ToFloatString())
}

func TestOrderBookHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("partial match", func(t *testing.T) {
		handler := mockmatching.NewMockHandler(ctrl)
		ob := newOrderBook(t, handler)

		gomock.InOrder(
			handler.EXPECT().OnAddOrder(ob, gomock.Any()),
			handler.EXPECT().OnAddPriceLevel(ob, gomock.Any()).Do(func(_ *matching.OrderBook, update matching.PriceLevelUpdate) {
				require.Equal(t, matching.PriceLevelUpdateKindAdd, update.Kind)
				require.Equal(t, buy, update.Side)
				require.Equal(t, uint64(10), update.Volume)
				require.True(t, update.Top)
			}),
			handler.EXPECT().OnExecuteTrade(ob, gomock.Any(), uint64(2), p(t, "100"), uint64(4)).Do(
				func(_ *matching.OrderBook, maker *matching.Order, _ uint64, _ matching.Uint, _ uint64) {
					// called before the maker quantity changes
					require.Equal(t, uint64(10), maker.Quantity())
				}),
			handler.EXPECT().OnUpdateOrder(ob, gomock.Any()),
			handler.EXPECT().OnUpdatePriceLevel(ob, gomock.Any()).Do(func(_ *matching.OrderBook, update matching.PriceLevelUpdate) {
				require.Equal(t, uint64(6), update.Volume)
			}),
		)

		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 10, 1, 1))
		require.NoError(t, ob.ProcessOrder(sell, p(t, "99"), 4, 2, 2))
	})

	t.Run("full match and rest", func(t *testing.T) {
		handler := mockmatching.NewMockHandler(ctrl)
		ob := newOrderBook(t, handler)

		handler.EXPECT().OnAddOrder(ob, gomock.Any()).Times(2)
		handler.EXPECT().OnAddPriceLevel(ob, gomock.Any()).Times(2)
		gomock.InOrder(
			handler.EXPECT().OnExecuteTrade(ob, gomock.Any(), uint64(2), p(t, "100"), uint64(3)),
			handler.EXPECT().OnDeleteOrder(ob, gomock.Any()).Do(func(_ *matching.OrderBook, order *matching.Order) {
				require.Equal(t, uint64(1), order.ID())
			}),
			handler.EXPECT().OnDeletePriceLevel(ob, gomock.Any()).Do(func(_ *matching.OrderBook, update matching.PriceLevelUpdate) {
				require.Equal(t, matching.PriceLevelUpdateKindDelete, update.Kind)
				require.True(t, update.Top)
			}),
		)

		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 3, 1, 1))
		require.NoError(t, ob.ProcessOrder(sell, p(t, "100"), 5, 2, 2))

		order, ok := ob.Order(2)
		require.True(t, ok)
		require.Equal(t, uint64(2), order.Quantity())
	})

	t.Run("update ids are increasing", func(t *testing.T) {
		var ids []uint64
		handler := mockmatching.NewMockHandler(ctrl)
		record := func(_ *matching.OrderBook, update matching.PriceLevelUpdate) {
			ids = append(ids, update.ID)
		}
		handler.EXPECT().OnAddOrder(gomock.Any(), gomock.Any()).AnyTimes()
		handler.EXPECT().OnDeleteOrder(gomock.Any(), gomock.Any()).AnyTimes()
		handler.EXPECT().OnAddPriceLevel(gomock.Any(), gomock.Any()).Do(record).AnyTimes()
		handler.EXPECT().OnUpdatePriceLevel(gomock.Any(), gomock.Any()).Do(record).AnyTimes()
		handler.EXPECT().OnDeletePriceLevel(gomock.Any(), gomock.Any()).Do(record).AnyTimes()

		ob := newOrderBook(t, handler)
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 3, 1, 1))
		require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 3, 2, 2))
		require.True(t, ob.CancelOrder(1))
		require.True(t, ob.CancelOrder(2))
		require.Equal(t, []uint64{1, 2, 3, 4}, ids)
	})
}

func TestOrderBookAllocatorReuse(t *testing.T) {
	ob := newOrderBook(t, nil)
	for round := uint64(0); round < 10; round++ {
		for i := uint64(0); i < 10; i++ {
			require.NoError(t, ob.ProcessOrder(buy, p(t, "100"), 1, i, round*10+i))
		}
		require.NoError(t, ob.ProcessOrder(sell, p(t, "100"), 10, round, 1_000+round))
		require.True(t, ob.IsEmpty())
	}
	// slots of executed orders are reused, chunks are allocated for the first round only
	require.Equal(t, 3, ob.Allocator().Chunks())
	require.Equal(t, 0, ob.Allocator().InUse())
}

func BenchmarkOrderBookAddCancel(b *testing.B) {
	ob := newOrderBook(b, nil)
	prices := []matching.Uint{p(b, "99"), p(b, "99.5"), p(b, "100"), p(b, "100.5")}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := uint64(i)
		_ = ob.ProcessOrder(buy, prices[i&3], 10, id, id)
		if i >= 64 {
			ob.CancelOrder(id - 64)
		}
	}
}

func BenchmarkOrderBookMatch(b *testing.B) {
	ob := newOrderBook(b, nil)
	price := p(b, "100")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		side := buy
		if i&1 == 1 {
			side = sell
		}
		_ = ob.ProcessOrder(side, price, 10, uint64(i), uint64(i))
	}
}

func BenchmarkOrderBookEdit(b *testing.B) {
	ob := newOrderBook(b, nil)
	for id := uint64(0); id < 64; id++ {
		_ = ob.ProcessOrder(buy, p(b, "100"), 1_000_000, id, id)
	}
	prices := []matching.Uint{p(b, "100"), p(b, "99")}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ob.EditOrder(uint64(i&63), prices[(i>>6)&1], uint64(1_000_000-i&1023))
	}
}
