package matching

// Handler receives notifications about every order book change.
// Handlers are called synchronously from the goroutine processing the order book,
// orders passed to handlers must not be retained after the call.
//
//go:generate mockgen -destination=mocks/interfaces.go -package=mockmatching . Handler
type Handler interface {

	// Price level handlers
	OnAddPriceLevel(orderBook *OrderBook, update PriceLevelUpdate)
	OnUpdatePriceLevel(orderBook *OrderBook, update PriceLevelUpdate)
	OnDeletePriceLevel(orderBook *OrderBook, update PriceLevelUpdate)

	// Orders handlers
	// NOTE: OnDeleteOrder is called BEFORE the order slot is released.
	OnAddOrder(orderBook *OrderBook, order *Order)
	OnUpdateOrder(orderBook *OrderBook, order *Order)
	OnDeleteOrder(orderBook *OrderBook, order *Order)

	// Matching handlers
	// NOTE: Matching handlers are called BEFORE changing maker order's rest quantity.
	OnExecuteTrade(orderBook *OrderBook, makerOrder *Order, takerOrderID uint64, price Uint, quantity uint64)

	// Errors handler
	OnError(orderBook *OrderBook, err error)
}

////////////////////////////////////////////////////////////////

// NopHandler ignores all notifications.
type NopHandler struct{}

var _ Handler = NopHandler{}

func (NopHandler) OnAddPriceLevel(*OrderBook, PriceLevelUpdate) {}
func (NopHandler) OnUpdatePriceLevel(*OrderBook, PriceLevelUpdate) {}
func (NopHandler) OnDeletePriceLevel(*OrderBook, PriceLevelUpdate) {}
func (NopHandler) OnAddOrder(*OrderBook, *Order) {}
func (NopHandler) OnUpdateOrder(*OrderBook, *Order) {}
func (NopHandler) OnDeleteOrder(*OrderBook, *Order) {}
func (NopHandler) OnExecuteTrade(*OrderBook, *Order, uint64, Uint, uint64) {}
func (NopHandler) OnError(*OrderBook, error) {}
