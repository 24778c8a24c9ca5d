package matching

// Engine routes instructions to order books by symbol id.
// Every order book is independent so different order books could be processed by different goroutines
// as long as order books are not added or deleted at the same time.
// NOTE: Not thread-safe for a single order book.
type Engine struct {
	handler Handler
	config  Config

	// Order books
	orderBooks      []*OrderBook
	orderBooksCount int
}

// NewEngine creates and returns new Engine instance with order books of all configured symbols.
func NewEngine(config Config, handler Handler) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		handler = NopHandler{}
	}

	e := &Engine{
		handler: handler,
		config:  config.withDefaults(),
	}
	for _, symbol := range config.Symbols {
		if _, err := e.AddOrderBook(symbol); err != nil {
			return nil, err
		}
	}
	return e, nil
}

////////////////////////////////////////////////////////////////
// Engine common
////////////////////////////////////////////////////////////////

// OrderBook returns the order book with given symbol id.
func (e *Engine) OrderBook(id uint32) *OrderBook {
	if int(id) >= len(e.orderBooks) {
		return nil
	}
	return e.orderBooks[id]
}

// OrderBooks returns total amount of currently existing order books.
func (e *Engine) OrderBooks() int {
	return e.orderBooksCount
}

// Orders returns total amount of currently existing orders.
func (e *Engine) Orders() int {
	orders := 0
	for i, c := 0, len(e.orderBooks); i < c; i++ {
		if e.orderBooks[i] != nil {
			orders += e.orderBooks[i].Size()
		}
	}
	return orders
}

// Symbols returns symbols of all existing order books ordered by id.
func (e *Engine) Symbols() []Symbol {
	symbols := make([]Symbol, 0, e.orderBooksCount)
	for i, c := 0, len(e.orderBooks); i < c; i++ {
		if e.orderBooks[i] != nil {
			symbols = append(symbols, e.orderBooks[i].symbol)
		}
	}
	return symbols
}

////////////////////////////////////////////////////////////////
// Order books management
////////////////////////////////////////////////////////////////

// AddOrderBook creates new order book and adds it to the engine.
func (e *Engine) AddOrderBook(symbol Symbol) (orderBook *OrderBook, err error) {
	if !symbol.Valid() {
		err = ErrInvalidSymbol
		return
	}

	// Ensure order books storage size
	if int(symbol.id) >= len(e.orderBooks) {
		newSize := max(len(e.orderBooks), 1)
		for newSize <= int(symbol.id) {
			newSize *= 2
		}
		newOrderBooks := make([]*OrderBook, newSize)
		copy(newOrderBooks, e.orderBooks)
		e.orderBooks = newOrderBooks
	}

	// Ensure order book does not exist
	if e.orderBooks[symbol.id] != nil {
		err = ErrOrderBookDuplicate
		return
	}

	orderBook = NewOrderBook(symbol, e.config, e.handler)
	e.orderBooks[symbol.id] = orderBook
	e.orderBooksCount++

	return
}

// DeleteOrderBook deletes order book from the engine.
func (e *Engine) DeleteOrderBook(id uint32) (orderBook *OrderBook, err error) {
	orderBook = e.OrderBook(id)
	if orderBook == nil {
		err = ErrOrderBookNotFound
		return
	}

	e.orderBooks[id] = nil
	e.orderBooksCount--

	return
}

// SetInstrumentName binds display name to the symbol, the name is used for reporting only.
func (e *Engine) SetInstrumentName(id uint32, name string) error {
	orderBook := e.OrderBook(id)
	if orderBook == nil {
		return ErrOrderBookNotFound
	}
	orderBook.setName(name)
	return nil
}

// InstrumentName returns display name of the symbol or empty string for unknown symbol.
func (e *Engine) InstrumentName(id uint32) string {
	orderBook := e.OrderBook(id)
	if orderBook == nil {
		return ""
	}
	return orderBook.symbol.name
}

////////////////////////////////////////////////////////////////
// Orders management
////////////////////////////////////////////////////////////////

// ProcessOrder forwards new limit order to the order book of the symbol.
func (e *Engine) ProcessOrder(symbolID uint32, side OrderSide, price Uint, quantity uint64, timestamp uint64, id uint64) error {
	orderBook := e.OrderBook(symbolID)
	if orderBook == nil {
		e.handler.OnError(nil, ErrOrderBookNotFound)
		return ErrOrderBookNotFound
	}
	return orderBook.ProcessOrder(side, price, quantity, timestamp, id)
}

// CancelOrder removes the order from the order book of the symbol.
// Returns false if there is no such order book or order.
func (e *Engine) CancelOrder(symbolID uint32, id uint64) bool {
	orderBook := e.OrderBook(symbolID)
	if orderBook == nil {
		return false
	}
	return orderBook.CancelOrder(id)
}

// EditOrder modifies the order in the order book of the symbol.
// Returns false if there is no such order book or order.
func (e *Engine) EditOrder(symbolID uint32, id uint64, price Uint, quantity uint64) bool {
	orderBook := e.OrderBook(symbolID)
	if orderBook == nil {
		return false
	}
	return orderBook.EditOrder(id, price, quantity)
}
