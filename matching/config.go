package matching

import (
	"fmt"
)

// Config describes order books created by the engine.
type Config struct {
	// Symbols to create order books for, each symbol has its own price ladder.
	Symbols []Symbol

	// PoolChunkSize specifies amount of order slots allocated at once by every order book.
	PoolChunkSize int

	// IndexCapacity specifies initial capacity of the order index of every order book.
	IndexCapacity int
}

// DefaultConfig returns config with default price ladder for every given symbol name.
// Symbol ids are assigned in the order of names starting from zero.
func DefaultConfig(names ...string) Config {
	symbols := make([]Symbol, len(names))
	for i, name := range names {
		symbols[i] = NewSymbol(uint32(i), name, DefaultLimits())
	}
	return Config{
		Symbols:       symbols,
		PoolChunkSize: defaultPoolChunkSize,
		IndexCapacity: defaultIndexCapacity,
	}
}

// Validate checks all symbols of the config.
func (c Config) Validate() error {
	seen := make(map[uint32]struct{}, len(c.Symbols))
	for _, symbol := range c.Symbols {
		if !symbol.Valid() {
			return fmt.Errorf("%w: %d (%s)", ErrInvalidSymbol, symbol.id, symbol.name)
		}
		if _, ok := seen[symbol.id]; ok {
			return fmt.Errorf("%w: %d (%s)", ErrOrderBookDuplicate, symbol.id, symbol.name)
		}
		seen[symbol.id] = struct{}{}
	}
	if c.PoolChunkSize < 0 || c.IndexCapacity < 0 {
		return fmt.Errorf("%w: negative pool chunk size or index capacity", ErrInvalidConfig)
	}
	return nil
}

func (c Config) withDefaults() Config {
	if c.PoolChunkSize == 0 {
		c.PoolChunkSize = defaultPoolChunkSize
	}
	if c.IndexCapacity == 0 {
		c.IndexCapacity = defaultIndexCapacity
	}
	return c
}
