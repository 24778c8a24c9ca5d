package generator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errors used by the package.
var (
	ErrInvalidConfig = errors.New("invalid generator config")
)

// Config describes instruction stream of a single symbol.
type Config struct {
	SymbolID     uint32
	Instructions int

	InitialID        uint64
	InitialTimestamp uint64

	// Prices are uniformly distributed in [MinPrice, MaxPrice] and rounded to PriceDecimals places.
	MinPrice      decimal.Decimal
	MaxPrice      decimal.Decimal
	PriceDecimals int32

	// Quantities are uniformly distributed in [MinQuantity, MaxQuantity] and multiplied by QuantityMultiplier.
	MinQuantity        uint64
	MaxQuantity        uint64
	QuantityMultiplier uint64

	// Relative weights of instruction types.
	AddWeight    int
	CancelWeight int
	EditWeight   int

	// StaleProbability is a probability of cancel/edit instruction to reference already removed order.
	StaleProbability float64

	Seed uint64
}

// DefaultConfig returns config of the reference instruction stream.
func DefaultConfig() Config {
	return Config{
		Instructions:       1_000_000,
		InitialID:          1000,
		InitialTimestamp:   1694778123456789,
		MinPrice:           decimal.NewFromInt(50),
		MaxPrice:           decimal.NewFromInt(500),
		PriceDecimals:      2,
		MinQuantity:        1,
		MaxQuantity:        100,
		QuantityMultiplier: 10,
		AddWeight:          60,
		CancelWeight:       20,
		EditWeight:         20,
		StaleProbability:   1.0 / 50_000_000,
	}
}

// Validate checks the config.
func (c Config) Validate() error {
	switch {
	case c.Instructions < 0:
		return fmt.Errorf("%w: negative instructions count", ErrInvalidConfig)
	case c.MinPrice.IsNegative() || c.MaxPrice.LessThan(c.MinPrice):
		return fmt.Errorf("%w: price range [%s, %s]", ErrInvalidConfig, c.MinPrice, c.MaxPrice)
	case c.PriceDecimals < 0 || c.PriceDecimals > 12:
		return fmt.Errorf("%w: price decimals %d", ErrInvalidConfig, c.PriceDecimals)
	case c.MinQuantity == 0 || c.MaxQuantity < c.MinQuantity || c.QuantityMultiplier == 0:
		return fmt.Errorf("%w: quantity range [%d, %d] x%d", ErrInvalidConfig, c.MinQuantity, c.MaxQuantity, c.QuantityMultiplier)
	case c.AddWeight <= 0 || c.CancelWeight < 0 || c.EditWeight < 0:
		return fmt.Errorf("%w: weights %d/%d/%d", ErrInvalidConfig, c.AddWeight, c.CancelWeight, c.EditWeight)
	case c.StaleProbability < 0 || c.StaleProbability > 1:
		return fmt.Errorf("%w: stale probability %f", ErrInvalidConfig, c.StaleProbability)
	}
	return nil
}
