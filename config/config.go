package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/cryptonstudio/ladder-matching-engine/generator"
	"github.com/cryptonstudio/ladder-matching-engine/matching"
	"github.com/cryptonstudio/ladder-matching-engine/providers/feed"
)

// EnvPrefix is a prefix of environment variables overriding config values, e.g. LADDER_ENGINE_POOL_CHUNK_SIZE.
const EnvPrefix = "LADDER"

// Errors used by the package.
var (
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the configuration of all commands.
type Config struct {
	DataDir     string          `mapstructure:"data_dir"`
	Engine      EngineConfig    `mapstructure:"engine"`
	Instruments []Instrument    `mapstructure:"instruments"`
	Generator   GeneratorConfig `mapstructure:"generator"`
	Report      ReportConfig    `mapstructure:"report"`
	Log         LogConfig       `mapstructure:"log"`
	Metrics     MetricsConfig   `mapstructure:"metrics"`
}

// LadderConfig describes a price ladder with decimal strings.
type LadderConfig struct {
	MinPrice string `mapstructure:"min_price"`
	TickSize string `mapstructure:"tick_size"`
	Levels   int    `mapstructure:"levels"`
}

type EngineConfig struct {
	// Ladder is used by instruments without own ladder settings
	Ladder        LadderConfig `mapstructure:"ladder"`
	PoolChunkSize int          `mapstructure:"pool_chunk_size"`
	IndexCapacity int          `mapstructure:"index_capacity"`

	// Sharder channels
	BatchSize  int `mapstructure:"batch_size"`
	BufferSize int `mapstructure:"buffer_size"`
}

// Instrument is a traded instrument, empty ladder fields are taken from the engine ladder.
type Instrument struct {
	Name     string `mapstructure:"name"`
	MinPrice string `mapstructure:"min_price"`
	TickSize string `mapstructure:"tick_size"`
	Levels   int    `mapstructure:"levels"`
}

type GeneratorConfig struct {
	Instructions       int     `mapstructure:"instructions"`
	InitialID          uint64  `mapstructure:"initial_id"`
	InitialTimestamp   uint64  `mapstructure:"initial_timestamp"`
	MinPrice           string  `mapstructure:"min_price"`
	MaxPrice           string  `mapstructure:"max_price"`
	PriceDecimals      int32   `mapstructure:"price_decimals"`
	MinQuantity        uint64  `mapstructure:"min_quantity"`
	MaxQuantity        uint64  `mapstructure:"max_quantity"`
	QuantityMultiplier uint64  `mapstructure:"quantity_multiplier"`
	AddWeight          int     `mapstructure:"add_weight"`
	CancelWeight       int     `mapstructure:"cancel_weight"`
	EditWeight         int     `mapstructure:"edit_weight"`
	StaleProbability   float64 `mapstructure:"stale_probability"`
	Seed               uint64  `mapstructure:"seed"`
}

type ReportConfig struct {
	Histogram bool   `mapstructure:"histogram"`
	BlockSize uint64 `mapstructure:"block_size"`
	Color     bool   `mapstructure:"color"`
}

type LogConfig struct {
	Production bool   `mapstructure:"production"`
	Level      string `mapstructure:"level"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// Load reads config from the file (if path is not empty) and environment variables on top of defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that every section of the config could be converted.
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("%w: no instruments", ErrInvalidConfig)
	}
	seen := make(map[string]struct{}, len(c.Instruments))
	for _, instrument := range c.Instruments {
		if instrument.Name == "" {
			return fmt.Errorf("%w: instrument without name", ErrInvalidConfig)
		}
		if _, ok := seen[instrument.Name]; ok {
			return fmt.Errorf("%w: duplicated instrument %s", ErrInvalidConfig, instrument.Name)
		}
		seen[instrument.Name] = struct{}{}
	}
	if c.Engine.BatchSize < 0 || c.Engine.BufferSize < 0 {
		return fmt.Errorf("%w: negative sharder batch or buffer size", ErrInvalidConfig)
	}
	if _, err := c.EngineConfig(); err != nil {
		return err
	}
	if _, err := c.GeneratorConfig(0); err != nil {
		return err
	}
	return nil
}

// Names returns instrument names in the order of symbol ids.
func (c *Config) Names() []string {
	names := make([]string, len(c.Instruments))
	for i, instrument := range c.Instruments {
		names[i] = instrument.Name
	}
	return names
}

// Directory returns instrument directory used by instruction streams.
func (c *Config) Directory() *feed.Directory {
	return feed.NewDirectory(c.Names()...)
}

// EngineConfig converts the config into matching engine config.
// Symbol ids are assigned in the order of instruments starting from zero.
func (c *Config) EngineConfig() (matching.Config, error) {
	config := matching.Config{
		Symbols:       make([]matching.Symbol, 0, len(c.Instruments)),
		PoolChunkSize: c.Engine.PoolChunkSize,
		IndexCapacity: c.Engine.IndexCapacity,
	}
	for i, instrument := range c.Instruments {
		ladder := c.Engine.Ladder
		if instrument.MinPrice != "" {
			ladder.MinPrice = instrument.MinPrice
		}
		if instrument.TickSize != "" {
			ladder.TickSize = instrument.TickSize
		}
		if instrument.Levels != 0 {
			ladder.Levels = instrument.Levels
		}
		limits, err := ladder.Limits()
		if err != nil {
			return matching.Config{}, fmt.Errorf("instrument %s: %w", instrument.Name, err)
		}
		config.Symbols = append(config.Symbols, matching.NewSymbol(uint32(i), instrument.Name, limits))
	}
	if err := config.Validate(); err != nil {
		return matching.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return config, nil
}

// Limits converts the ladder into order book limits.
func (l LadderConfig) Limits() (matching.Limits, error) {
	minPrice, err := matching.ParseUintBytes([]byte(l.MinPrice))
	if err != nil {
		return matching.Limits{}, fmt.Errorf("%w: min price %q", ErrInvalidConfig, l.MinPrice)
	}
	step, err := matching.ParseUintBytes([]byte(l.TickSize))
	if err != nil || step.IsZero() {
		return matching.Limits{}, fmt.Errorf("%w: tick size %q", ErrInvalidConfig, l.TickSize)
	}
	if l.Levels <= 0 {
		return matching.Limits{}, fmt.Errorf("%w: levels %d", ErrInvalidConfig, l.Levels)
	}
	return matching.NewLimits(minPrice, step, l.Levels), nil
}

// GeneratorConfig returns generator config of the instrument with given symbol id.
// Every instrument gets its own random stream derived from the configured seed.
func (c *Config) GeneratorConfig(symbolID uint32) (generator.Config, error) {
	g := c.Generator
	minPrice, err := decimal.NewFromString(g.MinPrice)
	if err != nil {
		return generator.Config{}, fmt.Errorf("%w: generator min price %q", ErrInvalidConfig, g.MinPrice)
	}
	maxPrice, err := decimal.NewFromString(g.MaxPrice)
	if err != nil {
		return generator.Config{}, fmt.Errorf("%w: generator max price %q", ErrInvalidConfig, g.MaxPrice)
	}
	config := generator.Config{
		SymbolID:           symbolID,
		Instructions:       g.Instructions,
		InitialID:          g.InitialID,
		InitialTimestamp:   g.InitialTimestamp,
		MinPrice:           minPrice,
		MaxPrice:           maxPrice,
		PriceDecimals:      g.PriceDecimals,
		MinQuantity:        g.MinQuantity,
		MaxQuantity:        g.MaxQuantity,
		QuantityMultiplier: g.QuantityMultiplier,
		AddWeight:          g.AddWeight,
		CancelWeight:       g.CancelWeight,
		EditWeight:         g.EditWeight,
		StaleProbability:   g.StaleProbability,
		Seed:               g.Seed,
	}
	if err := config.Validate(); err != nil {
		return generator.Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return config, nil
}
