package generator

import (
	"math/rand/v2"

	"github.com/shopspring/decimal"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
	"github.com/cryptonstudio/ladder-matching-engine/providers/feed"
)

// record remembers an order added by the generator.
type record struct {
	id   uint64
	side matching.OrderSide
}

// Generator produces synthetic instruction stream of a single symbol.
// Ids and timestamps are increasing, cancel and edit instructions reference previously added orders.
// Generator does not know which orders were executed so some of them fail anyway.
// NOTE: Not thread-safe.
type Generator struct {
	config     Config
	rng        *rand.Rand
	priceRange decimal.Decimal

	active   []record
	inactive []record // canceled orders, used for stale instructions

	nextID    uint64
	generated int
}

// New creates and returns new Generator instance.
func New(config Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		config:     config,
		rng:        rand.New(rand.NewPCG(config.Seed, uint64(config.SymbolID))),
		priceRange: config.MaxPrice.Sub(config.MinPrice),
		nextID:     config.InitialID,
	}, nil
}

// Generated returns amount of generated instructions.
func (g *Generator) Generated() int {
	return g.generated
}

// Next generates the next instruction.
func (g *Generator) Next() feed.Instruction {
	ins := feed.Instruction{
		SymbolID:  g.config.SymbolID,
		Timestamp: g.config.InitialTimestamp + uint64(g.generated),
	}
	g.generated++

	roll := g.rng.IntN(g.config.AddWeight + g.config.CancelWeight + g.config.EditWeight)
	forceAdd := len(g.active) == 0

	switch {
	case !forceAdd && roll < g.config.CancelWeight:
		ins.Type = feed.InstructionTypeCancel
		var r record
		if g.stale() {
			r = g.inactive[g.rng.IntN(len(g.inactive))]
		} else {
			i := g.rng.IntN(len(g.active))
			r = g.active[i]
			g.inactive = append(g.inactive, r)
			g.active[i] = g.active[len(g.active)-1]
			g.active = g.active[:len(g.active)-1]
		}
		ins.ID, ins.Side = r.id, r.side

	case !forceAdd && roll < g.config.CancelWeight+g.config.EditWeight:
		ins.Type = feed.InstructionTypeEdit
		var r record
		if g.stale() {
			r = g.inactive[g.rng.IntN(len(g.inactive))]
		} else {
			r = g.active[g.rng.IntN(len(g.active))]
		}
		ins.ID, ins.Side = r.id, r.side
		ins.Price = g.price()
		ins.Quantity = g.quantity()

	default:
		ins.Type = feed.InstructionTypeAdd
		ins.ID = g.nextID
		g.nextID++
		ins.Side = matching.OrderSideBuy
		if g.rng.IntN(2) == 1 {
			ins.Side = matching.OrderSideSell
		}
		ins.Price = g.price()
		ins.Quantity = g.quantity()
		g.active = append(g.active, record{id: ins.ID, side: ins.Side})
	}

	return ins
}

// Generate writes all configured instructions.
func (g *Generator) Generate(w *feed.Writer) error {
	for g.generated < g.config.Instructions {
		if err := w.Write(g.Next()); err != nil {
			return err
		}
	}
	return w.Flush()
}

func (g *Generator) stale() bool {
	return len(g.inactive) > 0 && g.rng.Float64() < g.config.StaleProbability
}

func (g *Generator) price() matching.Uint {
	d := g.config.MinPrice.Add(g.priceRange.Mul(decimal.NewFromFloat(g.rng.Float64()))).Round(g.config.PriceDecimals)
	// decimal string is always a valid non-negative number
	price, _ := matching.NewUintFromFloatString(d.String())
	return price
}

func (g *Generator) quantity() uint64 {
	span := g.config.MaxQuantity - g.config.MinQuantity + 1
	return (g.config.MinQuantity + g.rng.Uint64N(span)) * g.config.QuantityMultiplier
}
