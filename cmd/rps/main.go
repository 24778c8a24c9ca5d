package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"strconv"
	"time"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
	"github.com/cryptonstudio/ladder-matching-engine/providers/feed"
	"github.com/cryptonstudio/ladder-matching-engine/report"
	"github.com/cryptonstudio/ladder-matching-engine/runner"
)

// nolint
func main() {
	var symCount, ordersCount int
	var norm, heavy bool
	flag.IntVar(&symCount, "s", 3, "Symbols count")
	flag.IntVar(&ordersCount, "i", 5_000_000, "Input instructions count")
	flag.BoolVar(&norm, "n", false, "Use normal distribution for price and quantity")
	flag.BoolVar(&heavy, "heavy", false, "Generate heavy sides for orderbook")
	flag.Parse()

	// Ladder [1, 100] with 0.01 step
	limits := matching.NewLimits(
		matching.NewUint(1).Mul64(matching.UintPrecision),
		matching.NewUint(1).Mul64(matching.UintPrecision).Div64(100),
		9901,
	)
	config := matching.Config{PoolChunkSize: 1 << 16}
	for i := range symCount {
		config.Symbols = append(config.Symbols, matching.NewSymbol(uint32(i), strconv.Itoa(i+1), limits))
	}

	handler := &Matcher{}
	engine, err := matching.NewEngine(config, handler)
	if err != nil {
		panic(err)
	}

	fmt.Println("prepare input")

	inp := generateInput(ordersCount, norm, heavy, symCount)

	fmt.Println("start execution")

	sharder := runner.NewSharder(engine, nil)
	if err := sharder.Start(context.Background()); err != nil {
		panic(err)
	}
	s := time.Now()
	for sym, instructions := range inp {
		// Batches of a symbol are dispatched in order by a single producer
		for len(instructions) > 0 {
			n := min(len(instructions), 1024)
			if err := sharder.Dispatch(context.Background(), uint32(sym), instructions[:n]); err != nil {
				panic(err)
			}
			instructions = instructions[n:]
		}
	}
	results, err := sharder.Stop()
	if err != nil {
		panic(err)
	}
	e := time.Now()

	if err := report.WriteTable(os.Stdout, results); err != nil {
		panic(err)
	}
	handler.PrintStatistics()

	rps := float64(ordersCount) * float64(time.Second) / float64(e.Sub(s))

	fmt.Printf("RPS: %.5f\n", rps)
}

func randomFloat(down, up float64, prec int, norm bool) float64 {
	var raw float64
	switch norm {
	case false:
		raw = rand.Float64()*(up-down) + down
	case true:
		std := (up - down) / (2.0 * 5) // range = [-5*std; +5*std]
		mean := (up + down) / 2.0
		raw = rand.NormFloat64()*std + mean
		// cut edges
		if raw < down {
			raw = down
		}
		if raw > up {
			raw = up
		}
	}
	pow := math.Pow10(prec)
	return math.Round(raw*pow) / pow
}

func randomChoice[T any](list []T) T {
	var empty T
	if len(list) == 0 {
		return empty
	}

	return list[rand.IntN(len(list))]
}

func randomPrice(down, up float64, norm bool) matching.Uint {
	price, _ := matching.NewUintFromFloatString(strconv.FormatFloat(randomFloat(down, up, 2, norm), 'f', 2, 64))
	return price
}

// generateInput returns instructions of every symbol, 60% adds, 20% cancels and 20% edits.
// Cancels and edits reference random previously added orders of the symbol.
func generateInput(count int, norm, heavy bool, symCount int) [][]feed.Instruction {
	inp := make([][]feed.Instruction, symCount)
	added := make([][]uint64, symCount)
	sides := []matching.OrderSide{matching.OrderSideBuy, matching.OrderSideSell}

	for i := range count {
		sym := rand.IntN(symCount)
		ins := feed.Instruction{
			ID:        uint64(i + 1),
			SymbolID:  uint32(sym),
			Side:      randomChoice(sides),
			Price:     randomPrice(1, 100, norm),
			Quantity:  uint64(randomFloat(1, 100, 0, norm)),
			Timestamp: uint64(i),
		}
		if heavy && i < count/2 {
			// buy below 50 and sell above 51, so nothing is matched until the second half
			switch ins.Side {
			case matching.OrderSideBuy:
				ins.Price = randomPrice(1, 50, norm)
			case matching.OrderSideSell:
				ins.Price = randomPrice(51, 100, norm)
			}
		}

		roll := rand.IntN(10)
		switch {
		case roll < 6 || len(added[sym]) == 0:
			ins.Type = feed.InstructionTypeAdd
			added[sym] = append(added[sym], ins.ID)
		case roll < 8:
			ins.Type = feed.InstructionTypeCancel
			ins.ID = randomChoice(added[sym])
		default:
			ins.Type = feed.InstructionTypeEdit
			ins.ID = randomChoice(added[sym])
		}

		inp[sym] = append(inp[sym], ins)
	}

	return inp
}
