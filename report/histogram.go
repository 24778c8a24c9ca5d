package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cryptonstudio/ladder-matching-engine/matching"
)

// DefaultBlockSize is amount of resting quantity drawn as a single bar block.
const DefaultBlockSize = 10_000_000

const (
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
	colorReset = "\033[0m"
	barBlock   = "▇"
)

// HistogramOptions configures histogram output.
type HistogramOptions struct {
	BlockSize uint64
	Color     bool // wrap bars in ANSI colors, green bids and red asks
}

// WriteHistogram writes resting quantity per price level of the order book.
// Asks are written from the worst to the best price, then bids from the best to the worst,
// so the spread is in the middle of the output.
func WriteHistogram(w io.Writer, orderBook *matching.OrderBook, options HistogramOptions) error {
	if options.BlockSize == 0 {
		options.BlockSize = DefaultBlockSize
	}
	bw := bufio.NewWriter(w)

	asks := orderBook.Depth(matching.OrderSideSell)
	fmt.Fprintf(bw, "Asks (%d levels):\n", len(asks))
	for i := len(asks) - 1; i >= 0; i-- {
		writeBar(bw, asks[i], options, colorRed)
	}
	bids := orderBook.Depth(matching.OrderSideBuy)
	fmt.Fprintf(bw, "Bids (%d levels):\n", len(bids))
	for _, level := range bids {
		writeBar(bw, level, options, colorGreen)
	}

	return bw.Flush()
}

// WriteHistograms writes histograms of all order books of the engine.
func WriteHistograms(w io.Writer, engine *matching.Engine, options HistogramOptions) error {
	if _, err := fmt.Fprint(w, "\n--- Final Order Book State ---\n"); err != nil {
		return err
	}
	for _, symbol := range engine.Symbols() {
		name := symbol.Name()
		if name == "" {
			name = "Unknown"
		}
		if _, err := fmt.Fprintf(w, "\n--- Ticker ID: %d (%s) ---\n", symbol.ID(), name); err != nil {
			return err
		}
		if err := WriteHistogram(w, engine.OrderBook(symbol.ID()), options); err != nil {
			return err
		}
	}
	return nil
}

func writeBar(w io.Writer, level matching.PriceLevelL2, options HistogramOptions, color string) {
	bar := strings.Repeat(barBlock, int(level.Volume/options.BlockSize))
	if options.Color {
		bar = color + bar + colorReset
	}
	fmt.Fprintf(w, "%s: %s\n", level.Price.ToFloatString(), bar)
}
