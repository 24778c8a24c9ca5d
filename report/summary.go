package report

import (
	"slices"
	"time"

	"gopkg.in/typ.v4"

	"github.com/cryptonstudio/ladder-matching-engine/runner"
)

// Summary contains totals of all shards.
type Summary struct {
	Instructions  int64
	Adds          int64
	Cancels       int64
	Edits         int64
	FailedCancels int64
	FailedEdits   int64
	RejectedAdds  int64

	// Shards run in parallel so the slowest one defines the elapsed time
	Elapsed time.Duration
}

// Summarize sums up results of all shards.
func Summarize(results []runner.Result) Summary {
	s := Summary{}
	for _, r := range results {
		s.Instructions += r.Instructions
		s.Adds += r.Adds
		s.Cancels += r.Cancels
		s.Edits += r.Edits
		s.FailedCancels += r.FailedCancels
		s.FailedEdits += r.FailedEdits
		s.RejectedAdds += r.RejectedAdds
		s.Elapsed = max(s.Elapsed, r.Elapsed)
	}
	return s
}

// Throughput returns amount of instructions processed per second.
func (s Summary) Throughput() float64 {
	if s.Instructions == 0 || s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Instructions) / s.Elapsed.Seconds()
}

// Latency returns average wall time per instruction.
func (s Summary) Latency() time.Duration {
	if s.Instructions == 0 {
		return 0
	}
	return s.Elapsed / time.Duration(s.Instructions)
}

// sortResults returns copy of results ordered by symbol id.
func sortResults(results []runner.Result) []runner.Result {
	sorted := slices.Clone(results)
	slices.SortStableFunc(sorted, func(a, b runner.Result) int {
		return typ.Compare(a.SymbolID, b.SymbolID)
	})
	return sorted
}
