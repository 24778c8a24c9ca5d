package runner

import (
	"time"
)

// Result contains counters of instructions processed by a single shard.
type Result struct {
	SymbolID uint32
	Name     string

	Instructions int64
	Adds         int64
	Cancels      int64
	Edits        int64

	FailedCancels int64
	FailedEdits   int64
	RejectedAdds  int64

	// Elapsed is the time between the first and the last instruction of the shard.
	Elapsed time.Duration
}

// Failures returns total amount of instructions which had no effect on the order book.
func (r Result) Failures() int64 {
	return r.FailedCancels + r.FailedEdits + r.RejectedAdds
}
