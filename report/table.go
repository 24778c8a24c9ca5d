package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/cryptonstudio/ladder-matching-engine/runner"
)

const tableBorder = "+----------+------------+----------+----------+----------+----------------+----------------+---------------+----------+\n"

// WriteTable writes per instrument counters, totals and throughput summary.
func WriteTable(w io.Writer, results []runner.Result) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "\n", tableBorder)
	fmt.Fprint(bw, "|  TICKER  |   TOTAL    |   ADDs   | CANCELs  |  EDITs   | FAILED CANCELS |  FAILED EDITS  | REJECTED ADDS | TIME(ms) |\n")
	fmt.Fprint(bw, tableBorder)
	for _, r := range sortResults(results) {
		writeRow(bw, r.Name, r.Instructions, r.Adds, r.Cancels, r.Edits, r.FailedCancels, r.FailedEdits, r.RejectedAdds, milliseconds(r))
	}

	s := Summarize(results)
	fmt.Fprint(bw, tableBorder)
	writeRow(bw, "TOTAL", s.Instructions, s.Adds, s.Cancels, s.Edits, s.FailedCancels, s.FailedEdits, s.RejectedAdds,
		float64(s.Elapsed.Microseconds())/1000)
	fmt.Fprint(bw, tableBorder)

	fmt.Fprint(bw, "\nSummary:\n")
	fmt.Fprintf(bw, "  Instructions:      %s\n", humanize.Comma(s.Instructions))
	fmt.Fprintf(bw, "  Instructions/sec:  %.2f M/s\n", s.Throughput()/1e6)
	fmt.Fprintf(bw, "  Avg. Latency/Inst: %d ns\n", s.Latency().Nanoseconds())

	return bw.Flush()
}

func writeRow(w io.Writer, name string, total, adds, cancels, edits, failedCancels, failedEdits, rejectedAdds int64, ms float64) {
	if name == "" {
		name = "Unknown"
	}
	fmt.Fprintf(w, "| %-8s | %10d | %8d | %8d | %8d | %14d | %14d | %13d | %8.2f |\n",
		name, total, adds, cancels, edits, failedCancels, failedEdits, rejectedAdds, ms)
}

func milliseconds(r runner.Result) float64 {
	return float64(r.Elapsed.Microseconds()) / 1000
}
