package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/patrol-sim/patrol-sim/sim/trace"
)

// printTraceSummary prints the dispatch trace section. Nothing is printed when no
// attempt was recorded.
func printTraceSummary(w io.Writer, s *trace.TraceSummary) {
	if s == nil || s.TotalAttempts == 0 {
		return
	}
	fmt.Fprintln(w, "=== Dispatch Trace ===")
	fmt.Fprintf(w, "Dispatch Attempts    : %d\n", s.TotalAttempts)
	fmt.Fprintf(w, "Dispatched           : %d\n", s.DispatchedCount)
	fmt.Fprintf(w, "Rescheduled          : %d\n", s.RetriedCount)
	reasons := make([]string, 0, len(s.RetryReasons))
	for reason := range s.RetryReasons {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Fprintf(w, "  %-20s: %d\n", reason, s.RetryReasons[reason])
	}
	fmt.Fprintf(w, "Delayed Reports      : %d\n", s.DelayedReports)
	fmt.Fprintf(w, "Mean Wait            : %s\n", s.MeanWait)
	fmt.Fprintf(w, "Max Wait             : %s\n", s.MaxWait)
}
