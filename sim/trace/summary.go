package trace

import "time"

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAttempts   int
	DispatchedCount int
	RetriedCount    int
	RetryReasons    map[string]int // reason → count of rescheduled attempts
	DelayedReports  int            // reports with at least one rescheduled attempt
	MeanWait        time.Duration  // report to successful dispatch
	MaxWait         time.Duration
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		RetryReasons: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAttempts = len(st.Dispatches)
	delayed := make(map[int]bool)
	var totalWait time.Duration
	for _, d := range st.Dispatches {
		if !d.Dispatched {
			summary.RetriedCount++
			summary.RetryReasons[d.Reason]++
			delayed[d.ReportID] = true
			continue
		}
		summary.DispatchedCount++
		wait := d.waited()
		totalWait += wait
		if wait > summary.MaxWait {
			summary.MaxWait = wait
		}
	}
	if summary.DispatchedCount > 0 {
		summary.MeanWait = totalWait / time.Duration(summary.DispatchedCount)
	}
	summary.DelayedReports = len(delayed)

	return summary
}
