// Package trace provides decision-trace recording for dispatch analysis.
// This package has no dependencies on sim/: it stores pure data types.
package trace

import "time"

// Reasons attached to dispatch records.
const (
	ReasonDispatched  = "dispatched"
	ReasonNoPolicemen = "no policemen"
	ReasonNoVehicle   = "no vehicle"
)

// DispatchRecord captures a single SendPatrol attempt.
type DispatchRecord struct {
	ReportID   int
	ReportTime time.Time
	Clock      time.Time
	Dispatched bool
	PatrolID   int // -1 when the attempt was rescheduled
	Reason     string

	// Resources free at the moment of the attempt, before any were taken.
	AvailablePolicemen int
	AvailableVehicles  int
}

// waited is the time between the report and a dispatch attempt.
func (r DispatchRecord) waited() time.Duration {
	return r.Clock.Sub(r.ReportTime)
}
