// Tracks run-wide counters such as hires, dispatch retries and exported snapshots.

package sim

import (
	"fmt"
	"io"
	"time"
)

// Metrics aggregates statistics about the simulation for final reporting.
type Metrics struct {
	EventsProcessed map[EventKind]int // events executed, per kind
	PolicemenHired  int               // initial cohort plus replacement hires
	DispatchRetries int               // SendPatrol attempts rescheduled for lack of resources
	PatrolsSent     int
	PatrolsFinished int
	Resignations    int // policemen moved to Resigned when their patrol finished
	SnapshotsTaken  int
	LastNameChanges int

	SimStartedTime time.Time
	SimEndedTime   time.Time
}

// NewMetrics creates zeroed metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		EventsProcessed: make(map[EventKind]int),
	}
}

// TotalEvents returns the number of events executed across all kinds.
func (m *Metrics) TotalEvents() int {
	total := 0
	for _, n := range m.EventsProcessed {
		total += n
	}
	return total
}

// Print writes the aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer, wallClock time.Duration) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulated Period     : %s -> %s\n",
		m.SimStartedTime.Format(time.RFC3339), m.SimEndedTime.Format(time.RFC3339))
	fmt.Fprintf(w, "Events Processed     : %d\n", m.TotalEvents())
	for kind := KindPolicemanEmployment; kind <= KindLastNameChange; kind++ {
		fmt.Fprintf(w, "  %-22s: %d\n", kind, m.EventsProcessed[kind])
	}
	fmt.Fprintf(w, "Policemen Hired      : %d\n", m.PolicemenHired)
	fmt.Fprintf(w, "Patrols Sent         : %d\n", m.PatrolsSent)
	fmt.Fprintf(w, "Patrols Finished     : %d\n", m.PatrolsFinished)
	fmt.Fprintf(w, "Dispatch Retries     : %d\n", m.DispatchRetries)
	fmt.Fprintf(w, "Resignations         : %d\n", m.Resignations)
	fmt.Fprintf(w, "Surname Changes      : %d\n", m.LastNameChanges)
	fmt.Fprintf(w, "Snapshots Taken      : %d\n", m.SnapshotsTaken)
	fmt.Fprintf(w, "Wall Clock           : %s\n", wallClock.Round(time.Millisecond))
}
