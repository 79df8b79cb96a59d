package cmd

import (
	"strconv"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/patrol-sim/patrol-sim/sim"
)

// writeMetricsTextfile dumps the run counters in the Prometheus text format, for
// collection by a node exporter textfile collector.
func writeMetricsTextfile(path string, m *sim.Metrics, runID uuid.UUID, seed int64) error {
	reg := prometheus.NewRegistry()

	info := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "patrol_sim_run_info",
		Help: "Identifies the run that produced these metrics.",
	}, []string{"run_id", "seed"})
	info.WithLabelValues(runID.String(), strconv.FormatInt(seed, 10)).Set(1)

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "patrol_sim_events_total",
		Help: "Events executed, by kind.",
	}, []string{"kind"})
	for kind := sim.KindPolicemanEmployment; kind <= sim.KindLastNameChange; kind++ {
		events.WithLabelValues(kind.String()).Add(float64(m.EventsProcessed[kind]))
	}

	counters := []struct {
		name, help string
		value      int
	}{
		{"patrol_sim_policemen_hired_total", "Policemen employed, initial cohort included.", m.PolicemenHired},
		{"patrol_sim_patrols_sent_total", "Patrols dispatched.", m.PatrolsSent},
		{"patrol_sim_patrols_finished_total", "Patrols finished.", m.PatrolsFinished},
		{"patrol_sim_dispatch_retries_total", "Dispatch attempts rescheduled for lack of resources.", m.DispatchRetries},
		{"patrol_sim_resignations_total", "Policemen resigned after a patrol.", m.Resignations},
		{"patrol_sim_last_name_changes_total", "Surname changes applied.", m.LastNameChanges},
		{"patrol_sim_snapshots_total", "Snapshots exported.", m.SnapshotsTaken},
	}
	collectors := []prometheus.Collector{info, events}
	for _, c := range counters {
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: c.name, Help: c.help})
		counter.Add(float64(c.value))
		collectors = append(collectors, counter)
	}

	simulated := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "patrol_sim_simulated_seconds",
		Help: "Simulated time covered by the run.",
	})
	simulated.Set(m.SimEndedTime.Sub(m.SimStartedTime).Seconds())
	collectors = append(collectors, simulated)

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return prometheus.WriteToTextfile(path, reg)
}
