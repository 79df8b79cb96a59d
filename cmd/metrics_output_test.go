package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrol-sim/patrol-sim/sim"
)

func TestWriteMetricsTextfile(t *testing.T) {
	// GIVEN metrics of a finished run
	m := sim.NewMetrics()
	m.EventsProcessed[sim.KindReport] = 12
	m.EventsProcessed[sim.KindSendPatrol] = 15
	m.PatrolsSent = 11
	m.DispatchRetries = 4
	m.SnapshotsTaken = 2
	m.SimStartedTime = time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)
	m.SimEndedTime = m.SimStartedTime.Add(2 * time.Hour)
	runID := uuid.MustParse("0b7f7c2e-8f0e-4a57-9d51-3a5d1c4f2e10")
	path := filepath.Join(t.TempDir(), "patrol_sim.prom")

	// WHEN the textfile is written
	require.NoError(t, writeMetricsTextfile(path, m, runID, 42))

	// THEN it holds the counters in the Prometheus text format
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `patrol_sim_run_info{run_id="0b7f7c2e-8f0e-4a57-9d51-3a5d1c4f2e10",seed="42"} 1`)
	assert.Contains(t, out, `patrol_sim_events_total{kind="Report"} 12`)
	assert.Contains(t, out, `patrol_sim_events_total{kind="SendPatrol"} 15`)
	assert.Contains(t, out, `patrol_sim_events_total{kind="Snapshot"} 0`)
	assert.Contains(t, out, "patrol_sim_patrols_sent_total 11")
	assert.Contains(t, out, "patrol_sim_dispatch_retries_total 4")
	assert.Contains(t, out, "patrol_sim_simulated_seconds 7200")
	assert.Contains(t, out, "# TYPE patrol_sim_snapshots_total counter")
}
