package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrol-sim/patrol-sim/sim"
	"github.com/patrol-sim/patrol-sim/sim/synth"
)

// copyingSink keeps a deep copy of every exported snapshot.
type copyingSink struct {
	snapshots []sim.Snapshot
}

func (s *copyingSink) Export(snap sim.Snapshot) error {
	s.snapshots = append(s.snapshots, sim.Snapshot{
		Name:      snap.Name,
		AsOf:      snap.AsOf,
		Places:    append([]sim.Place(nil), snap.Places...),
		Reports:   append([]sim.Report(nil), snap.Reports...),
		Policemen: append([]sim.Policeman(nil), snap.Policemen...),
		Vehicles:  append([]sim.Vehicle(nil), snap.Vehicles...),
		Patrols:   append([]sim.Patrol(nil), snap.Patrols...),
	})
	return nil
}

func runGenerated(t *testing.T, seed int64) (*sim.Simulator, *copyingSink) {
	t.Helper()
	tables, err := synth.DefaultTables()
	require.NoError(t, err)
	places, err := synth.DefaultPlaces()
	require.NoError(t, err)
	gen, err := synth.NewGenerator(synth.DefaultConfig(), tables)
	require.NoError(t, err)

	sink := &copyingSink{}
	s, err := sim.NewSimulator(sim.DefaultConfig(), sim.NewSimulationKey(seed), gen, places, sink)
	require.NoError(t, err)
	require.NoError(t, s.Bootstrap())
	require.NoError(t, s.Run())
	return s, sink
}

func TestGeneratedRun_DefaultScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("full two-year run")
	}
	s, sink := runGenerated(t, 42)

	// THEN both default snapshots are exported in order and the run halts on the last
	require.Len(t, sink.snapshots, 2)
	assert.Equal(t, "SNAPSHOT_A_", sink.snapshots[0].Name)
	assert.Equal(t, "SNAPSHOT_B_", sink.snapshots[1].Name)
	assert.True(t, s.Halted())
	assert.Equal(t, 20, s.Metrics.LastNameChanges)

	// THEN the first snapshot is a prefix of the second
	a, b := sink.snapshots[0], sink.snapshots[1]
	assert.LessOrEqual(t, len(a.Reports), len(b.Reports))
	assert.LessOrEqual(t, len(a.Patrols), len(b.Patrols))
	assert.GreaterOrEqual(t, len(a.Policemen), sim.DefaultConfig().PolicemenCount)
	assert.Len(t, b.Vehicles, sim.DefaultConfig().VehiclesCount)

	// THEN every patrol references known entities with ordered times
	for _, p := range b.Patrols {
		require.Less(t, p.ReportID, len(b.Reports))
		require.Less(t, p.VehicleID, len(b.Vehicles))
		assert.NotEqual(t, p.PolicemenIDs[0], p.PolicemenIDs[1])
		assert.False(t, p.SendingTime.Before(b.Reports[p.ReportID].Time))
		assert.True(t, p.SendingTime.Before(p.ArrivalTime))
		assert.True(t, p.ArrivalTime.Before(p.FinishTime))
	}
}

func TestGeneratedRun_SameSeedSameSnapshots(t *testing.T) {
	if testing.Short() {
		t.Skip("full two-year runs")
	}
	_, first := runGenerated(t, 7)
	_, second := runGenerated(t, 7)

	assert.Equal(t, first.snapshots, second.snapshots)
}
