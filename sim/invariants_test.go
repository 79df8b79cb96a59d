package sim

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runChecked bootstraps and steps the simulator to completion, checking the
// step-wise invariants after every event.
func runChecked(t *testing.T, sim *Simulator) {
	t.Helper()
	require.NoError(t, sim.Bootstrap())
	last := sim.Clock
	for {
		more, err := sim.Step()
		require.NoError(t, err)

		// time never goes backwards
		require.False(t, sim.Clock.Before(last), "clock went from %s to %s", last, sim.Clock)
		last = sim.Clock

		// every occupied resource belongs to exactly one unfinished patrol
		open := sim.Metrics.PatrolsSent - sim.Metrics.PatrolsFinished
		occupiedPolicemen, occupiedVehicles := 0, 0
		for _, p := range sim.State.Policemen {
			if p.State == PolicemanOccupied {
				occupiedPolicemen++
			}
		}
		for _, v := range sim.State.Vehicles {
			if v.State == VehicleOccupied {
				occupiedVehicles++
			}
		}
		require.Equal(t, PatrolSize*open, occupiedPolicemen)
		require.Equal(t, open, occupiedVehicles)

		if !more {
			break
		}
	}
}

// assertNoOverlap checks that no resource is used by two patrols whose
// [sending, finish) intervals overlap.
func assertNoOverlap(t *testing.T, patrols []Patrol) {
	t.Helper()
	byPoliceman := make(map[int][]Patrol)
	byVehicle := make(map[int][]Patrol)
	for _, p := range patrols {
		for _, id := range p.PolicemenIDs {
			byPoliceman[id] = append(byPoliceman[id], p)
		}
		byVehicle[p.VehicleID] = append(byVehicle[p.VehicleID], p)
	}
	check := func(resource string, id int, ps []Patrol) {
		sort.Slice(ps, func(i, j int) bool { return ps[i].SendingTime.Before(ps[j].SendingTime) })
		for i := 1; i < len(ps); i++ {
			assert.False(t, ps[i].SendingTime.Before(ps[i-1].FinishTime),
				"%s %d: patrol %d sent at %s before patrol %d finished at %s",
				resource, id, ps[i].ID, ps[i].SendingTime, ps[i-1].ID, ps[i-1].FinishTime)
		}
	}
	for id, ps := range byPoliceman {
		check("policeman", id, ps)
	}
	for id, ps := range byVehicle {
		check("vehicle", id, ps)
	}
}

func TestSimulator_Invariants_SteadyState(t *testing.T) {
	cfg := testConfig()
	cfg.PolicemenCount = 4
	cfg.VehiclesCount = 2
	cfg.TwoPatrolsChance = 0.1
	cfg.Snapshots = []SnapshotConfig{
		{Name: "A_", Time: testStart.Add(10 * 24 * time.Hour)},
		{Name: "B_", Time: testStart.Add(30 * 24 * time.Hour), Terminal: true},
	}
	sink := &recordingSink{}
	sim := newTestSimulator(t, cfg, &stubGenerator{}, sink)
	sim.State.Places = nil

	runChecked(t, sim)

	assert.True(t, sim.Halted())
	assert.Equal(t, []string{"A_", "B_"}, sink.names)
	assert.Equal(t, cfg.Snapshots[1].Time, sim.Clock)
	assertNoOverlap(t, sim.State.Patrols)

	// every report older than a day got at least one patrol
	served := make(map[int]bool)
	for _, p := range sim.State.Patrols {
		served[p.ReportID] = true
	}
	cutoff := sim.Clock.Add(-24 * time.Hour)
	for _, r := range sim.State.Reports {
		if r.Time.Before(cutoff) {
			assert.True(t, served[r.ID], "report %d filed at %s never got a patrol", r.ID, r.Time)
		}
	}
	assert.Greater(t, sim.Metrics.DispatchRetries, 0)
}

func TestSimulator_Invariants_StaffTurnover(t *testing.T) {
	cfg := testConfig()
	cfg.PolicemenCount = 6
	cfg.VehiclesCount = 3
	cfg.ReplacementDelay = 2 * 24 * time.Hour
	cfg.LastNameChanges = LastNameChangeConfig{Count: 10, Spacing: 12 * time.Hour}
	cfg.Snapshots = []SnapshotConfig{
		{Name: "A_", Time: testStart.Add(20 * 24 * time.Hour)},
		{Name: "B_", Time: testStart.Add(60 * 24 * time.Hour), Terminal: true},
	}
	sim := newTestSimulator(t, cfg, &stubGenerator{resignAfter: 5 * 24 * time.Hour}, &recordingSink{})
	sim.State.Places = nil

	runChecked(t, sim)
	assertNoOverlap(t, sim.State.Patrols)

	// conservation: initial cohort plus one policeman per processed hire, ids never reused
	hires := sim.Metrics.EventsProcessed[KindPolicemanEmployment]
	assert.Greater(t, hires, 0)
	require.Len(t, sim.State.Policemen, cfg.PolicemenCount+hires)
	for i, p := range sim.State.Policemen {
		assert.Equal(t, i, p.ID())
	}

	// only policemen who finished a patrol on or after their date are resigned
	lastFinish := make(map[int]time.Time)
	for _, p := range sim.State.Patrols {
		for _, id := range p.PolicemenIDs {
			if p.FinishTime.After(lastFinish[id]) {
				lastFinish[id] = p.FinishTime
			}
		}
	}
	for _, p := range sim.State.Policemen {
		if p.State == PolicemanResigned {
			finish, ok := lastFinish[p.ID()]
			require.True(t, ok, "policeman %d resigned without a patrol", p.ID())
			assert.False(t, finish.Before(p.ResignmentDate))
		}
	}
	assert.Greater(t, sim.Metrics.Resignations, 0)
	assert.Equal(t, 10, sim.Metrics.LastNameChanges)
}

func TestSimulator_SameSeedSameDataset(t *testing.T) {
	run := func(seed int64) *Simulator {
		cfg := testConfig()
		cfg.PolicemenCount = 8
		cfg.VehiclesCount = 4
		cfg.TwoPatrolsChance = 0.3
		cfg.Snapshots = []SnapshotConfig{{Name: "B_", Time: testStart.Add(7 * 24 * time.Hour), Terminal: true}}
		sim, err := NewSimulator(cfg, NewSimulationKey(seed), &stubGenerator{}, testPlaces(), &recordingSink{})
		require.NoError(t, err)
		require.NoError(t, sim.Bootstrap())
		require.NoError(t, sim.Run())
		return sim
	}

	a, b := run(7), run(7)
	assert.Equal(t, a.State.Reports, b.State.Reports)
	assert.Equal(t, a.State.Patrols, b.State.Patrols)
	assert.Equal(t, a.Metrics, b.Metrics)

	c := run(8)
	assert.NotEqual(t, a.State.Patrols, c.State.Patrols)
}
