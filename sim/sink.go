package sim

import (
	"math/rand"
	"time"
)

// Snapshot is a point-in-time view of every registry. The slices alias the live
// state: sinks must treat them as read-only and must not retain them after Export returns.
type Snapshot struct {
	Name      string
	AsOf      time.Time
	Places    []Place
	Reports   []Report
	Policemen []Policeman
	Vehicles  []Vehicle
	Patrols   []Patrol
}

// SnapshotSink persists snapshots. Export is called synchronously from the event
// loop, once per Snapshot event, possibly several times per run with different names.
type SnapshotSink interface {
	Export(snap Snapshot) error
}

// PlaceSource provides the immutable list of places. Place.ID must equal the
// index of the place in the returned slice.
type PlaceSource interface {
	AllPlaces() []Place
}

// EntityGenerator synthesizes entity attributes. Every method is a pure function of
// the given RNG and parameters; the simulator owns ids and state transitions.
type EntityGenerator interface {
	NewPerson(rng *rand.Rand, id int) Person
	NewPoliceman(rng *rand.Rand, employed time.Time, id int) Policeman
	NewVehicle(rng *rand.Rand, id int) Vehicle
	NewReport(rng *rand.Rand, at time.Time, placeCount int, id int) Report
	NewPatrol(rng *rand.Rand, reportID int, policemenIDs [PatrolSize]int, vehicleID int, sending time.Time, id int) Patrol
	RandomSurname(rng *rand.Rand) string
}
