package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"
)

var testStart = time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC)

// stubGenerator produces plain, predictable entities. Only the values the engine
// cares about (place, patrol durations, surname) are drawn from the RNG.
type stubGenerator struct {
	resignAfter time.Duration // employment to resignment; zero means 20 years
}

func (g *stubGenerator) NewPerson(rng *rand.Rand, id int) Person {
	return Person{
		ID:          id,
		FirstName:   "Jan",
		LastName:    "Kowalski",
		BirthDate:   time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC),
		PhoneNumber: 500000000 + uint64(id),
		NationalID:  85031400000 + uint64(id),
	}
}

func (g *stubGenerator) NewPoliceman(rng *rand.Rand, employed time.Time, id int) Policeman {
	resignAfter := g.resignAfter
	if resignAfter == 0 {
		resignAfter = 20 * 365 * 24 * time.Hour
	}
	return Policeman{
		Person:         g.NewPerson(rng, id),
		State:          PolicemanAvailable,
		ServiceNumber:  100000 + uint32(id),
		Rank:           "posterunkowy",
		EmploymentDate: employed,
		ResignmentDate: employed.Add(resignAfter),
	}
}

func (g *stubGenerator) NewVehicle(rng *rand.Rand, id int) Vehicle {
	return Vehicle{
		ID:                id,
		Model:             "Kia Ceed",
		RegistrationPlate: fmt.Sprintf("WA %05d", id),
		ManufactureYear:   2012,
		SeatCount:         5,
		State:             VehicleAvailable,
		VehicleType:       "terenowy",
	}
}

func (g *stubGenerator) NewReport(rng *rand.Rand, at time.Time, placeCount int, id int) Report {
	return Report{
		ID:         id,
		ReportType: "kradzież",
		Time:       at,
		Reporter:   g.NewPerson(rng, 0),
		PlaceID:    rng.Intn(placeCount),
	}
}

func (g *stubGenerator) NewPatrol(rng *rand.Rand, reportID int, policemenIDs [PatrolSize]int, vehicleID int, sending time.Time, id int) Patrol {
	travel := DurationRange{Min: 5 * time.Minute, Max: 20 * time.Minute}
	arrival := sending.Add(travel.Draw(rng))
	return Patrol{
		ID:           id,
		ReportID:     reportID,
		PolicemenIDs: policemenIDs,
		VehicleID:    vehicleID,
		SendingTime:  sending,
		ArrivalTime:  arrival,
		FinishTime:   arrival.Add(travel.Draw(rng)),
	}
}

var stubSurnames = []string{"Nowak", "Wiśniewski", "Wójcik", "Kowalczyk"}

func (g *stubGenerator) RandomSurname(rng *rand.Rand) string {
	return stubSurnames[rng.Intn(len(stubSurnames))]
}

type staticPlaces []Place

func (p staticPlaces) AllPlaces() []Place { return p }

func testPlaces() staticPlaces {
	return staticPlaces{
		{ID: 0, City: "Warszawa", Street: "Marszałkowska"},
		{ID: 1, City: "Kraków", Street: "Floriańska"},
		{ID: 2, City: "Gdańsk", Street: "Długa"},
	}
}

// recordingSink remembers every exported snapshot.
type recordingSink struct {
	names []string
	asOf  []time.Time
	sizes []int // number of patrols in each snapshot
	err   error
}

func (s *recordingSink) Export(snap Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.names = append(s.names, snap.Name)
	s.asOf = append(s.asOf, snap.AsOf)
	s.sizes = append(s.sizes, len(snap.Patrols))
	return nil
}

var errSinkBroken = errors.New("disk full")

// testConfig is a small, valid configuration starting at testStart.
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.StartTime = testStart
	cfg.PolicemenCount = 2
	cfg.VehiclesCount = 1
	cfg.TwoPatrolsChance = 0
	cfg.LastNameChanges.Count = 0
	cfg.Snapshots = []SnapshotConfig{
		{Name: "END_", Time: testStart.Add(365 * 24 * time.Hour), Terminal: true},
	}
	return cfg
}

// newTestSimulator creates a simulator with places loaded but no entities or events.
func newTestSimulator(t *testing.T, cfg Config, gen *stubGenerator, sink *recordingSink) *Simulator {
	t.Helper()
	sim, err := NewSimulator(cfg, NewSimulationKey(42), gen, testPlaces(), sink)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	sim.State.Places = testPlaces()
	return sim
}

// addPoliceman appends an Available policeman without scheduling any event.
func addPoliceman(sim *Simulator, resignment time.Time) int {
	id := len(sim.State.Policemen)
	sim.State.Policemen = append(sim.State.Policemen, Policeman{
		Person:         Person{ID: id, FirstName: "Anna", LastName: "Zielińska", NationalID: 90010100000 + uint64(id)},
		State:          PolicemanAvailable,
		ServiceNumber:  200000 + uint32(id),
		Rank:           "sierżant",
		EmploymentDate: sim.Config.StartTime,
		ResignmentDate: resignment,
	})
	return id
}

// addVehicle appends an Available vehicle.
func addVehicle(sim *Simulator) int {
	id := len(sim.State.Vehicles)
	sim.State.Vehicles = append(sim.State.Vehicles, Vehicle{ID: id, Model: "Škoda Octavia", State: VehicleAvailable})
	return id
}

// pendingEvents lists the queued events in processing order without changing the queue order.
func pendingEvents(q *EventQueue) []Event {
	var events []Event
	for {
		ev, ok := q.PopEarliest()
		if !ok {
			break
		}
		events = append(events, ev)
	}
	for _, ev := range events {
		q.Push(ev)
	}
	return events
}

// eventsOfKind filters events by kind.
func eventsOfKind(events []Event, kind EventKind) []Event {
	var out []Event
	for _, ev := range events {
		if ev.Kind() == kind {
			out = append(out, ev)
		}
	}
	return out
}
