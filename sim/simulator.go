// sim/simulator.go
package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/patrol-sim/patrol-sim/sim/trace"
)

// Simulator is the core object that holds simulation time, world state, and the event loop.
type Simulator struct {
	Config Config
	Clock  time.Time
	// Queue has all pending events; handlers push follow-up events into it while running
	Queue   *EventQueue
	State   *State
	Metrics *Metrics
	// Trace records every dispatch attempt when non-nil
	Trace *trace.SimulationTrace

	rng          *PartitionedRNG
	generator    EntityGenerator
	places       PlaceSource
	sink         SnapshotSink
	halted       bool
	bootstrapped bool
}

// NewSimulator validates the configuration and creates a simulator with an empty state.
// Call Bootstrap to seed the initial cohort and events, then Run.
func NewSimulator(cfg Config, key SimulationKey, generator EntityGenerator, places PlaceSource, sink SnapshotSink) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if generator == nil {
		return nil, errors.New("entity generator is required")
	}
	if places == nil {
		return nil, errors.New("place source is required")
	}
	if sink == nil {
		return nil, errors.New("snapshot sink is required")
	}
	return &Simulator{
		Config:    cfg,
		Clock:     cfg.StartTime,
		Queue:     NewEventQueue(),
		State:     NewState(),
		Metrics:   NewMetrics(),
		rng:       NewPartitionedRNG(key),
		generator: generator,
		places:    places,
		sink:      sink,
	}, nil
}

// Bootstrap loads the places, employs the initial policemen, buys the initial vehicles
// and schedules the first report, the snapshots and the surname changes.
func (sim *Simulator) Bootstrap() error {
	if sim.bootstrapped {
		return errors.New("simulator already bootstrapped")
	}
	places := sim.places.AllPlaces()
	if len(places) == 0 {
		return errors.New("place source returned no places")
	}
	for i, p := range places {
		if p.ID != i {
			return fmt.Errorf("place at index %d has id %d, ids must follow ingestion order", i, p.ID)
		}
	}
	sim.State.Places = places
	sim.bootstrapped = true

	start := sim.Config.StartTime
	sim.Clock = start
	sim.Metrics.SimStartedTime = start

	for i := 0; i < sim.Config.PolicemenCount; i++ {
		sim.employPoliceman(start)
	}
	vehicleRNG := sim.rng.ForSubsystem(SubsystemVehicles)
	for i := 0; i < sim.Config.VehiclesCount; i++ {
		v := sim.generator.NewVehicle(vehicleRNG, i)
		v.ID = i
		v.State = VehicleAvailable
		sim.State.Vehicles = append(sim.State.Vehicles, v)
	}

	sim.Schedule(NewReportEvent(start))
	for _, s := range sim.Config.Snapshots {
		sim.Schedule(NewSnapshotEvent(s.Time, s.Name, s.Terminal))
	}
	first := sim.Config.lastNameChangeStart()
	for i := 0; i < sim.Config.LastNameChanges.Count; i++ {
		sim.Schedule(NewLastNameChangeEvent(first.Add(time.Duration(i) * sim.Config.LastNameChanges.Spacing)))
	}

	logrus.Infof("Bootstrapped %d places, %d policemen, %d vehicles, %d pending events",
		len(sim.State.Places), len(sim.State.Policemen), len(sim.State.Vehicles), sim.Queue.Len())
	return nil
}

// Schedule pushes an event into the simulator's event queue.
func (sim *Simulator) Schedule(ev Event) {
	sim.Queue.Push(ev)
}

// Halted reports whether a terminal snapshot has stopped the run.
func (sim *Simulator) Halted() bool {
	return sim.halted
}

// Step executes the earliest pending event. It returns false once the run is over,
// either because the queue is empty or because a terminal snapshot was processed.
func (sim *Simulator) Step() (bool, error) {
	if sim.halted {
		return false, nil
	}
	next := sim.Queue.Peek()
	if next == nil {
		return false, nil
	}
	// a stale event stays queued
	if next.Timestamp().Before(sim.Clock) {
		return false, fmt.Errorf("%w: %s event at %s is before clock %s", ErrIntegrity,
			next.Kind(), next.Timestamp().Format(time.RFC3339), sim.Clock.Format(time.RFC3339))
	}
	ev, _ := sim.Queue.PopEarliest()
	sim.Clock = ev.Timestamp()
	logrus.Tracef("[%s] Executing %s", sim.Clock.Format(time.RFC3339), ev.Kind())
	if err := ev.Execute(sim); err != nil {
		return false, fmt.Errorf("%s at %s: %w", ev.Kind(), sim.Clock.Format(time.RFC3339), err)
	}
	sim.Metrics.EventsProcessed[ev.Kind()]++
	return !sim.halted, nil
}

// Run processes events until a terminal snapshot halts the loop or the queue is exhausted.
func (sim *Simulator) Run() error {
	for {
		more, err := sim.Step()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	sim.Metrics.SimEndedTime = sim.Clock
	logrus.Infof("[%s] Simulation ended, %d events processed, %d pending",
		sim.Clock.Format(time.RFC3339), sim.Metrics.TotalEvents(), sim.Queue.Len())
	return nil
}

// employPoliceman appends a freshly employed policeman and schedules their resignation.
func (sim *Simulator) employPoliceman(at time.Time) *Policeman {
	id := len(sim.State.Policemen)
	p := sim.generator.NewPoliceman(sim.rng.ForSubsystem(SubsystemPeople), at, id)
	p.Person.ID = id
	p.State = PolicemanAvailable
	p.EmploymentDate = at
	sim.State.Policemen = append(sim.State.Policemen, p)
	sim.Metrics.PolicemenHired++
	sim.Schedule(NewPolicemanResignationEvent(p.ResignmentDate))
	return &sim.State.Policemen[id]
}

// fileReport creates a report, schedules its dispatch attempts and the next report.
func (sim *Simulator) fileReport(at time.Time) error {
	placeCount := len(sim.State.Places)
	if placeCount == 0 {
		return fmt.Errorf("%w: no places loaded", ErrIntegrity)
	}
	id := len(sim.State.Reports)
	r := sim.generator.NewReport(sim.rng.ForSubsystem(SubsystemReports), at, placeCount, id)
	r.ID = id
	r.Time = at
	if r.PlaceID < 0 || r.PlaceID >= placeCount {
		return fmt.Errorf("%w: report %d references place %d (%d places)", ErrIntegrity, id, r.PlaceID, placeCount)
	}
	sim.State.Reports = append(sim.State.Reports, r)

	schedRNG := sim.rng.ForSubsystem(SubsystemSchedule)
	required := 1
	if schedRNG.Float64() < sim.Config.TwoPatrolsChance {
		required = 2
	}
	dispatchAt := at.Add(sim.Config.DispatchDelay.Draw(schedRNG))
	for i := 0; i < required; i++ {
		sim.Schedule(NewSendPatrolEvent(dispatchAt, id))
	}
	next := at.Add(sim.Config.ReportInterval.Draw(schedRNG))
	sim.Schedule(NewReportEvent(next))

	logrus.Debugf("<< Report: %d (%s) at place %d, %d patrol(s) at %s, next report at %s",
		id, r.ReportType, r.PlaceID, required, dispatchAt.Format(time.RFC3339), next.Format(time.RFC3339))
	return nil
}

// sendPatrol dispatches two available policemen and one available vehicle to a report.
// Without enough resources the attempt is rescheduled and nothing changes.
func (sim *Simulator) sendPatrol(at time.Time, reportID int) error {
	report, err := sim.State.Report(reportID)
	if err != nil {
		return err
	}
	dispatchRNG := sim.rng.ForSubsystem(SubsystemDispatch)
	freePolicemen, freeVehicles := sim.State.availablePolicemen(), sim.State.availableVehicles()
	record := trace.DispatchRecord{
		ReportID:           reportID,
		ReportTime:         report.Time,
		Clock:              at,
		PatrolID:           -1,
		AvailablePolicemen: len(freePolicemen),
		AvailableVehicles:  len(freeVehicles),
	}

	officers := chooseDistinct(dispatchRNG, freePolicemen, PatrolSize)
	if officers == nil {
		record.Reason = trace.ReasonNoPolicemen
		sim.retryDispatch(record)
		return nil
	}
	vehicles := chooseDistinct(dispatchRNG, freeVehicles, 1)
	if vehicles == nil {
		record.Reason = trace.ReasonNoVehicle
		sim.retryDispatch(record)
		return nil
	}

	var policemenIDs [PatrolSize]int
	copy(policemenIDs[:], officers)
	for _, pid := range policemenIDs {
		sim.State.Policemen[pid].State = PolicemanOccupied
	}
	vehicleID := vehicles[0]
	sim.State.Vehicles[vehicleID].State = VehicleOccupied

	id := len(sim.State.Patrols)
	p := sim.generator.NewPatrol(sim.rng.ForSubsystem(SubsystemPatrols), reportID, policemenIDs, vehicleID, at, id)
	p.ID = id
	p.ReportID = reportID
	p.PolicemenIDs = policemenIDs
	p.VehicleID = vehicleID
	p.SendingTime = at
	if p.ArrivalTime.Before(p.SendingTime) || p.FinishTime.Before(p.ArrivalTime) {
		return fmt.Errorf("%w: patrol %d times out of order (sent %s, arrived %s, finished %s)", ErrIntegrity, id,
			p.SendingTime.Format(time.RFC3339), p.ArrivalTime.Format(time.RFC3339), p.FinishTime.Format(time.RFC3339))
	}
	sim.State.Patrols = append(sim.State.Patrols, p)
	sim.Metrics.PatrolsSent++
	sim.Schedule(NewFinishedPatrolEvent(p.FinishTime, id))

	if sim.Trace != nil {
		record.Dispatched = true
		record.PatrolID = id
		record.Reason = trace.ReasonDispatched
		sim.Trace.RecordDispatch(record)
	}
	logrus.Debugf("<< SendPatrol: patrol %d for report %d, policemen %v, vehicle %d, finishes %s",
		id, reportID, policemenIDs, vehicleID, p.FinishTime.Format(time.RFC3339))
	return nil
}

// retryDispatch reschedules a dispatch attempt after a fresh dispatch delay.
func (sim *Simulator) retryDispatch(record trace.DispatchRecord) {
	retryAt := record.Clock.Add(sim.Config.DispatchDelay.Draw(sim.rng.ForSubsystem(SubsystemSchedule)))
	sim.Metrics.DispatchRetries++
	sim.Schedule(NewSendPatrolEvent(retryAt, record.ReportID))
	if sim.Trace != nil {
		sim.Trace.RecordDispatch(record)
	}
	logrus.Debugf("<< SendPatrol: report %d: %s, retrying at %s",
		record.ReportID, record.Reason, retryAt.Format(time.RFC3339))
}

// finishPatrol releases the patrol's vehicle and policemen. A policeman whose
// resignment date has been reached resigns instead of becoming available.
func (sim *Simulator) finishPatrol(at time.Time, patrolID int) error {
	patrol, err := sim.State.Patrol(patrolID)
	if err != nil {
		return err
	}
	var officers [PatrolSize]*Policeman
	for i, pid := range patrol.PolicemenIDs {
		if officers[i], err = sim.State.Policeman(pid); err != nil {
			return err
		}
	}
	vehicle, err := sim.State.Vehicle(patrol.VehicleID)
	if err != nil {
		return err
	}

	for _, p := range officers {
		if at.Before(p.ResignmentDate) {
			p.State = PolicemanAvailable
			continue
		}
		p.State = PolicemanResigned
		sim.Metrics.Resignations++
		logrus.Debugf("<< FinishedPatrol: policeman %d resigned after patrol %d", p.ID(), patrolID)
	}
	vehicle.State = VehicleAvailable
	sim.Metrics.PatrolsFinished++

	logrus.Debugf("<< FinishedPatrol: patrol %d at %s", patrolID, at.Format(time.RFC3339))
	return nil
}

// takeSnapshot exports the full state and halts the run if the snapshot is terminal.
func (sim *Simulator) takeSnapshot(at time.Time, name string, terminal bool) error {
	snap := Snapshot{
		Name:      name,
		AsOf:      at,
		Places:    sim.State.Places,
		Reports:   sim.State.Reports,
		Policemen: sim.State.Policemen,
		Vehicles:  sim.State.Vehicles,
		Patrols:   sim.State.Patrols,
	}
	if err := sim.sink.Export(snap); err != nil {
		return fmt.Errorf("export snapshot %q: %w", name, err)
	}
	sim.Metrics.SnapshotsTaken++
	logrus.WithFields(logrus.Fields{
		"snapshot":  name,
		"terminal":  terminal,
		"places":    len(snap.Places),
		"policemen": len(snap.Policemen),
		"vehicles":  len(snap.Vehicles),
		"reports":   len(snap.Reports),
		"patrols":   len(snap.Patrols),
	}).Infof("<< Snapshot at %s", at.Format(time.RFC3339))

	if terminal {
		sim.halted = true
	}
	return nil
}

// changeLastName gives a uniformly chosen policeman, in any state, a new surname.
func (sim *Simulator) changeLastName(at time.Time) error {
	if len(sim.State.Policemen) == 0 {
		return fmt.Errorf("%w: surname change with no policemen", ErrIntegrity)
	}
	namesRNG := sim.rng.ForSubsystem(SubsystemNames)
	p := &sim.State.Policemen[namesRNG.Intn(len(sim.State.Policemen))]
	previous := p.Person.LastName
	p.Person.Rename(sim.generator.RandomSurname(namesRNG))
	sim.Metrics.LastNameChanges++
	logrus.Infof("<< PolicemanLastNameChange at %s: person %d: %s -> %s",
		at.Format(time.RFC3339), p.Person.NationalID, previous, p.Person.LastName)
	return nil
}

// chooseDistinct picks k distinct ids uniformly at random without replacement.
// It returns nil when fewer than k ids are given; the input slice is reordered.
func chooseDistinct(rng *rand.Rand, ids []int, k int) []int {
	if len(ids) < k {
		return nil
	}
	for i := 0; i < k; i++ {
		j := i + rng.Intn(len(ids)-i)
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids[:k]
}
