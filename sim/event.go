package sim

import (
	"time"

	"github.com/sirupsen/logrus"
)

// EventKind identifies the action an event performs.
type EventKind int

const (
	KindPolicemanEmployment EventKind = iota
	KindPolicemanResignation
	KindReport
	KindSendPatrol
	KindFinishedPatrol
	KindSnapshot
	KindLastNameChange
)

var eventKindNames = map[EventKind]string{
	KindPolicemanEmployment:  "PolicemanEmployment",
	KindPolicemanResignation: "PolicemanResignation",
	KindReport:               "Report",
	KindSendPatrol:           "SendPatrol",
	KindFinishedPatrol:       "FinishedPatrol",
	KindSnapshot:             "Snapshot",
	KindLastNameChange:       "PolicemanLastNameChange",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Event defines the interface for all simulation events.
// Each event has a Timestamp in simulated time and an Execute method
// that advances simulation state when invoked. Execute returns an error
// only for integrity violations and sink failures; both abort the run.
type Event interface {
	Timestamp() time.Time
	Kind() EventKind
	Execute(*Simulator) error
}

// PolicemanEmploymentEvent hires a new policeman at the event time.
type PolicemanEmploymentEvent struct {
	time time.Time
}

// NewPolicemanEmploymentEvent creates an employment event at t.
func NewPolicemanEmploymentEvent(t time.Time) *PolicemanEmploymentEvent {
	return &PolicemanEmploymentEvent{time: t}
}

func (e *PolicemanEmploymentEvent) Timestamp() time.Time { return e.time }
func (e *PolicemanEmploymentEvent) Kind() EventKind      { return KindPolicemanEmployment }

// Execute adds the policeman to the registry and schedules their resignation.
func (e *PolicemanEmploymentEvent) Execute(sim *Simulator) error {
	p := sim.employPoliceman(e.time)
	logrus.Debugf("<< PolicemanEmployment: policeman %d at %s, resigns %s",
		p.ID(), e.time.Format(time.RFC3339), p.ResignmentDate.Format(time.RFC3339))
	return nil
}

// PolicemanResignationEvent fires at a policeman's resignment date.
// It only schedules a replacement hire; no policeman changes state here.
type PolicemanResignationEvent struct {
	time time.Time
}

// NewPolicemanResignationEvent creates a resignation event at t.
func NewPolicemanResignationEvent(t time.Time) *PolicemanResignationEvent {
	return &PolicemanResignationEvent{time: t}
}

func (e *PolicemanResignationEvent) Timestamp() time.Time { return e.time }
func (e *PolicemanResignationEvent) Kind() EventKind      { return KindPolicemanResignation }

// Execute schedules the replacement employment.
func (e *PolicemanResignationEvent) Execute(sim *Simulator) error {
	hireAt := e.time.Add(sim.Config.ReplacementDelay)
	logrus.Debugf("<< PolicemanResignation at %s, replacement at %s",
		e.time.Format(time.RFC3339), hireAt.Format(time.RFC3339))
	sim.Schedule(NewPolicemanEmploymentEvent(hireAt))
	return nil
}

// ReportEvent creates a new report and keeps the report stream going.
type ReportEvent struct {
	time time.Time
}

// NewReportEvent creates a report event at t.
func NewReportEvent(t time.Time) *ReportEvent {
	return &ReportEvent{time: t}
}

func (e *ReportEvent) Timestamp() time.Time { return e.time }
func (e *ReportEvent) Kind() EventKind      { return KindReport }

// Execute files the report, schedules its dispatches and the next report.
func (e *ReportEvent) Execute(sim *Simulator) error {
	return sim.fileReport(e.time)
}

// SendPatrolEvent tries to dispatch a patrol for a report.
type SendPatrolEvent struct {
	time     time.Time
	ReportID int
}

// NewSendPatrolEvent creates a dispatch attempt for reportID at t.
func NewSendPatrolEvent(t time.Time, reportID int) *SendPatrolEvent {
	return &SendPatrolEvent{time: t, ReportID: reportID}
}

func (e *SendPatrolEvent) Timestamp() time.Time { return e.time }
func (e *SendPatrolEvent) Kind() EventKind      { return KindSendPatrol }

// Execute dispatches the patrol or reschedules the attempt.
func (e *SendPatrolEvent) Execute(sim *Simulator) error {
	return sim.sendPatrol(e.time, e.ReportID)
}

// FinishedPatrolEvent releases the resources of a patrol.
type FinishedPatrolEvent struct {
	time     time.Time
	PatrolID int
}

// NewFinishedPatrolEvent creates a patrol completion event at t.
func NewFinishedPatrolEvent(t time.Time, patrolID int) *FinishedPatrolEvent {
	return &FinishedPatrolEvent{time: t, PatrolID: patrolID}
}

func (e *FinishedPatrolEvent) Timestamp() time.Time { return e.time }
func (e *FinishedPatrolEvent) Kind() EventKind      { return KindFinishedPatrol }

// Execute frees the vehicle and the policemen, resigning those past their date.
func (e *FinishedPatrolEvent) Execute(sim *Simulator) error {
	return sim.finishPatrol(e.time, e.PatrolID)
}

// SnapshotEvent exports the whole state. A terminal snapshot ends the run.
type SnapshotEvent struct {
	time     time.Time
	Name     string
	Terminal bool
}

// NewSnapshotEvent creates a snapshot event at t.
func NewSnapshotEvent(t time.Time, name string, terminal bool) *SnapshotEvent {
	return &SnapshotEvent{time: t, Name: name, Terminal: terminal}
}

func (e *SnapshotEvent) Timestamp() time.Time { return e.time }
func (e *SnapshotEvent) Kind() EventKind      { return KindSnapshot }

// Execute hands the state to the snapshot sink.
func (e *SnapshotEvent) Execute(sim *Simulator) error {
	return sim.takeSnapshot(e.time, e.Name, e.Terminal)
}

// LastNameChangeEvent gives a random policeman a new surname.
type LastNameChangeEvent struct {
	time time.Time
}

// NewLastNameChangeEvent creates a surname change event at t.
func NewLastNameChangeEvent(t time.Time) *LastNameChangeEvent {
	return &LastNameChangeEvent{time: t}
}

func (e *LastNameChangeEvent) Timestamp() time.Time { return e.time }
func (e *LastNameChangeEvent) Kind() EventKind      { return KindLastNameChange }

// Execute renames one policeman, picked regardless of state.
func (e *LastNameChangeEvent) Execute(sim *Simulator) error {
	return sim.changeLastName(e.time)
}
