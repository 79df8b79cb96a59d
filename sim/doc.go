// Package sim provides the discrete-event simulation engine for patrol-sim.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - entities.go: Policeman, Vehicle, Report and Patrol, and the Available/Occupied/Resigned states
//   - event.go: Event types that drive the simulation (Report, SendPatrol, FinishedPatrol, etc.)
//   - simulator.go: Bootstrap, the event loop, and the dispatch rules behind every event
//
// # Architecture
//
// The sim package defines the engine and the contracts of its collaborators;
// implementations live in sub-packages:
//   - sim/synth/: frequency tables, places and entity attribute generation
//   - sim/export/: snapshot sinks (CSV files, SQLite database)
//   - sim/trace/: optional record of every dispatch attempt
//
// # Determinism
//
// All randomness flows through PartitionedRNG: each subsystem (people, reports,
// dispatch, ...) gets its own seeded *rand.Rand which is passed explicitly to every
// generator and choice. Events with equal timestamps are processed in the order
// they were scheduled. Same seed and configuration, same dataset.
//
// # Key Interfaces
//
//   - EntityGenerator: synthesizes people, policemen, vehicles, reports and patrols
//   - PlaceSource: provides the immutable list of places
//   - SnapshotSink: persists a point-in-time export of every registry
package sim
