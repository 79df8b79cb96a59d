package sim

import (
	"errors"
	"fmt"
)

// ErrIntegrity reports a reference to an id the engine never created. It always
// indicates a logic defect and aborts the run.
var ErrIntegrity = errors.New("integrity violation")

// State is the mutable world. Registries are arenas indexed by sequential id:
// the entity with id i lives at index i and ids are never reused.
type State struct {
	Places    []Place
	Policemen []Policeman
	Vehicles  []Vehicle
	Reports   []Report
	Patrols   []Patrol
}

// NewState creates an empty state.
func NewState() *State {
	return &State{
		Places:    make([]Place, 0),
		Policemen: make([]Policeman, 0),
		Vehicles:  make([]Vehicle, 0),
		Reports:   make([]Report, 0),
		Patrols:   make([]Patrol, 0),
	}
}

// The returned pointers are only valid until the next append to the same registry.

// Policeman looks up a policeman by id.
func (s *State) Policeman(id int) (*Policeman, error) {
	if id < 0 || id >= len(s.Policemen) {
		return nil, fmt.Errorf("%w: policeman %d does not exist (%d policemen)", ErrIntegrity, id, len(s.Policemen))
	}
	return &s.Policemen[id], nil
}

// Vehicle looks up a vehicle by id.
func (s *State) Vehicle(id int) (*Vehicle, error) {
	if id < 0 || id >= len(s.Vehicles) {
		return nil, fmt.Errorf("%w: vehicle %d does not exist (%d vehicles)", ErrIntegrity, id, len(s.Vehicles))
	}
	return &s.Vehicles[id], nil
}

// Report looks up a report by id.
func (s *State) Report(id int) (*Report, error) {
	if id < 0 || id >= len(s.Reports) {
		return nil, fmt.Errorf("%w: report %d does not exist (%d reports)", ErrIntegrity, id, len(s.Reports))
	}
	return &s.Reports[id], nil
}

// Patrol looks up a patrol by id.
func (s *State) Patrol(id int) (*Patrol, error) {
	if id < 0 || id >= len(s.Patrols) {
		return nil, fmt.Errorf("%w: patrol %d does not exist (%d patrols)", ErrIntegrity, id, len(s.Patrols))
	}
	return &s.Patrols[id], nil
}

// availablePolicemen returns the ids of policemen in the Available state, in id order.
func (s *State) availablePolicemen() []int {
	ids := make([]int, 0, len(s.Policemen))
	for i := range s.Policemen {
		if s.Policemen[i].State == PolicemanAvailable {
			ids = append(ids, i)
		}
	}
	return ids
}

// availableVehicles returns the ids of vehicles in the Available state, in id order.
func (s *State) availableVehicles() []int {
	ids := make([]int, 0, len(s.Vehicles))
	for i := range s.Vehicles {
		if s.Vehicles[i].State == VehicleAvailable {
			ids = append(ids, i)
		}
	}
	return ids
}
