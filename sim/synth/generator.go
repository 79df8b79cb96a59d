// Package synth synthesizes the attributes of people, policemen, vehicles, reports
// and patrols from weighted frequency tables and configured ranges.
//
// Every function here is pure with respect to its *rand.Rand argument: the same
// RNG state and parameters always give the same entity.
package synth

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/patrol-sim/patrol-sim/sim"
)

const plateAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// reporterID is shared by every reporter; reporters are not tracked as entities.
const reporterID = 0

// Generator implements sim.EntityGenerator.
type Generator struct {
	cfg    Config
	tables Tables
}

var _ sim.EntityGenerator = (*Generator)(nil)

// NewGenerator validates the configuration and returns a generator.
func NewGenerator(cfg Config, tables Tables) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generator config: %w", err)
	}
	named := map[string]*FrequencyTable{
		"first names":    tables.FirstNames,
		"last names":     tables.LastNames,
		"ranks":          tables.Ranks,
		"vehicle models": tables.VehicleModels,
		"plate codes":    tables.PlateCodes,
		"report types":   tables.ReportTypes,
	}
	for name, t := range named {
		if t == nil {
			return nil, fmt.Errorf("%s table is missing", name)
		}
	}
	return &Generator{cfg: cfg, tables: tables}, nil
}

// NewPerson draws a person born between the configured birth dates.
func (g *Generator) NewPerson(rng *rand.Rand, id int) sim.Person {
	birth := g.randomBirthDate(rng)
	return sim.Person{
		ID:          id,
		FirstName:   g.tables.FirstNames.Draw(rng),
		LastName:    g.tables.LastNames.Draw(rng),
		BirthDate:   birth,
		PhoneNumber: uint64(g.cfg.PhoneNumber.Draw(rng)),
		NationalID:  g.nationalID(rng, birth),
	}
}

// NewPoliceman draws a policeman employed at the given date. The birth date is
// placed 21 to 35 years (by default) before employment, and the resignment date
// 1 to 20 years after it.
func (g *Generator) NewPoliceman(rng *rand.Rand, employed time.Time, id int) sim.Policeman {
	person := g.NewPerson(rng, id)
	person.BirthDate = employed.AddDate(0, 0, -int(g.cfg.AgeAtEmploymentDays.Draw(rng)))
	person.NationalID = g.nationalID(rng, person.BirthDate)
	return sim.Policeman{
		Person:         person,
		State:          sim.PolicemanAvailable,
		ServiceNumber:  uint32(g.cfg.ServiceNumber.Draw(rng)),
		Rank:           g.tables.Ranks.Draw(rng),
		EmploymentDate: employed,
		ResignmentDate: employed.AddDate(0, 0, int(g.cfg.ServiceDays.Draw(rng))),
	}
}

// NewVehicle draws an available vehicle.
func (g *Generator) NewVehicle(rng *rand.Rand, id int) sim.Vehicle {
	return sim.Vehicle{
		ID:                id,
		Model:             g.tables.VehicleModels.Draw(rng),
		RegistrationPlate: g.registrationPlate(rng),
		ManufactureYear:   uint32(g.cfg.ManufactureYear.Draw(rng)),
		SeatCount:         g.cfg.SeatCount,
		State:             sim.VehicleAvailable,
		VehicleType:       g.cfg.VehicleType,
	}
}

// NewReport draws a report filed at the given time for a uniformly chosen place.
func (g *Generator) NewReport(rng *rand.Rand, at time.Time, placeCount int, id int) sim.Report {
	placeID := rng.Intn(placeCount)
	return sim.Report{
		ID:         id,
		ReportType: g.tables.ReportTypes.Draw(rng),
		Time:       at,
		Reporter:   g.NewPerson(rng, reporterID),
		PlaceID:    placeID,
	}
}

// NewPatrol derives arrival and finish times from independently drawn travel and
// handling durations.
func (g *Generator) NewPatrol(rng *rand.Rand, reportID int, policemenIDs [sim.PatrolSize]int, vehicleID int, sending time.Time, id int) sim.Patrol {
	arrival := sending.Add(g.cfg.Travel.Draw(rng))
	return sim.Patrol{
		ID:           id,
		ReportID:     reportID,
		PolicemenIDs: policemenIDs,
		VehicleID:    vehicleID,
		SendingTime:  sending,
		ArrivalTime:  arrival,
		FinishTime:   arrival.Add(g.cfg.Handling.Draw(rng)),
	}
}

// RandomSurname draws a surname from the surname frequency table.
func (g *Generator) RandomSurname(rng *rand.Rand) string {
	return g.tables.LastNames.Draw(rng)
}

// randomBirthDate returns a uniformly drawn midnight (UTC) in [BirthDateFrom, BirthDateTo).
func (g *Generator) randomBirthDate(rng *rand.Rand) time.Time {
	from, to := g.cfg.BirthDateFrom.Unix(), g.cfg.BirthDateTo.Unix()
	return time.Unix(from+rng.Int63n(to-from), 0).UTC().Truncate(24 * time.Hour)
}

// nationalID builds a PESEL-like number: YYMMDD of the birth date followed by a
// random 5 digit suffix.
func (g *Generator) nationalID(rng *rand.Rand, birth time.Time) uint64 {
	id := uint64(birth.Year() % 100)
	id = id*100 + uint64(birth.Month())
	id = id*100 + uint64(birth.Day())
	return id*100000 + uint64(g.cfg.NationalIDSuffix.Draw(rng))
}

// registrationPlate is a district code, a space, and random characters up to PlateLength.
func (g *Generator) registrationPlate(rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(g.cfg.PlateLength)
	b.WriteString(g.tables.PlateCodes.Draw(rng))
	b.WriteByte(' ')
	for b.Len() < g.cfg.PlateLength {
		b.WriteByte(plateAlphabet[rng.Intn(len(plateAlphabet))])
	}
	return b.String()
}
