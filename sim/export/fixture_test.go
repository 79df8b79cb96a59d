package export

import (
	"time"

	"github.com/patrol-sim/patrol-sim/sim"
)

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04:05", s)
	if err != nil {
		panic(err)
	}
	return t
}

func day(s string) time.Time {
	return at(s + " 00:00:00")
}

// fixtureSnapshot covers quoting, non-ASCII text, and times on both sides of
// (and exactly at) the snapshot time.
func fixtureSnapshot() sim.Snapshot {
	return sim.Snapshot{
		Name: "SNAPSHOT_A_",
		AsOf: at("2016-06-05 00:00:00"),
		Places: []sim.Place{
			{ID: 0, City: "Warszawa", Street: "Marszałkowska"},
			{ID: 1, City: "Kraków", Street: "Floriańska, róg Szpitalnej"},
		},
		Reports: []sim.Report{
			{ID: 0, ReportType: "kradzież", Time: at("2016-06-04 10:15:00"), PlaceID: 1,
				Reporter: sim.Person{FirstName: "Anna", LastName: "Nowak", PhoneNumber: 600123456}},
			{ID: 1, ReportType: "włamanie", Time: at("2016-06-04 23:50:30"), PlaceID: 0,
				Reporter: sim.Person{FirstName: "Jan", LastName: "Kowalski", PhoneNumber: 512345678}},
		},
		Policemen: []sim.Policeman{
			{
				Person: sim.Person{ID: 0, FirstName: "Maria", LastName: "Wójcik",
					BirthDate: day("1988-02-29"), NationalID: 88022912345, PhoneNumber: 700000001},
				State: sim.PolicemanResigned, ServiceNumber: 123456, Rank: "sierżant",
				EmploymentDate: day("2015-06-01"), ResignmentDate: day("2016-01-10"),
			},
			{
				Person: sim.Person{ID: 1, FirstName: "Piotr", LastName: "Zieliński",
					BirthDate: day("1990-11-05"), NationalID: 90110554321, PhoneNumber: 700000002},
				State: sim.PolicemanOccupied, ServiceNumber: 654321, Rank: "aspirant",
				EmploymentDate: day("2015-06-01"), ResignmentDate: day("2030-03-01"),
			},
			{
				Person: sim.Person{ID: 2, FirstName: "Ewa", LastName: "Kamińska",
					BirthDate: day("1985-07-19"), NationalID: 85071911111, PhoneNumber: 700000003},
				State: sim.PolicemanOccupied, ServiceNumber: 222333, Rank: "komisarz",
				EmploymentDate: day("2016-01-17"), ResignmentDate: day("2016-06-05"),
			},
		},
		Vehicles: []sim.Vehicle{
			{ID: 0, Model: "Kia Ceed", RegistrationPlate: "HPW 4K7Z", ManufactureYear: 2012, SeatCount: 5,
				State: sim.VehicleOccupied, VehicleType: "terenowy"},
			{ID: 1, Model: "Škoda Octavia", RegistrationPlate: "HPJ 0A9B", ManufactureYear: 2018, SeatCount: 5,
				State: sim.VehicleAvailable, VehicleType: "terenowy"},
		},
		Patrols: []sim.Patrol{
			{ID: 0, ReportID: 0, PolicemenIDs: [sim.PatrolSize]int{0, 1}, VehicleID: 1,
				SendingTime: at("2016-06-04 10:25:00"), ArrivalTime: at("2016-06-04 10:37:12"), FinishTime: at("2016-06-04 10:52:40")},
			{ID: 1, ReportID: 1, PolicemenIDs: [sim.PatrolSize]int{1, 2}, VehicleID: 0,
				SendingTime: at("2016-06-04 23:58:00"), ArrivalTime: at("2016-06-05 00:00:00"), FinishTime: at("2016-06-05 00:14:05")},
		},
	}
}
