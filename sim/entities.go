package sim

import "time"

// Place is a location a report can be filed for. Places are loaded once and never change.
type Place struct {
	ID     int
	City   string
	Street string
}

// Person holds personal data shared by policemen and report reporters.
type Person struct {
	ID          int
	FirstName   string
	LastName    string
	BirthDate   time.Time
	PhoneNumber uint64
	NationalID  uint64 // PESEL-like: YYMMDD followed by a 5 digit suffix
}

// Rename replaces the surname. It is the only mutation a Person ever sees.
func (p *Person) Rename(lastName string) {
	p.LastName = lastName
}

// PolicemanState is the availability of a policeman for dispatch.
type PolicemanState int

const (
	PolicemanAvailable PolicemanState = iota
	PolicemanOccupied
	PolicemanResigned
)

func (s PolicemanState) String() string {
	switch s {
	case PolicemanAvailable:
		return "available"
	case PolicemanOccupied:
		return "occupied"
	case PolicemanResigned:
		return "resigned"
	default:
		return "unknown"
	}
}

// Policeman is an employed officer. Person.ID doubles as the policeman id.
//
// ResignmentDate is fixed when the policeman is generated. The state only moves to
// Resigned when a patrol finishes at or after that date; an idle policeman past the
// date stays Available and can still be dispatched.
type Policeman struct {
	Person         Person
	State          PolicemanState
	ServiceNumber  uint32
	Rank           string
	EmploymentDate time.Time
	ResignmentDate time.Time
}

// ID returns the registry id of the policeman.
func (p *Policeman) ID() int {
	return p.Person.ID
}

// VehicleState is the availability of a vehicle for dispatch.
type VehicleState int

const (
	VehicleAvailable VehicleState = iota
	VehicleOccupied
)

func (s VehicleState) String() string {
	switch s {
	case VehicleAvailable:
		return "available"
	case VehicleOccupied:
		return "occupied"
	default:
		return "unknown"
	}
}

// Vehicle is a patrol car.
type Vehicle struct {
	ID                int
	Model             string
	RegistrationPlate string
	ManufactureYear   uint32
	SeatCount         uint32
	State             VehicleState
	VehicleType       string
}

// Report is an incident reported by a member of the public.
// Reporter is a copy and is never linked to a policeman.
type Report struct {
	ID         int
	ReportType string
	Time       time.Time
	Reporter   Person
	PlaceID    int
}

// PatrolSize is the number of policemen sent on every patrol.
const PatrolSize = 2

// Patrol is a dispatch of two policemen and one vehicle to a report.
type Patrol struct {
	ID           int
	ReportID     int
	PolicemenIDs [PatrolSize]int
	VehicleID    int
	SendingTime  time.Time
	ArrivalTime  time.Time
	FinishTime   time.Time
}
