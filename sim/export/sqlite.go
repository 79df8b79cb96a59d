package export

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/patrol-sim/patrol-sim/sim"
)

// Every table is keyed by (run_id, snapshot) so one database can hold many runs.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS snapshots (
		run_id TEXT NOT NULL,
		name TEXT NOT NULL,
		as_of TEXT NOT NULL,
		PRIMARY KEY (run_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS places (
		run_id TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		id INTEGER NOT NULL,
		city TEXT NOT NULL,
		street TEXT NOT NULL,
		PRIMARY KEY (run_id, snapshot, id)
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		run_id TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		id INTEGER NOT NULL,
		place_id INTEGER NOT NULL,
		time TEXT NOT NULL,
		report_type TEXT NOT NULL,
		reporter_phone INTEGER NOT NULL,
		reporter_first_name TEXT NOT NULL,
		reporter_last_name TEXT NOT NULL,
		PRIMARY KEY (run_id, snapshot, id)
	)`,
	`CREATE TABLE IF NOT EXISTS policemen (
		run_id TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		id INTEGER NOT NULL,
		service_number INTEGER NOT NULL,
		rank TEXT NOT NULL,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		birth_date TEXT NOT NULL,
		national_id INTEGER NOT NULL,
		phone INTEGER NOT NULL,
		employment_date TEXT NOT NULL,
		resignment_date TEXT,
		state TEXT NOT NULL,
		PRIMARY KEY (run_id, snapshot, id)
	)`,
	`CREATE TABLE IF NOT EXISTS vehicles (
		run_id TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		id INTEGER NOT NULL,
		registration_plate TEXT NOT NULL,
		model TEXT NOT NULL,
		manufacture_year INTEGER NOT NULL,
		seat_count INTEGER NOT NULL,
		vehicle_type TEXT NOT NULL,
		state TEXT NOT NULL,
		PRIMARY KEY (run_id, snapshot, id)
	)`,
	`CREATE TABLE IF NOT EXISTS patrols (
		run_id TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		id INTEGER NOT NULL,
		report_id INTEGER NOT NULL,
		vehicle_id INTEGER NOT NULL,
		sending_time TEXT NOT NULL,
		arrival_time TEXT,
		finish_time TEXT,
		PRIMARY KEY (run_id, snapshot, id)
	)`,
	`CREATE TABLE IF NOT EXISTS patrol_policemen (
		run_id TEXT NOT NULL,
		snapshot TEXT NOT NULL,
		patrol_id INTEGER NOT NULL,
		policeman_id INTEGER NOT NULL,
		PRIMARY KEY (run_id, snapshot, patrol_id, policeman_id)
	)`,
}

// SQLiteSink stores snapshots in a SQLite database. Times are written as
// "2006-01-02 15:04:05" text, dates as "2006-01-02"; times after the snapshot
// are stored as NULL.
type SQLiteSink struct {
	db    *sql.DB
	runID uuid.UUID
}

var _ sim.SnapshotSink = (*SQLiteSink)(nil)

// NewSQLiteSink opens (or creates) the database at path and prepares the schema.
func NewSQLiteSink(path string, runID uuid.UUID) (*SQLiteSink, error) {
	if path == "" {
		return nil, errors.New("sqlite path must be set")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteSink{db: db, runID: runID}, nil
}

// RunID returns the identifier stamped on every row written by this sink.
func (s *SQLiteSink) RunID() uuid.UUID {
	return s.runID
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}

// Export writes the snapshot in a single transaction. Exporting the same
// snapshot name twice within a run fails.
func (s *SQLiteSink) Export(snap sim.Snapshot) (retErr error) {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	run := s.runID.String()
	if _, err := tx.Exec(`INSERT INTO snapshots (run_id, name, as_of) VALUES (?, ?, ?)`,
		run, snap.Name, snap.AsOf.Format(dateTimeLayout)); err != nil {
		return fmt.Errorf("insert snapshot %q: %w", snap.Name, err)
	}
	writers := []func(*sql.Tx, string, sim.Snapshot) error{
		insertPlaces, insertReports, insertPolicemen, insertVehicles, insertPatrols,
	}
	for _, write := range writers {
		if err := write(tx, run, snap); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// nullableTime is NULL for times after the snapshot.
func nullableTime(t, asOf time.Time, layout string) sql.NullString {
	if !visibleAt(t, asOf) {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(layout), Valid: true}
}

func insertRows(tx *sql.Tx, table, query string, n int, args func(i int) []any) error {
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("prepare %s: %w", table, err)
	}
	defer func() { _ = stmt.Close() }()
	for i := 0; i < n; i++ {
		if _, err := stmt.Exec(args(i)...); err != nil {
			return fmt.Errorf("insert %s row %d: %w", table, i, err)
		}
	}
	return nil
}

func insertPlaces(tx *sql.Tx, run string, snap sim.Snapshot) error {
	return insertRows(tx, "places",
		`INSERT INTO places (run_id, snapshot, id, city, street) VALUES (?, ?, ?, ?, ?)`,
		len(snap.Places), func(i int) []any {
			p := snap.Places[i]
			return []any{run, snap.Name, p.ID, p.City, p.Street}
		})
}

func insertReports(tx *sql.Tx, run string, snap sim.Snapshot) error {
	return insertRows(tx, "reports",
		`INSERT INTO reports (run_id, snapshot, id, place_id, time, report_type,
			reporter_phone, reporter_first_name, reporter_last_name) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(snap.Reports), func(i int) []any {
			r := snap.Reports[i]
			return []any{run, snap.Name, r.ID, r.PlaceID, r.Time.Format(dateTimeLayout), r.ReportType,
				int64(r.Reporter.PhoneNumber), r.Reporter.FirstName, r.Reporter.LastName}
		})
}

func insertPolicemen(tx *sql.Tx, run string, snap sim.Snapshot) error {
	return insertRows(tx, "policemen",
		`INSERT INTO policemen (run_id, snapshot, id, service_number, rank, first_name, last_name,
			birth_date, national_id, phone, employment_date, resignment_date, state)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(snap.Policemen), func(i int) []any {
			p := snap.Policemen[i]
			return []any{run, snap.Name, p.ID(), int64(p.ServiceNumber), p.Rank, p.Person.FirstName, p.Person.LastName,
				p.Person.BirthDate.Format(dateLayout), int64(p.Person.NationalID), int64(p.Person.PhoneNumber),
				p.EmploymentDate.Format(dateLayout), nullableTime(p.ResignmentDate, snap.AsOf, dateLayout), p.State.String()}
		})
}

func insertVehicles(tx *sql.Tx, run string, snap sim.Snapshot) error {
	return insertRows(tx, "vehicles",
		`INSERT INTO vehicles (run_id, snapshot, id, registration_plate, model, manufacture_year,
			seat_count, vehicle_type, state) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		len(snap.Vehicles), func(i int) []any {
			v := snap.Vehicles[i]
			return []any{run, snap.Name, v.ID, v.RegistrationPlate, v.Model, int64(v.ManufactureYear),
				int64(v.SeatCount), v.VehicleType, v.State.String()}
		})
}

func insertPatrols(tx *sql.Tx, run string, snap sim.Snapshot) error {
	err := insertRows(tx, "patrols",
		`INSERT INTO patrols (run_id, snapshot, id, report_id, vehicle_id, sending_time, arrival_time, finish_time)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		len(snap.Patrols), func(i int) []any {
			p := snap.Patrols[i]
			return []any{run, snap.Name, p.ID, p.ReportID, p.VehicleID, p.SendingTime.Format(dateTimeLayout),
				nullableTime(p.ArrivalTime, snap.AsOf, dateTimeLayout), nullableTime(p.FinishTime, snap.AsOf, dateTimeLayout)}
		})
	if err != nil {
		return err
	}
	return insertRows(tx, "patrol_policemen",
		`INSERT INTO patrol_policemen (run_id, snapshot, patrol_id, policeman_id) VALUES (?, ?, ?, ?)`,
		len(snap.Patrols)*sim.PatrolSize, func(i int) []any {
			p := snap.Patrols[i/sim.PatrolSize]
			return []any{run, snap.Name, p.ID, p.PolicemenIDs[i%sim.PatrolSize]}
		})
}
