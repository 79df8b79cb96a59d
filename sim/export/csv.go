// Package export provides snapshot sinks: CSV files in the layout of the
// reference dataset, a SQLite database, and a fan-out over several sinks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/patrol-sim/patrol-sim/sim"
)

// Snapshot file suffixes. The full file name is the snapshot name followed by the suffix.
const (
	PlacesFile           = "places.csv"
	ReportsFile          = "reports.csv"
	PolicemenDBFile      = "policemen_db.csv"
	PolicemenCSVFile     = "policemen_csv.csv"
	VehicleDBFile        = "vehicle_db.csv"
	VehicleCSVFile       = "vehicle_csv.csv"
	PatrolsFile          = "patrols.csv"
	PolicemenPatrolsFile = "policemen_patrols.csv"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04:05"
)

// CSVSink writes every snapshot as eight header-less CSV files in Dir.
type CSVSink struct {
	Dir string
}

var _ sim.SnapshotSink = (*CSVSink)(nil)

type tableWriter struct {
	file  string
	write func(w *csv.Writer, snap sim.Snapshot) error
}

var csvTables = []tableWriter{
	{PlacesFile, writePlaces},
	{ReportsFile, writeReports},
	{PolicemenDBFile, writePolicemenDB},
	{PolicemenCSVFile, writePolicemenCSV},
	{VehicleCSVFile, writeVehicleCSV},
	{VehicleDBFile, writeVehicleDB},
	{PatrolsFile, writePatrols},
	{PolicemenPatrolsFile, writePolicemenPatrols},
}

// Export writes the eight files of the snapshot, replacing files of the same name.
func (s *CSVSink) Export(snap sim.Snapshot) error {
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	for _, t := range csvTables {
		path := filepath.Join(s.Dir, snap.Name+t.file)
		if err := writeCSVFile(path, snap, t.write); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func writeCSVFile(path string, snap sim.Snapshot, write func(*csv.Writer, sim.Snapshot) error) (retErr error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil && retErr == nil {
			retErr = err
		}
	}()
	return writeTable(f, snap, write)
}

// writeTable renders one table of the snapshot with the given row writer.
func writeTable(out io.Writer, snap sim.Snapshot, write func(*csv.Writer, sim.Snapshot) error) error {
	w := csv.NewWriter(out)
	if err := write(w, snap); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

// visibleAt reports whether a timestamp had already happened at the snapshot time.
func visibleAt(t, asOf time.Time) bool {
	return !t.After(asOf)
}

func maskedTime(t, asOf time.Time, layout string) string {
	if !visibleAt(t, asOf) {
		return ""
	}
	return t.Format(layout)
}

func itoa(v int) string { return strconv.Itoa(v) }

func utoa(v uint64) string { return strconv.FormatUint(v, 10) }

func writePlaces(w *csv.Writer, snap sim.Snapshot) error {
	for _, p := range snap.Places {
		if err := w.Write([]string{itoa(p.ID), p.City, p.Street}); err != nil {
			return err
		}
	}
	return nil
}

func writeReports(w *csv.Writer, snap sim.Snapshot) error {
	for _, r := range snap.Reports {
		record := []string{
			itoa(r.ID),
			itoa(r.PlaceID),
			r.Time.Format(dateTimeLayout),
			r.ReportType,
			utoa(r.Reporter.PhoneNumber),
			r.Reporter.FirstName,
			r.Reporter.LastName,
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writePolicemenDB(w *csv.Writer, snap sim.Snapshot) error {
	for _, p := range snap.Policemen {
		if err := w.Write([]string{itoa(p.Person.ID), utoa(uint64(p.ServiceNumber))}); err != nil {
			return err
		}
	}
	return nil
}

func writePolicemenCSV(w *csv.Writer, snap sim.Snapshot) error {
	for _, p := range snap.Policemen {
		record := []string{
			utoa(uint64(p.ServiceNumber)),
			p.Person.BirthDate.Format(dateLayout),
			p.EmploymentDate.Format(dateLayout),
			p.Person.FirstName,
			p.Person.LastName,
			utoa(p.Person.NationalID),
			maskedTime(p.ResignmentDate, snap.AsOf, dateLayout),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeVehicleCSV(w *csv.Writer, snap sim.Snapshot) error {
	for _, v := range snap.Vehicles {
		record := []string{
			v.RegistrationPlate,
			v.Model,
			utoa(uint64(v.ManufactureYear)),
			utoa(uint64(v.SeatCount)),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeVehicleDB(w *csv.Writer, snap sim.Snapshot) error {
	for _, v := range snap.Vehicles {
		if err := w.Write([]string{itoa(v.ID), v.RegistrationPlate, v.VehicleType}); err != nil {
			return err
		}
	}
	return nil
}

func writePatrols(w *csv.Writer, snap sim.Snapshot) error {
	for _, p := range snap.Patrols {
		record := []string{
			itoa(p.ID),
			itoa(p.VehicleID),
			itoa(p.ReportID),
			p.SendingTime.Format(dateTimeLayout),
			maskedTime(p.ArrivalTime, snap.AsOf, dateTimeLayout),
			maskedTime(p.FinishTime, snap.AsOf, dateTimeLayout),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writePolicemenPatrols(w *csv.Writer, snap sim.Snapshot) error {
	for _, p := range snap.Patrols {
		for _, pid := range p.PolicemenIDs {
			if err := w.Write([]string{itoa(p.ID), itoa(pid)}); err != nil {
				return err
			}
		}
	}
	return nil
}
