package cmd

import (
	"github.com/google/uuid"

	"github.com/patrol-sim/patrol-sim/sim"
	"github.com/patrol-sim/patrol-sim/sim/export"
)

// buildSink returns the sink for the configured format and a function releasing it.
func buildSink(out OutputConfig, runID uuid.UUID) (sim.SnapshotSink, func() error, error) {
	noop := func() error { return nil }
	if err := out.Validate(); err != nil {
		return nil, noop, err
	}
	csvSink := &export.CSVSink{Dir: out.Dir}
	if out.Format == FormatCSV {
		return csvSink, noop, nil
	}
	dbSink, err := export.NewSQLiteSink(out.SQLitePath, runID)
	if err != nil {
		return nil, noop, err
	}
	if out.Format == FormatSQLite {
		return dbSink, dbSink.Close, nil
	}
	return export.Multi{csvSink, dbSink}, dbSink.Close, nil
}
