package synth

import (
	"embed"
	"fmt"
)

//go:embed data/*.csv
var dataFS embed.FS

// Embedded data files.
const (
	FirstNamesFile    = "first_names.csv"
	LastNamesFile     = "last_names.csv"
	RanksFile         = "ranks.csv"
	VehicleModelsFile = "vehicle_models.csv"
	PlateCodesFile    = "registration_plate_codes.csv"
	ReportTypesFile   = "report_types.csv"
	PlacesFile        = "places.csv"
)

// Tables bundles the frequency tables the generator draws from.
type Tables struct {
	FirstNames    *FrequencyTable
	LastNames     *FrequencyTable
	Ranks         *FrequencyTable
	VehicleModels *FrequencyTable
	PlateCodes    *FrequencyTable
	ReportTypes   *FrequencyTable
}

func loadEmbeddedTable(name string, opts ...ParseOption) (*FrequencyTable, error) {
	f, err := dataFS.Open("data/" + name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	table, err := ParseFrequencyTable(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return table, nil
}

// DefaultTables parses the embedded frequency tables.
func DefaultTables() (Tables, error) {
	var t Tables
	var err error
	if t.FirstNames, err = loadEmbeddedTable(FirstNamesFile, WithTitleCase()); err != nil {
		return Tables{}, err
	}
	if t.LastNames, err = loadEmbeddedTable(LastNamesFile, WithTitleCase()); err != nil {
		return Tables{}, err
	}
	if t.Ranks, err = loadEmbeddedTable(RanksFile); err != nil {
		return Tables{}, err
	}
	if t.VehicleModels, err = loadEmbeddedTable(VehicleModelsFile); err != nil {
		return Tables{}, err
	}
	if t.PlateCodes, err = loadEmbeddedTable(PlateCodesFile); err != nil {
		return Tables{}, err
	}
	if t.ReportTypes, err = loadEmbeddedTable(ReportTypesFile); err != nil {
		return Tables{}, err
	}
	return t, nil
}

// DefaultPlaces parses the embedded places table.
func DefaultPlaces() (PlaceTable, error) {
	f, err := dataFS.Open("data/" + PlacesFile)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	places, err := LoadPlaces(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", PlacesFile, err)
	}
	return places, nil
}
