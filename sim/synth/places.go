package synth

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/patrol-sim/patrol-sim/sim"
)

// PlaceTable is an ordered list of places. It implements sim.PlaceSource.
type PlaceTable []sim.Place

// AllPlaces returns the places in ingestion order.
func (t PlaceTable) AllPlaces() []sim.Place {
	return t
}

// LoadPlaces reads "city,street" records. Ids are assigned in file order,
// starting at 0; comment lines ('#') and blank lines do not consume ids.
func LoadPlaces(r io.Reader) (PlaceTable, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	places := make(PlaceTable, 0)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read places: %w", err)
		}
		city := norm.NFC.String(strings.TrimSpace(record[0]))
		street := norm.NFC.String(strings.TrimSpace(record[1]))
		if city == "" || street == "" {
			line, _ := reader.FieldPos(0)
			return nil, fmt.Errorf("line %d: city and street must both be set", line)
		}
		places = append(places, sim.Place{ID: len(places), City: city, Street: street})
	}
	if len(places) == 0 {
		return nil, errors.New("places table is empty")
	}
	return places, nil
}
