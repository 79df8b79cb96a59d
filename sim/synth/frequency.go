package synth

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// FrequencyEntry is one label of a frequency table and its occurrence count.
type FrequencyEntry struct {
	Label  string
	Weight uint32
}

// FrequencyTable draws labels with probability proportional to their weight.
type FrequencyTable struct {
	entries    []FrequencyEntry
	cumulative []uint64 // cumulative[i] = sum of weights of entries[0..i]
}

type parseOptions struct {
	titleCase bool
}

// ParseOption tunes ParseFrequencyTable.
type ParseOption func(*parseOptions)

// WithTitleCase rewrites labels in Polish title case, for registry exports that
// spell names in capitals ("MAŁGORZATA" -> "Małgorzata").
func WithTitleCase() ParseOption {
	return func(o *parseOptions) { o.titleCase = true }
}

// ParseFrequencyTable reads "label,weight" records. Blank lines and lines starting
// with '#' are skipped. Labels are NFC-normalised. A weight that is not a
// non-negative integer, a duplicate label, or a zero total weight is an error.
func ParseFrequencyTable(r io.Reader, opts ...ParseOption) (*FrequencyTable, error) {
	var o parseOptions
	for _, opt := range opts {
		opt(&o)
	}
	var caser cases.Caser
	if o.titleCase {
		caser = cases.Title(language.Polish)
	}

	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.FieldsPerRecord = 2
	reader.TrimLeadingSpace = true

	t := &FrequencyTable{}
	seen := make(map[string]bool)
	var total uint64
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read frequency table: %w", err)
		}
		line, _ := reader.FieldPos(0)

		label := norm.NFC.String(strings.TrimSpace(record[0]))
		if o.titleCase {
			label = caser.String(label)
		}
		if label == "" {
			return nil, fmt.Errorf("line %d: empty label", line)
		}
		if seen[label] {
			return nil, fmt.Errorf("line %d: duplicate label %q", line, label)
		}
		seen[label] = true

		weight, err := strconv.ParseUint(strings.TrimSpace(record[1]), 10, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: weight %q of %q is not a non-negative integer: %w", line, record[1], label, err)
		}
		total += weight
		t.entries = append(t.entries, FrequencyEntry{Label: label, Weight: uint32(weight)})
		t.cumulative = append(t.cumulative, total)
	}
	if total == 0 {
		return nil, errors.New("frequency table has no weight")
	}
	return t, nil
}

// Draw returns a label chosen with probability weight/total.
func (t *FrequencyTable) Draw(rng *rand.Rand) string {
	v := uint64(rng.Int63n(int64(t.Total())))
	i := sort.Search(len(t.cumulative), func(i int) bool { return t.cumulative[i] > v })
	return t.entries[i].Label
}

// Total returns the sum of all weights.
func (t *FrequencyTable) Total() uint64 {
	return t.cumulative[len(t.cumulative)-1]
}

// Entries returns a copy of the table's entries in file order.
func (t *FrequencyTable) Entries() []FrequencyEntry {
	return append([]FrequencyEntry(nil), t.entries...)
}
