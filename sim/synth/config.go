package synth

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/patrol-sim/patrol-sim/sim"
)

// IntRange is a half-open integer interval [Min, Max).
type IntRange struct {
	Min int64 `yaml:"min"`
	Max int64 `yaml:"max"`
}

// Draw returns a uniformly distributed value in [Min, Max).
func (r IntRange) Draw(rng *rand.Rand) int64 {
	return r.Min + rng.Int63n(r.Max-r.Min)
}

// Validate rejects empty intervals.
func (r IntRange) Validate() error {
	if r.Max <= r.Min {
		return fmt.Errorf("max %d must be greater than min %d", r.Max, r.Min)
	}
	return nil
}

// Config holds the attribute ranges used to synthesize entities.
type Config struct {
	BirthDateFrom       time.Time         `yaml:"birth_date_from"` // reporters only; policemen derive birth from employment
	BirthDateTo         time.Time         `yaml:"birth_date_to"`
	AgeAtEmploymentDays IntRange          `yaml:"age_at_employment_days"`
	ServiceDays         IntRange          `yaml:"service_days"` // employment to resignment
	ServiceNumber       IntRange          `yaml:"service_number"`
	PhoneNumber         IntRange          `yaml:"phone_number"`
	NationalIDSuffix    IntRange          `yaml:"national_id_suffix"`
	ManufactureYear     IntRange          `yaml:"manufacture_year"`
	SeatCount           uint32            `yaml:"seat_count"`
	VehicleType         string            `yaml:"vehicle_type"`
	PlateLength         int               `yaml:"plate_length"`
	Travel              sim.DurationRange `yaml:"travel"`   // sending to arrival
	Handling            sim.DurationRange `yaml:"handling"` // arrival to finish
}

// DefaultConfig returns the ranges of the reference dataset.
func DefaultConfig() Config {
	return Config{
		BirthDateFrom:       time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC),
		BirthDateTo:         time.Date(1995, 12, 1, 0, 0, 0, 0, time.UTC),
		AgeAtEmploymentDays: IntRange{Min: 7670, Max: 12783}, // 21 to 35 years
		ServiceDays:         IntRange{Min: 365, Max: 7305},   // 1 to 20 years
		ServiceNumber:       IntRange{Min: 100000, Max: 999999},
		PhoneNumber:         IntRange{Min: 100000000, Max: 999999999},
		NationalIDSuffix:    IntRange{Min: 10000, Max: 99999},
		ManufactureYear:     IntRange{Min: 2005, Max: 2020},
		SeatCount:           5,
		VehicleType:         "terenowy",
		PlateLength:         8,
		Travel:              sim.DurationRange{Min: 5 * time.Minute, Max: 20 * time.Minute},
		Handling:            sim.DurationRange{Min: 5 * time.Minute, Max: 20 * time.Minute},
	}
}

// Validate checks the ranges before any entity is generated.
func (c Config) Validate() error {
	if !c.BirthDateFrom.Before(c.BirthDateTo) {
		return errors.New("birth_date_from must be before birth_date_to")
	}
	ranges := []struct {
		name string
		r    IntRange
	}{
		{"age_at_employment_days", c.AgeAtEmploymentDays},
		{"service_days", c.ServiceDays},
		{"service_number", c.ServiceNumber},
		{"phone_number", c.PhoneNumber},
		{"national_id_suffix", c.NationalIDSuffix},
		{"manufacture_year", c.ManufactureYear},
	}
	for _, nr := range ranges {
		if err := nr.r.Validate(); err != nil {
			return fmt.Errorf("%s: %w", nr.name, err)
		}
	}
	if c.AgeAtEmploymentDays.Min < 0 || c.ServiceDays.Min < 0 {
		return errors.New("age_at_employment_days and service_days must not be negative")
	}
	if c.ServiceNumber.Min < 0 || c.ServiceNumber.Max-1 > int64(^uint32(0)) {
		return errors.New("service_number must fit in 32 bits")
	}
	if c.PhoneNumber.Min < 0 || c.NationalIDSuffix.Min < 0 || c.NationalIDSuffix.Max > 100000 {
		return errors.New("phone_number must be positive and national_id_suffix must have at most 5 digits")
	}
	if c.ManufactureYear.Min < 0 {
		return errors.New("manufacture_year must not be negative")
	}
	if c.PlateLength <= 0 {
		return fmt.Errorf("plate_length must be positive, got %d", c.PlateLength)
	}
	if err := c.Travel.Validate(); err != nil {
		return fmt.Errorf("travel: %w", err)
	}
	if err := c.Handling.Validate(); err != nil {
		return fmt.Errorf("handling: %w", err)
	}
	return nil
}
