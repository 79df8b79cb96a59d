package sim

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

// DurationRange is a half-open interval [Min, Max) of simulated durations.
type DurationRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

// Validate rejects negative bounds and empty intervals.
func (r DurationRange) Validate() error {
	if r.Min < 0 {
		return fmt.Errorf("min %s must not be negative", r.Min)
	}
	if r.Max <= r.Min {
		return fmt.Errorf("max %s must be greater than min %s", r.Max, r.Min)
	}
	return nil
}

// SnapshotConfig schedules one export of the whole state.
type SnapshotConfig struct {
	Name     string    `yaml:"name"`
	Time     time.Time `yaml:"time"`
	Terminal bool      `yaml:"terminal"`
}

// LastNameChangeConfig spreads surname change events over a window.
// A zero Start means "at the first snapshot".
type LastNameChangeConfig struct {
	Count   int           `yaml:"count"`
	Start   time.Time     `yaml:"start,omitempty"`
	Spacing time.Duration `yaml:"spacing"`
}

// Config groups the engine parameters. Entity attribute ranges belong to the
// generator, not to the engine.
type Config struct {
	StartTime        time.Time            `yaml:"start_time"`
	PolicemenCount   int                  `yaml:"policemen_count"`
	VehiclesCount    int                  `yaml:"vehicles_count"`
	TwoPatrolsChance float64              `yaml:"two_patrols_chance"` // probability a report needs two patrols
	ReportInterval   DurationRange        `yaml:"report_interval"`    // between consecutive reports
	DispatchDelay    DurationRange        `yaml:"dispatch_delay"`     // report (or failed attempt) to dispatch attempt
	ReplacementDelay time.Duration        `yaml:"replacement_delay"`  // resignation to replacement hire
	Snapshots        []SnapshotConfig     `yaml:"snapshots"`
	LastNameChanges  LastNameChangeConfig `yaml:"last_name_changes"`
}

// DefaultConfig returns the parameters of the reference dataset.
func DefaultConfig() Config {
	return Config{
		StartTime:        time.Date(2015, 6, 1, 0, 0, 0, 0, time.UTC),
		PolicemenCount:   80,
		VehiclesCount:    60,
		TwoPatrolsChance: 0.1,
		ReportInterval:   DurationRange{Min: 10 * time.Minute, Max: 40 * time.Minute},
		DispatchDelay:    DurationRange{Min: 5 * time.Minute, Max: 15 * time.Minute},
		ReplacementDelay: 7 * 24 * time.Hour,
		Snapshots: []SnapshotConfig{
			{Name: "SNAPSHOT_A_", Time: time.Date(2016, 6, 5, 0, 0, 0, 0, time.UTC)},
			{Name: "SNAPSHOT_B_", Time: time.Date(2017, 6, 10, 0, 0, 0, 0, time.UTC), Terminal: true},
		},
		LastNameChanges: LastNameChangeConfig{Count: 20, Spacing: 24 * time.Hour},
	}
}

// Validate checks the configuration before a run starts.
func (c Config) Validate() error {
	if c.StartTime.IsZero() {
		return errors.New("start_time must be set")
	}
	if c.PolicemenCount < 0 {
		return fmt.Errorf("policemen_count must not be negative, got %d", c.PolicemenCount)
	}
	if c.VehiclesCount < 0 {
		return fmt.Errorf("vehicles_count must not be negative, got %d", c.VehiclesCount)
	}
	if c.TwoPatrolsChance < 0 || c.TwoPatrolsChance > 1 {
		return fmt.Errorf("two_patrols_chance must be in [0, 1], got %v", c.TwoPatrolsChance)
	}
	if err := c.ReportInterval.Validate(); err != nil {
		return fmt.Errorf("report_interval: %w", err)
	}
	if c.ReportInterval.Min == 0 {
		return errors.New("report_interval: min must be positive")
	}
	if err := c.DispatchDelay.Validate(); err != nil {
		return fmt.Errorf("dispatch_delay: %w", err)
	}
	if c.DispatchDelay.Min == 0 {
		return errors.New("dispatch_delay: min must be positive")
	}
	if c.ReplacementDelay < 0 {
		return fmt.Errorf("replacement_delay must not be negative, got %s", c.ReplacementDelay)
	}
	if len(c.Snapshots) == 0 {
		return errors.New("at least one snapshot is required")
	}
	seen := make(map[string]bool, len(c.Snapshots))
	for i, s := range c.Snapshots {
		if s.Name == "" {
			return fmt.Errorf("snapshot %d: name must be set", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("snapshot %q: duplicate name", s.Name)
		}
		seen[s.Name] = true
		if s.Time.Before(c.StartTime) {
			return fmt.Errorf("snapshot %q: time %s is before start_time", s.Name, s.Time.Format(time.RFC3339))
		}
		if i > 0 && s.Time.Before(c.Snapshots[i-1].Time) {
			return fmt.Errorf("snapshot %q: snapshots must be in chronological order", s.Name)
		}
		last := i == len(c.Snapshots)-1
		if s.Terminal != last {
			return fmt.Errorf("snapshot %q: exactly the last snapshot must be terminal", s.Name)
		}
	}
	if c.LastNameChanges.Count < 0 {
		return fmt.Errorf("last_name_changes.count must not be negative, got %d", c.LastNameChanges.Count)
	}
	if c.LastNameChanges.Count > 0 && c.PolicemenCount == 0 {
		return errors.New("last_name_changes requires an initial policemen cohort")
	}
	if !c.LastNameChanges.Start.IsZero() && c.LastNameChanges.Start.Before(c.StartTime) {
		return fmt.Errorf("last_name_changes.start %s is before start_time",
			c.LastNameChanges.Start.Format(time.RFC3339))
	}
	if c.LastNameChanges.Spacing < 0 {
		return fmt.Errorf("last_name_changes.spacing must not be negative, got %s", c.LastNameChanges.Spacing)
	}
	return nil
}

// Draw returns a uniformly distributed duration in [Min, Max). Intervals spanning at
// least one second are drawn in whole seconds.
func (r DurationRange) Draw(rng *rand.Rand) time.Duration {
	span := r.Max - r.Min
	if seconds := int64(span / time.Second); seconds > 0 {
		return r.Min + time.Duration(rng.Int63n(seconds))*time.Second
	}
	return r.Min + time.Duration(rng.Int63n(int64(span)))
}

// lastNameChangeStart resolves the first surname change time.
func (c Config) lastNameChangeStart() time.Time {
	if !c.LastNameChanges.Start.IsZero() {
		return c.LastNameChanges.Start
	}
	return c.Snapshots[0].Time
}
