package export

import (
	"fmt"

	"github.com/patrol-sim/patrol-sim/sim"
)

// Multi exports every snapshot to each sink in order and stops at the first failure.
type Multi []sim.SnapshotSink

var _ sim.SnapshotSink = Multi(nil)

func (m Multi) Export(snap sim.Snapshot) error {
	for i, sink := range m {
		if err := sink.Export(snap); err != nil {
			return fmt.Errorf("sink %d (%T): %w", i, sink, err)
		}
	}
	return nil
}
