package export

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrol-sim/patrol-sim/sim"
)

type countingSink struct {
	names []string
	err   error
}

func (s *countingSink) Export(snap sim.Snapshot) error {
	if s.err != nil {
		return s.err
	}
	s.names = append(s.names, snap.Name)
	return nil
}

func TestMulti_ExportsToEverySink(t *testing.T) {
	a, b := &countingSink{}, &countingSink{}

	require.NoError(t, Multi{a, b}.Export(fixtureSnapshot()))

	assert.Equal(t, []string{"SNAPSHOT_A_"}, a.names)
	assert.Equal(t, []string{"SNAPSHOT_A_"}, b.names)
}

func TestMulti_StopsAtFirstError(t *testing.T) {
	broken := errors.New("disk full")
	a, b, c := &countingSink{}, &countingSink{err: broken}, &countingSink{}

	err := Multi{a, b, c}.Export(fixtureSnapshot())

	require.ErrorIs(t, err, broken)
	assert.Contains(t, err.Error(), "sink 1")
	assert.Len(t, a.names, 1)
	assert.Empty(t, c.names)
}
