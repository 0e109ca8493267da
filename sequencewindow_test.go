package smb2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceWindowStartsWithOneCredit(t *testing.T) {
	w := newSequenceWindow()
	assert.Equal(t, uint64(1), w.Available())
}

func TestSequenceWindowGetIsContiguousAndAdvancing(t *testing.T) {
	w := newSequenceWindow()
	w.CreditsGranted(10)

	first := w.Get(3)
	require.Equal(t, []uint64{0, 1, 2}, first)

	second := w.Get(2)
	require.Equal(t, []uint64{3, 4}, second)

	// every issued id is strictly greater than all previously issued ones.
	for _, id := range second {
		for _, prev := range first {
			assert.Greater(t, id, prev)
		}
	}
}

func TestSequenceWindowGetDecrementsCredits(t *testing.T) {
	w := newSequenceWindow()
	w.CreditsGranted(9) // available = 10
	w.Get(4)
	assert.Equal(t, uint64(6), w.Available())
}

func TestSequenceWindowCreditsGrantedZeroIsNoop(t *testing.T) {
	w := newSequenceWindow()
	before := w.Available()
	w.CreditsGranted(0)
	assert.Equal(t, before, w.Available())
}

func TestSequenceWindowGetPanicsOnZero(t *testing.T) {
	w := newSequenceWindow()
	assert.Panics(t, func() { w.Get(0) })
}
