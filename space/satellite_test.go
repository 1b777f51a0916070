package space_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethene/dymen-sim/space"
)

func TestWalkerDeltaPositionsShape(t *testing.T) {
	positions := space.WalkerDeltaPositions(0)
	require.Len(t, positions, 24)

	origin := space.Vector3{}
	for i, pos := range positions {
		assert.InDeltaf(t, space.OrbitRadiusKm, origin.Distance(pos), 1e-6,
			"satellite %d must sit on the orbital shell", i)
	}
}

func TestWalkerDeltaPositionsDistinct(t *testing.T) {
	positions := space.WalkerDeltaPositions(0)
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			assert.Greaterf(t, positions[i].Distance(positions[j]), 1.0,
				"satellites %d and %d overlap", i, j)
		}
	}
}

func TestWalkerDeltaPositionsAdvance(t *testing.T) {
	at0 := space.WalkerDeltaPositions(0)
	later := space.WalkerDeltaPositions(time.Minute)
	moved := at0[0].Distance(later[0])
	assert.Greater(t, moved, 100.0, "a LEO satellite covers hundreds of km per minute")
	assert.Less(t, moved, 1000.0)
}

func TestLatency(t *testing.T) {
	assert.InDelta(t, 1.0, space.Latency(299792.458), 1e-9)
	assert.InDelta(t, 0.01, space.Latency(2997.92458), 1e-9)
}

func TestReachable(t *testing.T) {
	a := space.Vector3{X: 0, Y: 0, Z: 0}
	b := space.Vector3{X: 3, Y: 4, Z: 0}
	assert.True(t, space.Reachable(a, b, 5))
	assert.True(t, space.Reachable(a, b, 5.1))
	assert.False(t, space.Reachable(a, b, 4.9))
}

func TestLLAFromPositionRange(t *testing.T) {
	at := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)
	for _, pos := range space.WalkerDeltaPositions(0) {
		ll := space.LLAFromPosition(pos, at)
		assert.GreaterOrEqual(t, ll.Latitude, -90.0)
		assert.LessOrEqual(t, ll.Latitude, 90.0)
	}
}
