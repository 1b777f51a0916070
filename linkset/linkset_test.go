package linkset_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethene/dymen-sim/linkset"
	"github.com/ethene/dymen-sim/routing"
	"github.com/ethene/dymen-sim/space"
	"github.com/ethene/dymen-sim/topology"
)

func plannedMesh(t *testing.T) (topology.Topology, map[string]linkset.LinkDetails) {
	t.Helper()
	topo := topology.GenerateWalkerDeltaTopology(24, 4)
	links, err := linkset.Build(topo, space.WalkerDeltaPositions(0))
	require.NoError(t, err)
	return topo, links
}

func TestLinkName(t *testing.T) {
	name, swapped := linkset.LinkName(3, 11)
	assert.Equal(t, "S3-S11", name)
	assert.False(t, swapped)

	name, swapped = linkset.LinkName(11, 3)
	assert.Equal(t, "S3-S11", name)
	assert.True(t, swapped)
}

func TestBuildPlansEveryLink(t *testing.T) {
	topo, links := plannedMesh(t)
	require.Len(t, links, topo.LinkCount)

	subnets := make(map[string]string)
	for name, details := range links {
		assert.Equal(t, name, details.Name)
		assert.Less(t, details.NodeOne, details.NodeTwo)
		assert.True(t, strings.HasSuffix(details.Subnet, ".0/30"), details.Subnet)
		assert.Equal(t, linkset.DataRate, details.DataRate)
		assert.Greater(t, details.DistanceKm, 0.0)
		assert.Greater(t, details.Delay, time.Duration(0))
		// a LEO ISL is a few ms at most
		assert.Less(t, details.Delay, 100*time.Millisecond)

		if prev, dup := subnets[details.Subnet]; dup {
			t.Fatalf("subnet %s assigned to both %s and %s", details.Subnet, prev, name)
		}
		subnets[details.Subnet] = name
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	topo := topology.GenerateWalkerDeltaTopology(24, 4)

	_, err := linkset.Build(topology.Topology{}, nil)
	assert.Error(t, err, "empty topology")

	_, err = linkset.Build(topo, space.WalkerDeltaPositions(0)[:10])
	assert.Error(t, err, "position count mismatch")

	disconnected := topology.Topology{
		SatelliteCount: 2,
		Neighbors:      map[int][]int{0: {}, 1: {}},
	}
	_, err = linkset.Build(disconnected, []space.Vector3{{}, {X: 100}})
	assert.Error(t, err, "disconnected mesh must not reach the installer")
}

func TestRouteCommandsCoverAllPairs(t *testing.T) {
	topo, links := plannedMesh(t)
	table := routing.ComputeStaticRoutes(topo)

	commands := linkset.RouteCommands(topo, table, links)
	require.Len(t, commands, topo.SatelliteCount)
	for src, cmds := range commands {
		assert.Lenf(t, cmds, topo.SatelliteCount-1, "satellite %d needs a route to every other satellite", src)
		for _, cmd := range cmds {
			assert.Regexp(t, `^ip route replace 10\.\d+\.\d+\.[12] via 10\.\d+\.\d+\.[12]$`, cmd)
		}
	}
}

func TestRouteCommandsDropNonNeighborHops(t *testing.T) {
	topo, links := plannedMesh(t)

	corrupted := routing.NewTable()
	corrupted.SetNextHop(0, 12, 12) // 12 is two planes of slots away, not adjacent to 0

	commands := linkset.RouteCommands(topo, corrupted, links)
	assert.Empty(t, commands[0])
}
