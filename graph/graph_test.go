package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethene/dymen-sim/graph"
)

// adjacency is a minimal Mesh for exercising the searches directly.
type adjacency map[int][]int

func (a adjacency) NodeCount() int        { return len(a) }
func (a adjacency) Adjacent(id int) []int { return a[id] }

// 0 - 1 - 2 - 3 in a line, 4 isolated.
func lineMesh() adjacency {
	return adjacency{
		0: {1},
		1: {0, 2},
		2: {1, 3},
		3: {2},
		4: {},
	}
}

func TestBFSLine(t *testing.T) {
	reachable := graph.BFS(lineMesh(), 0)
	require.Len(t, reachable, 5)
	assert.Equal(t, []bool{true, true, true, true, false}, reachable)
}

func TestBFSSourceOutOfRange(t *testing.T) {
	m := lineMesh()
	for _, src := range []int{-1, 5, 100} {
		reachable := graph.BFS(m, src)
		require.Len(t, reachable, 5)
		for id, ok := range reachable {
			assert.Falsef(t, ok, "node %d should not be reachable from bad source %d", id, src)
		}
	}
}

func TestBFSIgnoresMalformedNeighbors(t *testing.T) {
	m := adjacency{
		0: {1, 99, -7}, // out-of-range entries must be skipped, not crash
		1: {0},
	}
	reachable := graph.BFS(m, 0)
	assert.Equal(t, []bool{true, true}, reachable)
}

func TestDistancesLine(t *testing.T) {
	dist := graph.Distances(lineMesh(), 0)
	assert.Equal(t, []int{0, 1, 2, 3, graph.Unreachable}, dist)
}

func TestDistancesSourceOutOfRange(t *testing.T) {
	dist := graph.Distances(lineMesh(), 42)
	require.Len(t, dist, 5)
	for _, d := range dist {
		assert.Equal(t, graph.Unreachable, d)
	}
}

func TestShortestPathTreePredecessors(t *testing.T) {
	dist, prev := graph.ShortestPathTree(lineMesh(), 0)

	assert.Equal(t, graph.NoNode, prev[0], "source has no predecessor")
	assert.Equal(t, 0, prev[1])
	assert.Equal(t, 1, prev[2])
	assert.Equal(t, 2, prev[3])
	assert.Equal(t, graph.NoNode, prev[4], "isolated node has no predecessor")

	// walking predecessors from any reached node must shrink the distance
	// by exactly one per step until the source
	for v := 1; v <= 3; v++ {
		assert.Equal(t, dist[v]-1, dist[prev[v]])
	}
}

// A ring gives two equal-length paths to the opposite node; the tie must
// resolve the same way on every invocation.
func TestShortestPathTreeDeterministicTieBreak(t *testing.T) {
	ring := adjacency{
		0: {1, 3},
		1: {0, 2},
		2: {1, 3},
		3: {2, 0},
	}
	_, first := graph.ShortestPathTree(ring, 0)
	for i := 0; i < 10; i++ {
		_, again := graph.ShortestPathTree(ring, 0)
		assert.Equal(t, first, again)
	}
	// node 2 is 2 hops away via 1 or via 3; adjacency order says via 1
	assert.Equal(t, 1, first[2])
}
