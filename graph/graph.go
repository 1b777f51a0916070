// Package graph holds the search primitives the topology validator and the
// route compiler are built on: plain breadth-first reachability and a
// uniform-cost (hop count) Dijkstra. Both operate on the Mesh view so the
// package stays independent of how the constellation is generated.
package graph

import "math"

// Mesh is the read-only adjacency view the searches traverse. The
// constellation topology satisfies it; tests use small hand-built meshes.
type Mesh interface {
	NodeCount() int
	Adjacent(id int) []int
}

const (
	// Unreachable is the hop distance of a node no search could reach.
	Unreachable = math.MaxInt

	// NoNode marks an absent predecessor or next hop. Deliberately out of
	// range for any satellite id, and not 0, since 0 is a valid satellite.
	NoNode = -1
)

// BFS returns a reachability vector indexed by node id, the source counted
// as reachable from itself. An out-of-range source yields an all-false
// vector instead of an error, so aggregate statistics over many sources
// survive a single bad id. Out-of-range neighbor ids found in the
// adjacency data are skipped rather than crashing on a malformed mesh.
func BFS(m Mesh, src int) []bool {
	n := m.NodeCount()
	visited := make([]bool, n)
	if src < 0 || src >= n {
		return visited
	}

	visited[src] = true
	queue := []int{src}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, neighbor := range m.Adjacent(current) {
			if neighbor < 0 || neighbor >= n || visited[neighbor] {
				continue
			}
			visited[neighbor] = true
			queue = append(queue, neighbor)
		}
	}
	return visited
}

// Distances runs a uniform-cost shortest path search (every ISL hop costs
// 1) and returns the per-node hop count from src. Unreachable nodes keep
// the Unreachable sentinel, as does every node when src is out of range.
func Distances(m Mesh, src int) []int {
	dist, _ := ShortestPathTree(m, src)
	return dist
}

// ShortestPathTree is the predecessor-tracking variant of Distances used
// to extract next hops. prev[v] stays NoNode until v is discovered.
//
// Neighbors relax in adjacency order under strict improvement, so between
// equal-length paths the one discovered first at the lowest distance wins.
// Adjacency order is fixed by the generator, which makes the tie-break
// deterministic across runs.
func ShortestPathTree(m Mesh, src int) (dist, prev []int) {
	n := m.NodeCount()
	dist = make([]int, n)
	prev = make([]int, n)
	for i := range dist {
		dist[i] = Unreachable
		prev[i] = NoNode
	}
	if src < 0 || src >= n {
		return dist, prev
	}

	visited := make([]bool, n)
	dist[src] = 0

	for i := 0; i < n; i++ {
		// pick the unvisited node with the smallest known distance
		u, minDist := NoNode, Unreachable
		for v := 0; v < n; v++ {
			if !visited[v] && dist[v] < minDist {
				u, minDist = v, dist[v]
			}
		}
		if u == NoNode {
			break // everything left is unreachable
		}
		visited[u] = true

		for _, v := range m.Adjacent(u) {
			if v < 0 || v >= n || visited[v] {
				continue
			}
			if next := dist[u] + 1; next < dist[v] {
				dist[v] = next
				prev[v] = u
			}
		}
	}
	return dist, prev
}
