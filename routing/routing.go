// Package routing compiles all-pairs next-hop tables over the ISL mesh.
// One predecessor-tracking shortest path search per source, then a
// trace-back from every destination to extract the first hop. For
// constellation-scale meshes (tens of nodes) the whole compilation is a
// few thousand operations.
package routing

import (
	"github.com/ethene/dymen-sim/graph"
	"github.com/ethene/dymen-sim/topology"
)

// NoRoute is returned when a (src, dst) pair has no table entry. It is an
// out-of-range id on purpose: 0 is a valid satellite, so absence must
// never default to it. Missing routes are an expected outcome, not an
// error.
const NoRoute = graph.NoNode

// maxTraversal caps HopCount walks. The visited set already breaks
// cycles; the cap is a second, independent net against unbounded
// traversal of a malformed table.
const maxTraversal = 100

// Table maps source -> destination -> next hop. Built once per topology
// and treated as immutable afterwards. Every recorded hop is a direct
// neighbor of its source in the topology that produced the table.
type Table struct {
	nextHop map[int]map[int]int
}

// NewTable returns an empty table.
func NewTable() Table {
	return Table{nextHop: make(map[int]map[int]int)}
}

// NextHop returns the recorded next hop for (src, dst), or NoRoute when
// src has no entries or no entry for dst. Never fails on unknown ids.
func (t Table) NextHop(src, dst int) int {
	row, ok := t.nextHop[src]
	if !ok {
		return NoRoute
	}
	hop, ok := row[dst]
	if !ok {
		return NoRoute
	}
	return hop
}

// SetNextHop records dst -> hop under src.
func (t Table) SetNextHop(src, dst, hop int) {
	row, ok := t.nextHop[src]
	if !ok {
		row = make(map[int]int)
		t.nextHop[src] = row
	}
	row[dst] = hop
}

// AllNextHops returns a copy of every destination -> hop entry for src,
// for installers that write out a whole forwarding table at once.
func (t Table) AllNextHops(src int) map[int]int {
	row := t.nextHop[src]
	hops := make(map[int]int, len(row))
	for dst, hop := range row {
		hops[dst] = hop
	}
	return hops
}

// ComputeStaticRoutes builds the all-pairs table for the given topology.
// Destinations the search cannot reach get no entry; with the fully
// connected Walker-Delta mesh that never happens, but callers must treat
// a missing entry as "no route" rather than an error either way.
func ComputeStaticRoutes(topo topology.Topology) Table {
	routes := NewTable()

	for src := 0; src < topo.SatelliteCount; src++ {
		dist, prev := graph.ShortestPathTree(topo, src)

		for dst := 0; dst < topo.SatelliteCount; dst++ {
			if dst == src || dist[dst] == graph.Unreachable {
				continue
			}

			// walk predecessors back from dst; the node whose predecessor
			// is src is the first hop on the path
			current := dst
			for prev[current] != src && prev[current] != graph.NoNode {
				current = prev[current]
			}
			if prev[current] == graph.NoNode {
				continue // broken predecessor chain, treat as unreachable
			}
			routes.SetNextHop(src, dst, current)
		}
	}
	return routes
}

// HopCount walks next-hop pointers from src toward dst and counts link
// traversals. src == dst is 0 hops. A missing entry, a revisited node, or
// a walk past maxTraversal steps all yield NoRoute; a correctly compiled
// table is acyclic, so the latter two only fire on corrupted input.
func HopCount(tbl Table, src, dst int) int {
	if src == dst {
		return 0
	}

	hops := 0
	current := src
	visited := make(map[int]bool)
	for current != dst {
		if visited[current] {
			return NoRoute // loop detected
		}
		visited[current] = true

		current = tbl.NextHop(current, dst)
		if current == NoRoute {
			return NoRoute
		}

		hops++
		if hops > maxTraversal {
			return NoRoute
		}
	}
	return hops
}
