// Package topology generates the fixed ISL neighbor mesh for the
// Walker-Delta 53:24/3/1 constellation.
//
// Each satellite gets 2 intra-plane neighbors (previous and next in its
// orbital plane) and 2 inter-plane neighbors (same slot index in both
// adjacent planes). The fixed-index approach is what Starlink ("+Grid",
// 4 laser terminals) and Iridium (4 Ka-band cross-links) fly: links never
// depend on orbital phasing or physical distance, so they stay up for the
// whole simulation horizon and no re-topology computation is ever needed.
package topology

import (
	"sort"

	"github.com/ethene/dymen-sim/graph"
)

// The one validated constellation shape. Kept as named constants on
// purpose: the generator refuses anything else rather than silently
// generalizing beyond what has been validated.
const (
	NumPlanes             = 3
	SatsPerPlane          = 8
	WalkerDeltaSatellites = NumPlanes * SatsPerPlane
	IslNeighbors          = 4
)

// Topology is the ISL neighbor relation: satellite id -> neighbor ids in
// generation order (forward, backward, next plane, previous plane). The
// relation is symmetric and self-loop free. Immutable once generated.
type Topology struct {
	SatelliteCount int
	Neighbors      map[int][]int
	LinkCount      int
}

// Link is one undirected ISL, normalized so A < B.
type Link struct {
	A, B int
}

// NodeCount implements graph.Mesh.
func (t Topology) NodeCount() int { return t.SatelliteCount }

// Adjacent implements graph.Mesh.
func (t Topology) Adjacent(id int) []int { return t.Neighbors[id] }

// GenerateWalkerDeltaTopology builds the 4-neighbor ISL mesh. Satellite id
// = plane*SatsPerPlane + slot. Only the validated (24, 4) shape is
// supported; any other combination returns the zero Topology, which
// callers must check for before proceeding.
func GenerateWalkerDeltaTopology(satelliteCount, neighborDegree int) Topology {
	var t Topology
	if satelliteCount != WalkerDeltaSatellites || neighborDegree != IslNeighbors {
		return t
	}

	t.SatelliteCount = satelliteCount
	t.Neighbors = make(map[int][]int, satelliteCount)

	for plane := 0; plane < NumPlanes; plane++ {
		for slot := 0; slot < SatsPerPlane; slot++ {
			satID := plane*SatsPerPlane + slot

			forward := plane*SatsPerPlane + (slot+1)%SatsPerPlane
			backward := plane*SatsPerPlane + (slot+SatsPerPlane-1)%SatsPerPlane

			nextPlane := (plane + 1) % NumPlanes
			prevPlane := (plane + NumPlanes - 1) % NumPlanes

			t.Neighbors[satID] = []int{
				forward,
				backward,
				nextPlane*SatsPerPlane + slot,
				prevPlane*SatsPerPlane + slot,
			}
		}
	}

	t.LinkCount = len(t.Links())
	return t
}

// Links returns every undirected ISL exactly once, ascending by (A, B).
// Both directions of a neighbor pair normalize to the same Link, which is
// how LinkCount deduplicates the symmetric relation.
func (t Topology) Links() []Link {
	seen := make(map[Link]struct{})
	for satID, neighbors := range t.Neighbors {
		for _, neighbor := range neighbors {
			link := Link{A: satID, B: neighbor}
			if neighbor < satID {
				link = Link{A: neighbor, B: satID}
			}
			seen[link] = struct{}{}
		}
	}

	links := make([]Link, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].A != links[j].A {
			return links[i].A < links[j].A
		}
		return links[i].B < links[j].B
	})
	return links
}

// ComputeMeshConnectivity returns the fraction of ordered satellite pairs
// that can reach each other, 1.0 for a fully connected mesh and 0.0 when
// the topology has fewer than two satellites (no pairs exist). Diagnostic
// use only; route computation does not depend on it.
func ComputeMeshConnectivity(t Topology) float64 {
	totalPairs := t.SatelliteCount * (t.SatelliteCount - 1)
	if totalPairs <= 0 {
		return 0.0
	}

	reachablePairs := 0
	for src := 0; src < t.SatelliteCount; src++ {
		for _, ok := range graph.BFS(t, src) {
			if ok {
				reachablePairs++
			}
		}
		reachablePairs-- // the source itself is not a pair
	}
	return float64(reachablePairs) / float64(totalPairs)
}
