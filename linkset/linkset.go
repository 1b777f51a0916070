// Package linkset plans the materialization of the ISL mesh for the
// external simulator: one /30 subnet, a propagation delay and a pair of
// host addresses per link, plus the per-satellite ip-route commands that
// install the compiled next hops. Planning only; nothing here touches the
// network or spawns anything.
package linkset

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	ybgraph "github.com/yourbasic/graph"
	"golang.org/x/exp/slices"

	"github.com/ethene/dymen-sim/routing"
	"github.com/ethene/dymen-sim/space"
	"github.com/ethene/dymen-sim/topology"
)

// DataRate is the configured ISL capacity (10 Gbps optical terminals).
const DataRate = "10Gbps"

// LinkDetails is everything the simulator needs to bring one ISL up.
type LinkDetails struct {
	Name       string
	NodeOne    int // lower satellite id
	NodeTwo    int // higher satellite id
	Subnet     string
	NodeOneIP  string
	NodeTwoIP  string
	DistanceKm float64
	Delay      time.Duration
	DataRate   string
}

// LinkName normalizes an unordered satellite pair to its canonical link
// name "S<min>-S<max>". swapped reports that the arguments arrived in
// reverse order, which callers use to pick the right side of the link.
func LinkName(node1, node2 int) (name string, swapped bool) {
	first, second := node1, node2
	if second < first {
		first, second = second, first
	}
	return "S" + strconv.Itoa(first) + "-S" + strconv.Itoa(second), first != node1
}

// subnetBase gives link i its own /30 out of 10.0.0.0/8:
// 10.0.0.0, 10.0.0.4, ... rolling the third octet every 64 links.
func subnetBase(i int) string {
	return fmt.Sprintf("10.%d.%d", i/64, (i%64)*4)
}

// Build plans one LinkDetails per undirected ISL, keyed by link name.
// Positions are indexed by satellite id and set each link's physical
// length and speed-of-light delay. The mesh is cross-checked for full
// connectivity with an independent graph implementation before anything
// is handed to the installer.
func Build(topo topology.Topology, positions []space.Vector3) (map[string]LinkDetails, error) {
	if topo.SatelliteCount == 0 {
		return nil, errors.New("empty topology, nothing to materialize")
	}
	if len(positions) != topo.SatelliteCount {
		return nil, fmt.Errorf("have %d positions for %d satellites", len(positions), topo.SatelliteCount)
	}

	links := topo.Links()
	g := ybgraph.New(topo.SatelliteCount)
	for _, link := range links {
		g.AddBoth(link.A, link.B)
	}
	if !ybgraph.Connected(g) {
		return nil, errors.New("isl mesh is not fully connected")
	}

	plan := make(map[string]LinkDetails, len(links))
	for i, link := range links {
		name, _ := LinkName(link.A, link.B)
		base := subnetBase(i)
		distance := positions[link.A].Distance(positions[link.B])
		delay := time.Duration(space.Latency(distance) * float64(time.Second))

		details := LinkDetails{
			Name:       name,
			NodeOne:    link.A,
			NodeTwo:    link.B,
			Subnet:     base + ".0/30",
			NodeOneIP:  base + ".1",
			NodeTwoIP:  base + ".2",
			DistanceKm: distance,
			Delay:      delay,
			DataRate:   DataRate,
		}
		plan[name] = details

		log.Debug().
			Str("link", name).
			Str("subnet", details.Subnet).
			Float64("distanceKm", distance).
			Dur("delay", delay).
			Msg("planned ISL")
	}

	log.Info().Int("linkCount", len(plan)).Msg("planned ISL mesh")
	return plan, nil
}

// RouteCommands renders, per satellite, the "ip route replace <dst> via
// <gateway>" commands installing every compiled next hop. A satellite is
// addressed by its side of its first link in ascending link order (the
// first interface, in simulator terms); the gateway is the next hop's
// side of the link it shares with the source. Entries whose hop is not a
// direct neighbor are dropped with a warning instead of installing a
// broken route.
func RouteCommands(topo topology.Topology, tbl routing.Table, links map[string]LinkDetails) map[int][]string {
	addressOf := make(map[int]string, topo.SatelliteCount)
	for _, link := range topo.Links() {
		name, _ := LinkName(link.A, link.B)
		details, ok := links[name]
		if !ok {
			continue
		}
		if _, seen := addressOf[link.A]; !seen {
			addressOf[link.A] = details.NodeOneIP
		}
		if _, seen := addressOf[link.B]; !seen {
			addressOf[link.B] = details.NodeTwoIP
		}
	}

	commands := make(map[int][]string, topo.SatelliteCount)
	for src := 0; src < topo.SatelliteCount; src++ {
		for dst := 0; dst < topo.SatelliteCount; dst++ {
			if src == dst {
				continue
			}
			hop := tbl.NextHop(src, dst)
			if hop == routing.NoRoute {
				continue // missing route is expected, installers skip it
			}
			if !slices.Contains(topo.Neighbors[src], hop) {
				log.Warn().Int("src", src).Int("dst", dst).Int("hop", hop).
					Msg("next hop is not a direct neighbor, dropping route")
				continue
			}

			name, _ := LinkName(src, hop)
			link, ok := links[name]
			if !ok {
				log.Warn().Str("link", name).Msg("no planned link for next hop, dropping route")
				continue
			}
			gateway := link.NodeTwoIP
			if hop == link.NodeOne {
				gateway = link.NodeOneIP
			}
			commands[src] = append(commands[src], ipRouteVia(addressOf[dst], gateway))
		}
	}
	return commands
}

func ipRouteVia(destinationIP, nexthopIP string) string {
	return fmt.Sprintf("ip route replace %s via %s", destinationIP, nexthopIP)
}
