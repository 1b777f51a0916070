// hopstats renders two post-run charts: the hop-count distribution of the
// compiled routing table (for eyeballing against the analytical
// expectation for the 24-satellite mesh, diameter 4) and the per-link
// propagation delay distribution of the planned ISLs.
package main

import (
	"flag"
	"os"
	"sort"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ethene/dymen-sim/linkset"
	"github.com/ethene/dymen-sim/routing"
	"github.com/ethene/dymen-sim/space"
	"github.com/ethene/dymen-sim/topology"
)

func main() {
	out := flag.String("out", "hopcounts.png", "output image for the hop count distribution")
	delayOut := flag.String("delay-out", "linkdelays.png", "output image for the link delay distribution")
	flag.Parse()

	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	topo := topology.GenerateWalkerDeltaTopology(topology.WalkerDeltaSatellites, topology.IslNeighbors)
	if topo.SatelliteCount == 0 {
		log.Fatal().Msg("unsupported constellation shape")
	}
	table := routing.ComputeStaticRoutes(topo)

	// hop count -> ordered pair count
	histogram := make(map[int]int)
	maxHops := 0
	for src := 0; src < topo.SatelliteCount; src++ {
		for dst := 0; dst < topo.SatelliteCount; dst++ {
			if src == dst {
				continue
			}
			hops := routing.HopCount(table, src, dst)
			if hops == routing.NoRoute {
				log.Fatal().Int("src", src).Int("dst", dst).Msg("missing route in fully connected mesh")
			}
			histogram[hops]++
			if hops > maxHops {
				maxHops = hops
			}
		}
	}

	values := make(plotter.Values, maxHops)
	labels := make([]string, maxHops)
	for hops := 1; hops <= maxHops; hops++ {
		values[hops-1] = float64(histogram[hops])
		labels[hops-1] = strconv.Itoa(hops)
	}

	p := plot.New()
	p.Title.Text = "ISL path lengths, Walker-Delta 53:24/3/1"
	p.X.Label.Text = "hops"
	p.Y.Label.Text = "ordered satellite pairs"

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build chart")
	}
	p.Add(bars)
	p.NominalX(labels...)

	if err := p.Save(5*vg.Inch, 4*vg.Inch, *out); err != nil {
		log.Fatal().Err(err).Msg("failed to save chart")
	}
	log.Info().Str("file", *out).Int("maxHops", maxHops).Msg("wrote hop count distribution")

	//* LINK DELAYS *//
	links, err := linkset.Build(topo, space.WalkerDeltaPositions(0))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to plan ISL links")
	}

	delays := make(plotter.Values, 0, len(links))
	for _, details := range links {
		delays = append(delays, float64(details.Delay.Microseconds())/1000.0)
	}
	sort.Float64s(delays)

	dp := plot.New()
	dp.Title.Text = "ISL propagation delays, Walker-Delta 53:24/3/1"
	dp.X.Label.Text = "one-way delay (ms)"
	dp.Y.Label.Text = "links"

	hist, err := plotter.NewHist(delays, 12)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build delay histogram")
	}
	dp.Add(hist)

	if err := dp.Save(5*vg.Inch, 4*vg.Inch, *delayOut); err != nil {
		log.Fatal().Err(err).Msg("failed to save delay histogram")
	}
	log.Info().Str("file", *delayOut).
		Float64("minMs", delays[0]).
		Float64("maxMs", delays[len(delays)-1]).
		Msg("wrote link delay distribution")
}
