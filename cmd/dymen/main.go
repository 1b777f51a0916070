package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/ethene/dymen-sim/database"
	"github.com/ethene/dymen-sim/linkset"
	"github.com/ethene/dymen-sim/routing"
	"github.com/ethene/dymen-sim/space"
	"github.com/ethene/dymen-sim/topology"
)

func SetupLogger() *os.File {
	// creating a console
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stderr}

	// temporary file next to the console so a run can be replayed later
	tempFile, err := os.CreateTemp(os.TempDir(), "dymen"+time.Now().Format(time.Kitchen))
	if err != nil {
		log.Error().Err(err).Msg("there was an error creating a temporary file for our log")
	}
	fmt.Printf("The log file is allocated at %s\n", tempFile.Name())

	// both write log message in console and file
	multi := zerolog.MultiLevelWriter(consoleWriter, tempFile)
	// configure logger time to unix timestamps (in ms)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(multi).With().Timestamp().Logger()
	return tempFile
}

func main() {
	satellites := flag.Int("satellites", topology.WalkerDeltaSatellites, "satellites in the constellation")
	neighbors := flag.Int("neighbors", topology.IslNeighbors, "ISL terminals per satellite")
	traceDir := flag.String("trace-dir", "", "write link plan and position parquet traces into this directory")
	questdb := flag.String("questdb", "", "QuestDB ILP address for position streaming, e.g. 127.0.0.1:9009")
	flag.Parse()

	tempFile := SetupLogger()
	defer tempFile.Sync()
	defer tempFile.Close()

	//* TOPOLOGY *//
	topo := topology.GenerateWalkerDeltaTopology(*satellites, *neighbors)
	if topo.SatelliteCount == 0 {
		log.Fatal().Int("satellites", *satellites).Int("neighbors", *neighbors).
			Msg("unsupported constellation shape, only Walker-Delta 53:24/3/1 with 4 ISLs is validated")
	}
	log.Info().Int("satelliteCount", topo.SatelliteCount).Int("linkCount", topo.LinkCount).Msg("generated ISL topology")

	connectivity := topology.ComputeMeshConnectivity(topo)
	log.Info().Float64("connectivity", connectivity).Msg("mesh connectivity")
	if connectivity < 1.0 {
		log.Fatal().Float64("connectivity", connectivity).Msg("ISL mesh is not fully connected")
	}

	//* ROUTES *//
	table := routing.ComputeStaticRoutes(topo)
	maxHops := 0
	for src := 0; src < topo.SatelliteCount; src++ {
		for dst := 0; dst < topo.SatelliteCount; dst++ {
			if hops := routing.HopCount(table, src, dst); hops != routing.NoRoute && hops > maxHops {
				maxHops = hops
			}
		}
	}
	log.Info().Int("maxHops", maxHops).Msg("compiled static routes")

	//* LINKS *//
	positions := space.WalkerDeltaPositions(0)
	links, err := linkset.Build(topo, positions)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to plan ISL links")
	}

	commands := linkset.RouteCommands(topo, table, links)
	routeCount := 0
	for _, cmds := range commands {
		routeCount += len(cmds)
	}
	log.Info().Int("satellites", len(commands)).Int("routes", routeCount).Msg("rendered route commands")

	if *traceDir != "" {
		planFile := filepath.Join(*traceDir, "linkplan.parquet")
		if err := database.WriteLinkPlan(planFile, links); err != nil {
			log.Error().Err(err).Str("file", planFile).Msg("failed to write link plan")
		}
		positionsFile := filepath.Join(*traceDir, "positions.parquet")
		if err := database.WriteSatellitePositions(positionsFile, positionLines(positions)); err != nil {
			log.Error().Err(err).Str("file", positionsFile).Msg("failed to write positions")
		}
	}

	if *questdb != "" {
		streamPositions(positions, *questdb)
	}
}

// positionLines wraps the epoch positions as trace samples.
func positionLines(positions []space.Vector3) []database.SatelliteLineData {
	now := time.Now()
	lines := make([]database.SatelliteLineData, len(positions))
	for satID, position := range positions {
		lines[satID] = database.SatelliteLineData{
			SatelliteID: satID,
			Title:       fmt.Sprintf("Sat%d", satID),
			Index:       0,
			Position:    position,
			LatLong:     space.LLAFromPosition(position, now),
			Timestamp:   now.UnixMilli(),
		}
	}
	return lines
}

// streamPositions pushes the epoch positions of every satellite into
// QuestDB, one ILP line each.
func streamPositions(positions []space.Vector3, address string) {
	lines := make(chan database.SatelliteLineData, len(positions))
	done := make(chan error, 1)
	go func() {
		done <- database.WriteWorker(lines, address)
	}()

	for _, data := range positionLines(positions) {
		lines <- data
	}
	close(lines)

	if err := <-done; err != nil {
		log.Error().Err(err).Str("address", address).Msg("position streaming failed")
	}
}
