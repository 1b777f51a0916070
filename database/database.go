// Package database persists planning output for offline analysis: the
// link plan as parquet and live satellite positions as an ILP stream into
// QuestDB. Nothing in here feeds back into topology or route computation.
package database

import (
	"context"
	"errors"
	"sort"

	qdb "github.com/questdb/go-questdb-client"
	"github.com/rs/zerolog/log"
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/ethene/dymen-sim/linkset"
	"github.com/ethene/dymen-sim/space"
)

// SatelliteLineData is one position sample heading for QuestDB.
type SatelliteLineData struct {
	SatelliteID int
	Title       string
	Index       uint
	Position    space.Vector3
	LatLong     space.LatLong
	Timestamp   int64
}

// FlatSatelliteLineData is the parquet row shape for one position sample.
type FlatSatelliteLineData struct {
	SatelliteID int32   `parquet:"name=satellite_id, type=INT32, convertedtype=INT_32"`
	Index       int32   `parquet:"name=time_index, type=INT32, convertedtype=INT_32"`
	PosX        float64 `parquet:"name=pos_x, type=DOUBLE"`
	PosY        float64 `parquet:"name=pos_y, type=DOUBLE"`
	PosZ        float64 `parquet:"name=pos_z, type=DOUBLE"`
	Latitude    float64 `parquet:"name=latitude, type=DOUBLE"`
	Longitude   float64 `parquet:"name=longitude, type=DOUBLE"`
	Timestamp   int64   `parquet:"name=timestamp, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
}

// FlatLinkLineData is the parquet row shape for one planned ISL.
type FlatLinkLineData struct {
	LinkName    string  `parquet:"name=link_name, type=BYTE_ARRAY, convertedtype=UTF8"`
	NodeOne     int32   `parquet:"name=node_one, type=INT32, convertedtype=INT_32"`
	NodeTwo     int32   `parquet:"name=node_two, type=INT32, convertedtype=INT_32"`
	Subnet      string  `parquet:"name=subnet, type=BYTE_ARRAY, convertedtype=UTF8"`
	DistanceKm  float64 `parquet:"name=distance_km, type=DOUBLE"`
	DelayMicros int64   `parquet:"name=delay_us, type=INT64"`
}

// WriteLinkPlan stores the planned mesh as a parquet file, rows ordered
// by link name so two runs over the same topology produce identical
// files.
func WriteLinkPlan(fname string, links map[string]linkset.LinkDetails) error {
	fw, err := local.NewLocalFileWriter(fname)
	if err != nil {
		return err
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(FlatLinkLineData), 2)
	if err != nil {
		return err
	}
	pw.RowGroupSize = 1 * 256 * 1024 //256K
	pw.PageSize = 2 * 1024           //2K
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	names := make([]string, 0, len(links))
	for name := range links {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		details := links[name]
		row := FlatLinkLineData{
			LinkName:    details.Name,
			NodeOne:     int32(details.NodeOne),
			NodeTwo:     int32(details.NodeTwo),
			Subnet:      details.Subnet,
			DistanceKm:  details.DistanceKm,
			DelayMicros: details.Delay.Microseconds(),
		}
		if err = pw.Write(row); err != nil {
			return err
		}
	}
	if err = pw.WriteStop(); err != nil {
		return err
	}

	log.Info().Str("file", fname).Int("links", len(names)).Msg("wrote link plan")
	return nil
}

// ReadLinkPlan loads a link plan written by WriteLinkPlan.
func ReadLinkPlan(fname string) ([]FlatLinkLineData, error) {
	fr, err := local.NewLocalFileReader(fname)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(FlatLinkLineData), 4)
	if err != nil {
		return nil, err
	}
	defer pr.ReadStop()

	rows := make([]FlatLinkLineData, pr.GetNumRows())
	if err = pr.Read(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteSatellitePositions persists position samples as a parquet file in
// the order given, one row per sample.
func WriteSatellitePositions(fname string, lines []SatelliteLineData) error {
	fw, err := local.NewLocalFileWriter(fname)
	if err != nil {
		return err
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(FlatSatelliteLineData), 2)
	if err != nil {
		return err
	}
	pw.RowGroupSize = 1 * 256 * 1024 //256K
	pw.PageSize = 2 * 1024           //2K
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, data := range lines {
		row := FlatSatelliteLineData{
			SatelliteID: int32(data.SatelliteID),
			Index:       int32(data.Index),
			PosX:        data.Position.X,
			PosY:        data.Position.Y,
			PosZ:        data.Position.Z,
			Latitude:    data.LatLong.Latitude,
			Longitude:   data.LatLong.Longitude,
			Timestamp:   data.Timestamp,
		}
		if err = pw.Write(row); err != nil {
			return err
		}
	}
	if err = pw.WriteStop(); err != nil {
		return err
	}

	log.Info().Str("file", fname).Int("samples", len(lines)).Msg("wrote satellite positions")
	return nil
}

// ReadSatellitePositions loads a position trace written by
// WriteSatellitePositions.
func ReadSatellitePositions(fname string) ([]FlatSatelliteLineData, error) {
	fr, err := local.NewLocalFileReader(fname)
	if err != nil {
		return nil, err
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(FlatSatelliteLineData), 4)
	if err != nil {
		return nil, err
	}
	defer pr.ReadStop()

	rows := make([]FlatSatelliteLineData, pr.GetNumRows())
	if err = pr.Read(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// WriteWorker streams satellite position samples into QuestDB over ILP
// until the channel closes. Runs as its own goroutine next to the
// simulation loop.
func WriteWorker(lineData <-chan SatelliteLineData, address string) error {
	if address == "" {
		return errors.New("no QuestDB address configured")
	}
	ctx := context.Background()
	sender, err := qdb.NewLineSender(ctx, qdb.WithAddress(address))
	if err != nil {
		return errors.New("failed to connect to QuestDB: " + err.Error())
	}
	defer sender.Close()

	for data := range lineData {
		err = sender.
			Table("satellites").
			Symbol("satellite_name", data.Title).
			Int64Column("satellite_id", int64(data.SatelliteID)).
			Int64Column("time_index", int64(data.Index)).
			Float64Column("XPos", data.Position.X).
			Float64Column("YPos", data.Position.Y).
			Float64Column("ZPos", data.Position.Z).
			Float64Column("Latitude", data.LatLong.Latitude).
			Float64Column("Longitude", data.LatLong.Longitude).
			At(ctx, data.Timestamp)
		if err != nil {
			log.Error().Err(err).Int("satellite", data.SatelliteID).Msg("dropped ILP line")
		}
	}

	return sender.Flush(ctx)
}
