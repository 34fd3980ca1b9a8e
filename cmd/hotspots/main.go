// Command hotspots generates raster map tiles plus hotspot descriptors for a
// collection of geo-located placemarks and persists them to a local
// directory or an S3 bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"

	"hotspots/internal/env"
	"hotspots/internal/keys"
	"hotspots/internal/models"
	"hotspots/internal/source"
	"hotspots/internal/storage"
	"hotspots/internal/tiling"
	"hotspots/pkg/graceful"
	"hotspots/pkg/kafkaclient"
)

var (
	geojsonPath = flag.String("geojson", "placemarks.geojson", "GeoJSON `file` with the placemark collection")
	usePostgres = flag.Bool("pg", false, "load placemarks from Postgres (POSTGRES_DSN, optional PLACEMARKS_QUERY)")
	outDir      = flag.String("out", "tiles", "output `directory` for the file sink")
	useS3       = flag.Bool("s3", false, "persist tiles to MinIO/S3 (MINIO_*, TILES_BUCKET_NAME)")
	useKafka    = flag.Bool("kafka", false, "publish tile events (KAFKA_BROKER, KAFKA_TOPIC)")
	minZoom     = flag.Int("min", 10, "minimum zoom level")
	maxZoom     = flag.Int("max", 17, "maximum zoom level")
	tileSize    = flag.Int("tile-size", 256, "tile edge in pixels")
	markersDir  = flag.String("markers", "markers", "`directory` holding big.png and small.png markers")
	bigZoom     = flag.Int("big-zoom", 13, "first zoom level that uses the big marker")
	anchorName  = flag.String("anchor", "bottom-center", "marker anchor: bottom-center, center or top-left")
	callback    = flag.String("callback", "", "JS callback `name` to wrap descriptor fragments in (JSONP)")
	baseName    = flag.String("name", keys.DefaultBaseName, "layer base name used in tile names and events")
	workers     = flag.Int("workers", 4, "concurrent tile workers")
	logLevel    = flag.String("l", "info", "log level")
)

func main() {
	flag.Parse()
	log := newLogger(*logLevel)
	env.Load(log)

	ctx, cancel := graceful.Context(context.Background(), log)
	defer cancel()

	anchor, err := tiling.ParseAnchor(*anchorName)
	if err != nil {
		log.Fatalf("bad -anchor: %v", err)
	}

	objects := loadPlacemarks(ctx, log)
	log.Infof("loaded %d placemarks", len(objects))

	big, err := loadMarker(*markersDir, "big.png")
	if err != nil {
		log.Fatal(err)
	}
	small, err := loadMarker(*markersDir, "small.png")
	if err != nil {
		log.Fatal(err)
	}

	jsonp := *callback != ""
	var sink tiling.Sink
	if *useS3 {
		s3, err := storage.NewS3Sink(env.MustGet(log, "TILES_BUCKET_NAME"), jsonp, log)
		if err != nil {
			log.Fatal(err)
		}
		if err := s3.EnsureBucket(ctx, ""); err != nil {
			log.Fatal(err)
		}
		sink = s3
	} else {
		sink = storage.NewFileSink(*outDir, jsonp)
	}

	var notifier tiling.Notifier
	if *useKafka {
		pub := kafkaclient.NewPublisher(
			env.MustGet(log, "KAFKA_BROKER"),
			env.MustGet(log, "KAFKA_TOPIC"),
			*baseName,
			jsonp,
			log,
		)
		defer pub.Close()
		notifier = pub
	}

	gen, err := tiling.New(tiling.Config{
		TileSize:    *tileSize,
		Anchor:      anchor,
		Workers:     *workers,
		Callback:    *callback,
		ImageFor:    markerPolicy(big, small, *bigZoom),
		MetadataFor: nil, // default name/description payload
		Notifier:    notifier,
		Logger:      log,
	}, sink)
	if err != nil {
		log.Fatal(err)
	}

	report, err := gen.Run(ctx, objects, *minZoom, *maxZoom)
	if err != nil {
		log.Fatalf("generation failed: %v", err)
	}

	for _, skip := range report.Skipped() {
		log.Warnf("skipped placemark %s at zoom %d: %v", skip.ID, skip.Zoom, skip.Err)
	}
	for _, fail := range report.Failed() {
		log.Errorf("failed tile %d/%d/%d: %v", fail.Tile.Z, fail.Tile.X, fail.Tile.Y, fail.Err)
	}
	log.Infof("generation %s, %d tiles written", report.Status(), report.Tiles())

	if report.Aborted() {
		os.Exit(1)
	}
}

// loadPlacemarks builds the configured source and drains it into the run's
// collection. The collection order fixes marker stacking for the whole run.
func loadPlacemarks(ctx context.Context, log *logrus.Logger) []*models.Placemark {
	if *usePostgres {
		src, err := source.NewPostgresSource(ctx, env.MustGet(log, "POSTGRES_DSN"), env.Get("PLACEMARKS_QUERY", ""), log)
		if err != nil {
			log.Fatal(err)
		}
		defer src.Close(ctx)
		return source.Collect(ctx, src)
	}

	src, err := source.NewGeoJSONSource(*geojsonPath, log)
	if err != nil {
		log.Fatal(err)
	}
	return source.Collect(ctx, src)
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&nested.Formatter{
		HideKeys:        true,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "unknown log level %q, using info\n", level)
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
