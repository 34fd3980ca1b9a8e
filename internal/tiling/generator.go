package tiling

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"

	"hotspots/internal/mercator"
	"hotspots/internal/models"
	"hotspots/internal/pipeline"
)

// Generator drives a whole generation run: clustering per zoom level, then a
// worker pool compositing, encoding and persisting every non-empty tile.
type Generator struct {
	cfg  Config
	sink Sink
	log  *logrus.Logger
}

// New validates the configuration and fills in defaults.
func New(cfg Config, sink Sink) (*Generator, error) {
	if sink == nil {
		return nil, fmt.Errorf("tiling: sink is required")
	}
	if cfg.ImageFor == nil {
		return nil, fmt.Errorf("tiling: ImageFor is required")
	}
	if cfg.TileSize <= 0 {
		cfg.TileSize = mercator.DefaultTileSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.MetadataFor == nil {
		cfg.MetadataFor = defaultMetadata
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Generator{cfg: cfg, sink: sink, log: cfg.Logger}, nil
}

// tileJob is the unit of work handed to the tile workers. The render and
// hotspot steps fill image and fragment in parallel; the persist step hands
// both to the sink.
type tileJob struct {
	tile        maptile.Tile
	zoom        int
	assignments []Assignment
	report      *models.Report

	image    []byte
	fragment []byte
}

// Run generates tiles for every zoom in [minZoom, maxZoom] over the given
// collection. Per-object projection and marker failures are collected on the
// report without stopping the run; ErrInvalidScaleRange fails before any
// work starts. Cancelling the context stops dispatching new tiles while
// letting in-flight tiles finish; the report is then marked aborted.
func (g *Generator) Run(ctx context.Context, objects []*models.Placemark, minZoom, maxZoom int) (*models.Report, error) {
	if minZoom > maxZoom || minZoom < MinSupportedZoom || maxZoom > MaxSupportedZoom {
		return nil, fmt.Errorf("%w: [%d, %d]", ErrInvalidScaleRange, minZoom, maxZoom)
	}

	start := time.Now()
	report := &models.Report{}

	jobs := make(chan *tileJob)
	p := pipeline.New(g.log,
		pipeline.NewStage(g.renderStep, g.hotspotStep),
		pipeline.NewStage(g.persistStep),
	)
	var wg sync.WaitGroup
	for i := 0; i < g.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Process(ctx, jobs)
		}()
	}

dispatch:
	for zoom := minZoom; zoom <= maxZoom; zoom++ {
		tiles := clusterZoom(objects, zoom, g.cfg.TileSize, g.cfg.Anchor, g.cfg.ImageFor, report)
		g.log.Infof("zoom %d: %d placemarks over %d tiles", zoom, len(objects), len(tiles))

		for _, tile := range sortTiles(tiles) {
			if ctx.Err() != nil {
				report.Abort()
				break dispatch
			}
			job := &tileJob{
				tile:        tile,
				zoom:        zoom,
				assignments: tiles[tile],
				report:      report,
			}
			select {
			case jobs <- job:
			case <-ctx.Done():
				report.Abort()
				break dispatch
			}
		}
	}
	close(jobs)
	wg.Wait()

	g.log.Infof("run %s: %d tiles in %s", report.Status(), report.Tiles(), time.Since(start).Round(time.Millisecond))
	return report, nil
}

func (g *Generator) renderStep(_ context.Context, job *tileJob) error {
	img := renderTile(g.cfg.TileSize, job.assignments)
	if img == nil {
		return nil
	}
	data, err := encodePNG(img)
	if err != nil {
		job.report.AddFailure(job.tile, fmt.Errorf("encode tile image: %w", err))
		return err
	}
	job.image = data
	return nil
}

func (g *Generator) hotspotStep(_ context.Context, job *tileJob) error {
	frag := encodeFragment(job.tile, g.cfg.TileSize, job.assignments, job.zoom, g.cfg.MetadataFor, job.report)
	if frag == nil {
		return nil
	}
	data, err := frag.Encode(g.cfg.Callback)
	if err != nil {
		job.report.AddFailure(job.tile, fmt.Errorf("encode fragment: %w", err))
		return err
	}
	job.fragment = data
	return nil
}

func (g *Generator) persistStep(ctx context.Context, job *tileJob) error {
	if ctx.Err() != nil {
		// The run was cancelled before this tile started persisting;
		// discard it rather than leave a partial artifact.
		return nil
	}
	if job.image == nil {
		return nil
	}

	failed := false
	if err := g.sink.WriteTile(ctx, job.tile, job.image); err != nil {
		job.report.AddFailure(job.tile, fmt.Errorf("write tile: %w", err))
		failed = true
	}
	if job.fragment != nil {
		if err := g.sink.WriteFragment(ctx, job.tile, job.fragment); err != nil {
			job.report.AddFailure(job.tile, fmt.Errorf("write fragment: %w", err))
			failed = true
		}
	}
	if failed {
		return nil // already on the report; other tiles keep going
	}

	job.report.AddTile()
	if g.cfg.Notifier != nil {
		if err := g.cfg.Notifier.TileWritten(ctx, job.tile); err != nil {
			g.log.Warnf("tile notification for %v failed: %v", job.tile, err)
		}
	}
	return nil
}

func sortTiles(tiles map[maptile.Tile][]Assignment) []maptile.Tile {
	keys := make([]maptile.Tile, 0, len(tiles))
	for tile := range tiles {
		keys = append(keys, tile)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Y != keys[j].Y {
			return keys[i].Y < keys[j].Y
		}
		return keys[i].X < keys[j].X
	})
	return keys
}
