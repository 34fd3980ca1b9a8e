// Package tiling is the tile generation engine: it partitions a collection
// of placemarks onto the slippy-map tile grid per zoom level, composites the
// marker images of each tile into a raster, derives the matching hotspot
// descriptor fragment, and hands both to a persistence sink.
package tiling

import (
	"context"
	"errors"
	"image"

	"github.com/paulmach/orb/maptile"
	"github.com/sirupsen/logrus"

	"hotspots/internal/models"
)

const (
	// MinSupportedZoom and MaxSupportedZoom bound the zoom intervals a run
	// may request.
	MinSupportedZoom = 0
	MaxSupportedZoom = 20
)

var (
	// ErrInvalidScaleRange fails a run up front when the requested zoom
	// interval is malformed. No tiles are produced.
	ErrInvalidScaleRange = errors.New("invalid scale range")

	// ErrMarkerMissing and ErrMarkerInvalid exclude a placemark from one
	// zoom level's output; both the image and the hotspot region are
	// dropped and the placemark is reported as skipped.
	ErrMarkerMissing = errors.New("marker image missing")
	ErrMarkerInvalid = errors.New("marker image invalid")
)

// ImageFunc selects the marker image for a placemark at a zoom level. The
// image is pasted at native resolution; returning a nil image (or an error)
// excludes the placemark from that zoom.
type ImageFunc func(p *models.Placemark, zoom int) (image.Image, error)

// MetadataFunc produces the serializable client payload for a placemark's
// hotspot region at a zoom level.
type MetadataFunc func(p *models.Placemark, zoom int) (any, error)

// Anchor says which point of the marker image sits on the placemark's
// projected pixel.
type Anchor int

const (
	// AnchorBottomCenter is the map-pin convention: the pin tip, the middle
	// of the image's bottom row.
	AnchorBottomCenter Anchor = iota
	AnchorCenter
	AnchorTopLeft
)

// ParseAnchor maps a config string to an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "bottom-center", "":
		return AnchorBottomCenter, nil
	case "center":
		return AnchorCenter, nil
	case "top-left":
		return AnchorTopLeft, nil
	}
	return 0, errors.New("unknown anchor " + s)
}

// offset returns the anchor point within a w×h marker image. The anchor
// pixel is always inside the image box, so the placemark's primary tile is
// always one of the tiles its marker overlaps.
func (a Anchor) offset(w, h int) image.Point {
	switch a {
	case AnchorCenter:
		return image.Pt(w/2, h/2)
	case AnchorTopLeft:
		return image.Pt(0, 0)
	default:
		return image.Pt(w/2, h-1)
	}
}

// Assignment binds one placemark to one tile it must be rendered into. Box
// is the marker's footprint in that tile's local pixel space and may extend
// outside [0, tileSize) when the marker bleeds across the tile border.
// Primary marks the tile whose grid cell contains the projected anchor
// point; only primary assignments yield hotspot regions.
type Assignment struct {
	Placemark *models.Placemark
	Tile      maptile.Tile
	Box       image.Rectangle
	Marker    image.Image
	Primary   bool
}

// Sink persists generated tile artifacts. Implementations must tolerate
// concurrent calls for distinct tiles and must never leave a partially
// written artifact observable.
type Sink interface {
	WriteTile(ctx context.Context, tile maptile.Tile, png []byte) error
	WriteFragment(ctx context.Context, tile maptile.Tile, data []byte) error
}

// Notifier is told about every fully persisted tile, e.g. to invalidate CDN
// caches. Notification failures are logged, never fatal.
type Notifier interface {
	TileWritten(ctx context.Context, tile maptile.Tile) error
}

// Config carries the engine settings and the caller's strategy functions.
type Config struct {
	// TileSize is the tile edge in pixels. Defaults to mercator.DefaultTileSize.
	TileSize int

	// Anchor positions marker images relative to the projected point.
	Anchor Anchor

	// Workers bounds how many tiles are composited/persisted concurrently.
	// Defaults to 4.
	Workers int

	// Callback, when set, wraps every descriptor fragment in a JS callback
	// invocation so it can be loaded as a script.
	Callback string

	// ImageFor is required; MetadataFor defaults to the placemark's
	// name/description payload.
	ImageFor    ImageFunc
	MetadataFor MetadataFunc

	// Notifier is optional.
	Notifier Notifier

	Logger *logrus.Logger
}
