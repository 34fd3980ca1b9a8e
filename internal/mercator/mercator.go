// Package mercator converts geographic coordinates into the global pixel
// plane of a spherical-Mercator slippy map and locates pixels on the
// power-of-two tile grid of a zoom level.
package mercator

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/paulmach/orb/maptile"
)

// DefaultTileSize is the standard slippy-map tile edge in pixels.
const DefaultTileSize = 256

// MaxLatitude is the latitude bound of the spherical Mercator projection.
// Latitudes beyond it have no pixel representation.
const MaxLatitude = 85.05112878

// ErrOutOfProjectionRange is returned for latitudes outside ±MaxLatitude.
// Callers exclude such objects from the zoom level's tiling and report them;
// the error never aborts a run.
var ErrOutOfProjectionRange = errors.New("latitude out of projection range")

// Pixel is a continuous coordinate in the projected plane of one zoom level.
// (0, 0) is the north-west corner of the world; both axes run to
// tileSize * 2^zoom.
type Pixel struct {
	X float64
	Y float64
}

// WorldSize returns the edge length of the projected plane in pixels at the
// given zoom level.
func WorldSize(zoom maptile.Zoom, tileSize int) float64 {
	return float64(tileSize) * math.Exp2(float64(zoom))
}

// Project maps (lat, lng) to a global pixel at the given zoom. Longitude is
// normalized into [-180, 180); latitudes beyond ±MaxLatitude (or non-finite
// input) fail with ErrOutOfProjectionRange.
func Project(lat, lng float64, zoom maptile.Zoom, tileSize int) (Pixel, error) {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.Abs(lat) > MaxLatitude {
		return Pixel{}, fmt.Errorf("projecting latitude %v at zoom %d: %w", lat, zoom, ErrOutOfProjectionRange)
	}
	if math.IsNaN(lng) || math.IsInf(lng, 0) {
		return Pixel{}, fmt.Errorf("projecting longitude %v at zoom %d: %w", lng, zoom, ErrOutOfProjectionRange)
	}
	lng = normalizeLng(lng)

	world := WorldSize(zoom, tileSize)
	rad := lat * math.Pi / 180
	x := (lng + 180) / 360 * world
	y := (1 - math.Log(math.Tan(rad)+1/math.Cos(rad))/math.Pi) / 2 * world

	// At exactly ±MaxLatitude the y coordinate lands on the world edge;
	// keep it on the grid.
	return Pixel{X: clampWorld(x, world), Y: clampWorld(y, world)}, nil
}

// Locate maps a projected pixel to its tile and the pixel's offset within
// that tile. The pixel is rounded to the integer grid first, then split with
// floor division, so cell boundaries follow [n*tileSize, (n+1)*tileSize) and
// the local offset is always within [0, tileSize).
func Locate(p Pixel, zoom maptile.Zoom, tileSize int) (maptile.Tile, image.Point) {
	max := int(1) << zoom

	px := clampPixel(int(math.Round(p.X)), max*tileSize)
	py := clampPixel(int(math.Round(p.Y)), max*tileSize)
	tx, ty := px/tileSize, py/tileSize
	return maptile.New(uint32(tx), uint32(ty), zoom),
		image.Pt(px-tx*tileSize, py-ty*tileSize)
}

func normalizeLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}

func clampWorld(v, world float64) float64 {
	if v < 0 {
		return 0
	}
	if v >= world {
		return math.Nextafter(world, 0)
	}
	return v
}

func clampPixel(v, world int) int {
	if v < 0 {
		return 0
	}
	if v >= world {
		return world - 1
	}
	return v
}
