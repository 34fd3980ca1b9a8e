package tiling

import (
	"context"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/paulmach/orb/maptile"

	"hotspots/internal/mercator"
	"hotspots/internal/models"
)

// geo inverts the spherical Mercator projection so tests can place a
// placemark at an exact global pixel of a zoom level.
func geo(x, y float64, zoom maptile.Zoom) (lat, lng float64) {
	world := mercator.WorldSize(zoom, mercator.DefaultTileSize)
	lng = x/world*360 - 180
	lat = math.Atan(math.Sinh(math.Pi*(1-2*y/world))) * 180 / math.Pi
	return lat, lng
}

func placemarkAt(id string, x, y float64, zoom maptile.Zoom) *models.Placemark {
	lat, lng := geo(x, y, zoom)
	return &models.Placemark{ID: id, Lat: lat, Lng: lng, Name: id}
}

func solidMarker(w, h int, c color.RGBA) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func markerFunc(img image.Image) ImageFunc {
	return func(_ *models.Placemark, _ int) (image.Image, error) {
		return img, nil
	}
}

// memorySink collects artifacts in memory and can inject a write failure for
// one tile.
type memorySink struct {
	mu        sync.Mutex
	tiles     map[maptile.Tile][]byte
	fragments map[maptile.Tile][]byte
	failTile  *maptile.Tile
	failErr   error
}

func newMemorySink() *memorySink {
	return &memorySink{
		tiles:     map[maptile.Tile][]byte{},
		fragments: map[maptile.Tile][]byte{},
	}
}

func (s *memorySink) WriteTile(_ context.Context, tile maptile.Tile, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTile != nil && *s.failTile == tile {
		return s.failErr
	}
	s.tiles[tile] = data
	return nil
}

func (s *memorySink) WriteFragment(_ context.Context, tile maptile.Tile, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failTile != nil && *s.failTile == tile {
		return s.failErr
	}
	s.fragments[tile] = data
	return nil
}
