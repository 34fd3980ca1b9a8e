package mercator

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/paulmach/orb/maptile"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		lat, lng float64
		zoom     maptile.Zoom
		wantX    float64
		wantY    float64
		wantErr  error
	}{
		{
			name: "null island is the world center",
			lat:  0, lng: 0, zoom: 0,
			wantX: 128, wantY: 128,
		},
		{
			name: "date line maps to the west edge",
			lat:  0, lng: -180, zoom: 1,
			wantX: 0, wantY: 256,
		},
		{
			name: "positive date line wraps to the west edge",
			lat:  0, lng: 180, zoom: 1,
			wantX: 0, wantY: 256,
		},
		{
			name: "scale doubles per zoom",
			lat:  0, lng: 90, zoom: 3,
			wantX: 1536, wantY: 1024,
		},
		{
			name: "latitude beyond mercator range",
			lat:  85.1, lng: 10, zoom: 10,
			wantErr: ErrOutOfProjectionRange,
		},
		{
			name: "southern latitude beyond mercator range",
			lat:  -86, lng: 0, zoom: 2,
			wantErr: ErrOutOfProjectionRange,
		},
		{
			name: "NaN latitude",
			lat:  math.NaN(), lng: 0, zoom: 5,
			wantErr: ErrOutOfProjectionRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Project(tt.lat, tt.lng, tt.zoom, DefaultTileSize)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Project() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Project() unexpected error: %v", err)
			}
			if math.Abs(p.X-tt.wantX) > 1e-6 || math.Abs(p.Y-tt.wantY) > 1e-6 {
				t.Errorf("Project() = (%f, %f), want (%f, %f)", p.X, p.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

// Projected coordinates must always land on the zoom level's tile grid, even
// at the extremes of the valid latitude range.
func TestProjectLocateStaysOnGrid(t *testing.T) {
	coords := []struct{ lat, lng float64 }{
		{0, 0},
		{MaxLatitude, -180},
		{-MaxLatitude, 179.9999},
		{55.7558, 37.6173},
		{-33.8688, 151.2093},
		{85.0, -0.0001},
	}
	for _, zoom := range []maptile.Zoom{0, 1, 7, 10, 17} {
		max := uint32(1) << zoom
		for _, c := range coords {
			p, err := Project(c.lat, c.lng, zoom, DefaultTileSize)
			if err != nil {
				t.Fatalf("Project(%f, %f, %d) error: %v", c.lat, c.lng, zoom, err)
			}
			tile, local := Locate(p, zoom, DefaultTileSize)
			if tile.X >= max || tile.Y >= max {
				t.Errorf("Locate(%f, %f, %d) = tile (%d, %d), outside [0, %d)",
					c.lat, c.lng, zoom, tile.X, tile.Y, max)
			}
			if local.X < 0 || local.X >= DefaultTileSize || local.Y < 0 || local.Y >= DefaultTileSize {
				t.Errorf("Locate(%f, %f, %d) local offset %v outside the tile", c.lat, c.lng, zoom, local)
			}
		}
	}
}

func TestLocate(t *testing.T) {
	tests := []struct {
		name      string
		pixel     Pixel
		zoom      maptile.Zoom
		wantTile  maptile.Tile
		wantLocal image.Point
	}{
		{
			name:  "tile origin",
			pixel: Pixel{512, 256}, zoom: 2,
			wantTile:  maptile.New(2, 1, 2),
			wantLocal: image.Pt(0, 0),
		},
		{
			name:  "interior pixel",
			pixel: Pixel{300.4, 10.6}, zoom: 2,
			wantTile:  maptile.New(1, 0, 2),
			wantLocal: image.Pt(44, 11),
		},
		{
			name:  "just below a tile border stays in the lower tile",
			pixel: Pixel{255.4, 255.4}, zoom: 2,
			wantTile:  maptile.New(0, 0, 2),
			wantLocal: image.Pt(255, 255),
		},
		{
			name:  "rounding carries across the tile border",
			pixel: Pixel{255.6, 0}, zoom: 2,
			wantTile:  maptile.New(1, 0, 2),
			wantLocal: image.Pt(0, 0),
		},
		{
			name:  "world edge stays on the grid",
			pixel: Pixel{1023.9, 1023.9}, zoom: 2,
			wantTile:  maptile.New(3, 3, 2),
			wantLocal: image.Pt(255, 255),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile, local := Locate(tt.pixel, tt.zoom, DefaultTileSize)
			if tile != tt.wantTile {
				t.Errorf("Locate() tile = %v, want %v", tile, tt.wantTile)
			}
			if local != tt.wantLocal {
				t.Errorf("Locate() local = %v, want %v", local, tt.wantLocal)
			}
		})
	}
}
