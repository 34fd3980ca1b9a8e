// Package keys defines the canonical storage layout for generated tile
// artifacts, shared by every sink so a layer's tiles resolve to the same
// paths on a filesystem, an S3 bucket, or a CDN origin.
package keys

import (
	"fmt"

	"github.com/paulmach/orb/maptile"
)

// DefaultBaseName names a hotspot layer when the caller does not pick one.
const DefaultBaseName = "myLayer"

// Tile returns the artifact key for a tile with the given extension, e.g.
// `png/10/tile-3456-2578.png`.
func Tile(t maptile.Tile, ext string) string {
	return fmt.Sprintf("%s/%d/tile-%d-%d.%s", ext, t.Z, t.X, t.Y, ext)
}

// TileImage returns the key of the tile's PNG raster.
func TileImage(t maptile.Tile) string {
	return Tile(t, "png")
}

// TileFragment returns the key of the tile's hotspot descriptor. Descriptors
// wrapped in a JS callback are stored as scripts, plain ones as JSON.
func TileFragment(t maptile.Tile, jsonp bool) string {
	if jsonp {
		return Tile(t, "js")
	}
	return Tile(t, "json")
}

// TileName returns the layer-qualified tile name the map client uses to
// register a loaded descriptor, e.g. `myLayer-3456-2578-10`.
func TileName(baseName string, t maptile.Tile) string {
	if baseName == "" {
		baseName = DefaultBaseName
	}
	return fmt.Sprintf("%s-%d-%d-%d", baseName, t.X, t.Y, t.Z)
}
