package tiling

import (
	"fmt"
	"image"

	"github.com/paulmach/orb/maptile"

	"hotspots/internal/mercator"
	"hotspots/internal/models"
)

// clusterZoom partitions the collection onto the tile grid of one zoom
// level. Every placemark with a valid projection gets exactly one primary
// assignment (the tile containing its anchor pixel) plus one bleed
// assignment per neighboring tile its marker footprint overlaps. Placemarks
// that cannot be projected or have no usable marker are recorded on the
// report and excluded.
//
// Assignment lists preserve the input collection order, which fixes the
// paint order inside each tile: later placemarks paint on top.
func clusterZoom(
	objects []*models.Placemark,
	zoom int,
	tileSize int,
	anchor Anchor,
	imageFor ImageFunc,
	report *models.Report,
) map[maptile.Tile][]Assignment {
	z := maptile.Zoom(zoom)
	grid := 1 << zoom
	tiles := map[maptile.Tile][]Assignment{}

	for _, obj := range objects {
		pixel, err := mercator.Project(obj.Lat, obj.Lng, z, tileSize)
		if err != nil {
			report.AddSkip(obj.ID, zoom, err)
			continue
		}

		marker, err := imageFor(obj, zoom)
		if err != nil {
			report.AddSkip(obj.ID, zoom, fmt.Errorf("%w: %v", ErrMarkerInvalid, err))
			continue
		}
		if marker == nil {
			report.AddSkip(obj.ID, zoom, ErrMarkerMissing)
			continue
		}
		size := marker.Bounds().Size()
		if size.X <= 0 || size.Y <= 0 {
			report.AddSkip(obj.ID, zoom, fmt.Errorf("%w: empty %dx%d image", ErrMarkerInvalid, size.X, size.Y))
			continue
		}

		primary, local := mercator.Locate(pixel, z, tileSize)

		// Marker footprint in global pixel space around the anchor.
		off := anchor.offset(size.X, size.Y)
		ax := int(primary.X)*tileSize + local.X
		ay := int(primary.Y)*tileSize + local.Y
		box := image.Rect(ax-off.X, ay-off.Y, ax-off.X+size.X, ay-off.Y+size.Y)

		for ty := floorDiv(box.Min.Y, tileSize); ty <= floorDiv(box.Max.Y-1, tileSize); ty++ {
			if ty < 0 || ty >= grid {
				continue
			}
			for tx := floorDiv(box.Min.X, tileSize); tx <= floorDiv(box.Max.X-1, tileSize); tx++ {
				if tx < 0 || tx >= grid {
					continue
				}
				tile := maptile.New(uint32(tx), uint32(ty), z)
				tiles[tile] = append(tiles[tile], Assignment{
					Placemark: obj,
					Tile:      tile,
					Box:       box.Sub(image.Pt(tx*tileSize, ty*tileSize)),
					Marker:    marker,
					Primary:   tile == primary,
				})
			}
		}
	}
	return tiles
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
