package tiling

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/paulmach/orb/maptile"

	"hotspots/internal/models"
)

// encodeFragment derives the hotspot descriptor for one tile. Only primary
// assignments contribute regions, so a marker bleeding across a border is
// clickable in exactly one tile. Regions keep the assignment (paint) order
// and are clipped to the tile bounds. Returns nil when the tile holds only
// bleed copies; such tiles get an image but no descriptor.
func encodeFragment(
	tile maptile.Tile,
	tileSize int,
	assignments []Assignment,
	zoom int,
	metadataFor MetadataFunc,
	report *models.Report,
) *models.Fragment {
	bounds := image.Rect(0, 0, tileSize, tileSize)

	var regions []models.Region
	for _, a := range assignments {
		if !a.Primary {
			continue
		}
		meta, err := metadataFor(a.Placemark, zoom)
		if err != nil {
			report.AddSkip(a.Placemark.ID, zoom, fmt.Errorf("metadata for %s: %w", a.Placemark.ID, err))
			continue
		}
		data, err := json.Marshal(meta)
		if err != nil {
			report.AddSkip(a.Placemark.ID, zoom, fmt.Errorf("metadata for %s: %w", a.Placemark.ID, err))
			continue
		}

		rect := a.Box.Intersect(bounds)
		regions = append(regions, models.Region{
			Rect: [4]int{rect.Min.X, rect.Min.Y, rect.Dx(), rect.Dy()},
			Data: data,
		})
	}
	if len(regions) == 0 {
		return nil
	}
	return &models.Fragment{
		Zoom:    zoom,
		TileX:   int(tile.X),
		TileY:   int(tile.Y),
		Regions: regions,
	}
}

// defaultMetadata mirrors the historical hotspot payload: the placemark's
// name and description, empty fields omitted.
func defaultMetadata(p *models.Placemark, _ int) (any, error) {
	return p.Data(), nil
}
