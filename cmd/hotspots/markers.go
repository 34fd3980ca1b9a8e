package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"hotspots/internal/models"
	"hotspots/internal/tiling"
)

// loadMarker decodes one marker PNG from the markers directory.
func loadMarker(dir, name string) (image.Image, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening marker %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding marker %s: %w", path, err)
	}
	return img, nil
}

// markerPolicy is the default image selection: the small marker on far-out
// zoom levels, the big one from bigZoom up. Markers are decoded once and
// shared across the run.
func markerPolicy(big, small image.Image, bigZoom int) tiling.ImageFunc {
	return func(_ *models.Placemark, zoom int) (image.Image, error) {
		if zoom >= bigZoom {
			return big, nil
		}
		return small, nil
	}
}
