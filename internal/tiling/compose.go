package tiling

import (
	"bytes"
	"image"
	"image/png"

	"github.com/fogleman/gg"
)

// renderTile composites the tile's assignments, in order, onto a transparent
// tile-sized canvas. Markers are pasted at native resolution with alpha
// blending; boxes extending outside the tile are clipped by the canvas, which
// is how bleed from neighboring tiles paints its visible part. Returns nil
// for an empty assignment list: such tiles produce no artifact at all.
func renderTile(tileSize int, assignments []Assignment) image.Image {
	if len(assignments) == 0 {
		return nil
	}
	dc := gg.NewContext(tileSize, tileSize)
	for _, a := range assignments {
		dc.DrawImage(a.Marker, a.Box.Min.X, a.Box.Min.Y)
	}
	return dc.Image()
}

// encodePNG serializes a rendered tile. PNG keeps the alpha channel, which
// the map client needs to overlay tiles on the base map.
func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
