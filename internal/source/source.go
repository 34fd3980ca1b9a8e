// Package source supplies placemark collections from external systems. The
// engine itself only consumes a finite, already-loaded collection; sources
// stream placemarks on a channel and Collect gathers them for a run.
package source

import (
	"context"

	"hotspots/internal/models"
)

// Source streams the placemarks of one collection. The returned channel is
// closed when the collection is exhausted or the context is cancelled;
// malformed records are logged and skipped rather than ending the stream.
type Source interface {
	Placemarks(ctx context.Context) <-chan *models.Placemark
}

// Collect drains a source into a slice, preserving stream order. The order
// fixes the paint order of overlapping markers for the whole run.
func Collect(ctx context.Context, src Source) []*models.Placemark {
	var out []*models.Placemark
	for p := range src.Placemarks(ctx) {
		out = append(out, p)
	}
	return out
}
