package source

import (
	"context"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"

	"hotspots/internal/models"
)

// GeoJSONSource reads a FeatureCollection file and yields one placemark per
// Point feature. Non-point geometries are logged and skipped.
type GeoJSONSource struct {
	fc  *geojson.FeatureCollection
	log *logrus.Logger
}

// NewGeoJSONSource parses the whole file up front so malformed input fails
// before a run starts.
func NewGeoJSONSource(path string, log *logrus.Logger) (*GeoJSONSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &GeoJSONSource{fc: fc, log: log}, nil
}

func (s *GeoJSONSource) Placemarks(ctx context.Context) <-chan *models.Placemark {
	out := make(chan *models.Placemark)
	go func() {
		defer close(out)
		for i, f := range s.fc.Features {
			point, ok := f.Geometry.(orb.Point)
			if !ok {
				s.log.Warnf("feature %d: geometry %T is not a point, skipping", i, f.Geometry)
				continue
			}
			select {
			case out <- featurePlacemark(f, point, i):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func featurePlacemark(f *geojson.Feature, point orb.Point, index int) *models.Placemark {
	id := fmt.Sprintf("%d", index)
	if f.ID != nil {
		id = fmt.Sprintf("%v", f.ID)
	} else if v, ok := f.Properties["id"]; ok {
		id = fmt.Sprintf("%v", v)
	}

	return &models.Placemark{
		ID:          id,
		Lat:         point.Lat(),
		Lng:         point.Lon(),
		Name:        f.Properties.MustString("name", ""),
		Description: f.Properties.MustString("description", ""),
		Properties:  f.Properties,
	}
}
