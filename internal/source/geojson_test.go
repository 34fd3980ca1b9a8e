package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const testCollection = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [37.6173, 55.7558]},
      "properties": {"id": "kremlin", "name": "Kremlin", "description": "Moscow"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [1, 1]]},
      "properties": {"name": "not a point"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [151.2093, -33.8688]},
      "properties": {"name": "Opera House"}
    }
  ]
}`

func writeCollection(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "placemarks.geojson")
	if err := os.WriteFile(path, []byte(testCollection), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestGeoJSONSource(t *testing.T) {
	src, err := NewGeoJSONSource(writeCollection(t), nil)
	if err != nil {
		t.Fatalf("NewGeoJSONSource: %v", err)
	}

	placemarks := Collect(context.Background(), src)
	if len(placemarks) != 2 {
		t.Fatalf("got %d placemarks, want 2 (line feature skipped)", len(placemarks))
	}

	first := placemarks[0]
	if first.ID != "kremlin" || first.Name != "Kremlin" || first.Description != "Moscow" {
		t.Errorf("first placemark = %+v", first)
	}
	if first.Lat != 55.7558 || first.Lng != 37.6173 {
		t.Errorf("first placemark at (%f, %f), want (55.7558, 37.6173)", first.Lat, first.Lng)
	}

	second := placemarks[1]
	if second.Name != "Opera House" || second.Lat != -33.8688 {
		t.Errorf("second placemark = %+v", second)
	}
	// No id property: the feature index stands in.
	if second.ID != "2" {
		t.Errorf("second placemark ID = %q, want feature index", second.ID)
	}
}

func TestGeoJSONSourceBadFile(t *testing.T) {
	if _, err := NewGeoJSONSource(filepath.Join(t.TempDir(), "missing.geojson"), nil); err == nil {
		t.Error("expected an error for a missing file")
	}

	path := filepath.Join(t.TempDir(), "broken.geojson")
	os.WriteFile(path, []byte("{not json"), 0o644)
	if _, err := NewGeoJSONSource(path, nil); err == nil {
		t.Error("expected an error for malformed GeoJSON")
	}
}
