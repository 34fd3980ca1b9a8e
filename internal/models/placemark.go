package models

import "fmt"

// Placemark is one geo-located object to place on the map. It is immutable
// for the duration of a generation run; the engine never writes to it.
//
// Which marker image and which client-visible metadata a placemark gets at a
// given zoom level is decided by the caller through injected functions, so
// the engine stays generic over the caller's object schema.
type Placemark struct {
	ID          string  `json:"id"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Name        string  `json:"name,omitempty"`
	Description string  `json:"description,omitempty"`

	// Properties carries any extra source attributes (e.g. GeoJSON feature
	// properties) for custom metadata functions.
	Properties map[string]any `json:"properties,omitempty"`
}

// Data returns the default client payload for the placemark: a map with the
// non-empty name and description fields.
func (p *Placemark) Data() map[string]string {
	data := map[string]string{}
	if p.Name != "" {
		data["name"] = p.Name
	}
	if p.Description != "" {
		data["description"] = p.Description
	}
	return data
}

func (p *Placemark) String() string {
	return fmt.Sprintf("placemark %s (%f, %f)", p.ID, p.Lat, p.Lng)
}
