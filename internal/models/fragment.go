package models

import "encoding/json"

// Region is one clickable rectangle inside a tile, expressed in local tile
// pixels as [x, y, w, h] and clipped to the tile bounds. Data is the
// serialized payload the client resolves the region to.
type Region struct {
	Rect [4]int          `json:"rect"`
	Data json.RawMessage `json:"data"`
}

// Fragment is the per-tile hotspot descriptor handed to the persistence
// collaborator. Regions are listed in paint order, so a client iterating them
// back to front resolves a click to the topmost visible placemark.
type Fragment struct {
	Zoom    int      `json:"zoom"`
	TileX   int      `json:"tileX"`
	TileY   int      `json:"tileY"`
	Regions []Region `json:"regions"`
}

// Encode serializes the fragment. When callback is non-empty the JSON is
// wrapped in a JS callback invocation (`callback({...});`) so the descriptor
// can be loaded as a script by the map client; otherwise plain JSON is
// returned.
func (f *Fragment) Encode(callback string) ([]byte, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	if callback == "" {
		return body, nil
	}
	out := make([]byte, 0, len(callback)+len(body)+3)
	out = append(out, callback...)
	out = append(out, '(')
	out = append(out, body...)
	out = append(out, ')', ';')
	return out, nil
}
