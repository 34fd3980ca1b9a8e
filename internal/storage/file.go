package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb/maptile"

	"hotspots/internal/keys"
)

// FileSink persists tile artifacts under a local directory tree using the
// shared keys layout, e.g. `<root>/png/10/tile-3456-2578.png`.
type FileSink struct {
	root  string
	jsonp bool
}

func NewFileSink(root string, jsonp bool) *FileSink {
	return &FileSink{root: root, jsonp: jsonp}
}

func (s *FileSink) WriteTile(_ context.Context, tile maptile.Tile, data []byte) error {
	return s.write(keys.TileImage(tile), data)
}

func (s *FileSink) WriteFragment(_ context.Context, tile maptile.Tile, data []byte) error {
	return s.write(keys.TileFragment(tile, s.jsonp), data)
}

// write stores the artifact through a temp file and a rename, so a crashed
// or cancelled run never leaves a partially written tile observable.
func (s *FileSink) write(key string, data []byte) error {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tile-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("closing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}
