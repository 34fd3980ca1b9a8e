package models

import (
	"fmt"
	"sync"

	"github.com/paulmach/orb/maptile"
)

// SkippedObject records a placemark that was excluded from one zoom level's
// output, together with the reason (projection range, marker problems, ...).
type SkippedObject struct {
	ID   string
	Zoom int
	Err  error
}

// FailedTile records a tile whose persistence failed. Other tiles keep being
// generated and written regardless.
type FailedTile struct {
	Tile maptile.Tile
	Err  error
}

// Report aggregates the outcome of one generation run. Tile workers append to
// it concurrently, so all mutation goes through the locked methods.
type Report struct {
	mu      sync.Mutex
	skipped []SkippedObject
	failed  []FailedTile
	tiles   int
	aborted bool
}

func (r *Report) AddSkip(id string, zoom int, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.skipped = append(r.skipped, SkippedObject{ID: id, Zoom: zoom, Err: err})
}

func (r *Report) AddFailure(tile maptile.Tile, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failed = append(r.failed, FailedTile{Tile: tile, Err: err})
}

func (r *Report) AddTile() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tiles++
}

// Abort marks the run as stopped before completion (cancellation). Validation
// failures never produce a report at all; the run errors out instead.
func (r *Report) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aborted = true
}

func (r *Report) Skipped() []SkippedObject {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]SkippedObject, len(r.skipped))
	copy(out, r.skipped)
	return out
}

func (r *Report) Failed() []FailedTile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]FailedTile, len(r.failed))
	copy(out, r.failed)
	return out
}

// Tiles returns how many tiles were successfully persisted.
func (r *Report) Tiles() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tiles
}

func (r *Report) Aborted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.aborted
}

// Status summarizes the run: "aborted", "complete", or "complete with N
// skipped objects and M failed tiles".
func (r *Report) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aborted {
		return "aborted"
	}
	if len(r.skipped) == 0 && len(r.failed) == 0 {
		return "complete"
	}
	return fmt.Sprintf("complete with %d skipped objects and %d failed tiles",
		len(r.skipped), len(r.failed))
}
