// Package pipeline provides a small, generic stage/step pipeline. Steps
// within a stage run in parallel for each item; stages run sequentially. The
// tile generator uses it to phase each tile's render/encode work before its
// persistence.
package pipeline

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// Step is a single operation that mutates the item in place. Steps in the
// same stage may run concurrently on the same item and must not touch the
// same fields. A failing step returns an error; the pipeline logs it and
// keeps processing.
type Step[T any] func(ctx context.Context, item *T) error

// Stage groups steps that are safe to execute in parallel for one item. The
// pipeline waits for every step of a stage before starting the next stage.
type Stage[T any] struct {
	steps []Step[T]
}

// NewStage constructs a Stage from the provided steps.
func NewStage[T any](steps ...Step[T]) Stage[T] {
	return Stage[T]{steps: steps}
}

// Pipeline applies a fixed sequence of stages to every item read from a
// channel. It holds no state besides its stages, so several goroutines may
// call Process on the same Pipeline to spread items over workers.
type Pipeline[T any] struct {
	stages []Stage[T]
	log    *logrus.Logger
}

// New constructs a Pipeline from the provided stages. A nil logger falls back
// to the logrus standard logger.
func New[T any](log *logrus.Logger, stages ...Stage[T]) *Pipeline[T] {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Pipeline[T]{stages: stages, log: log}
}

// Process consumes items from in until the channel is closed, running every
// stage on each item. Within a stage each step gets its own goroutine and the
// stage acts as a barrier. Step errors are logged and do not stop the
// pipeline; steps that care about cancellation observe ctx themselves.
func (p *Pipeline[T]) Process(ctx context.Context, in <-chan *T) {
	for item := range in {
		for _, stage := range p.stages {
			var wg sync.WaitGroup
			for _, step := range stage.steps {
				wg.Add(1)
				go func(step Step[T]) {
					defer wg.Done()
					if err := step(ctx, item); err != nil {
						p.log.Warnf("pipeline step failed: %v", err)
					}
				}(step)
			}
			wg.Wait()
		}
	}
}
