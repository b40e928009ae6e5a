package workers

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Workers runs a set of workers together.
type Workers struct {
	workers []Worker
}

// New returns an aggregate of ws. Nil entries are skipped.
func New(ws ...Worker) *Workers {
	agg := &Workers{}
	for _, w := range ws {
		if w != nil {
			agg.workers = append(agg.workers, w)
		}
	}
	return agg
}

// Add appends w to the aggregate.
func (w *Workers) Add(worker Worker) {
	if worker != nil {
		w.workers = append(w.workers, worker)
	}
}

// Run starts every worker and waits for all of them. The first failure
// cancels the context passed to the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, worker := range w.workers {
		g.Go(func() error {
			return worker.Run(ctx)
		})
	}
	return g.Wait()
}
