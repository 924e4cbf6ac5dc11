package core

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/alitto/pond/v2"
)

// GenerateAll builds one mesh per entry of params on a worker pool. Results
// keep the order of params. The first failure skips work that has not
// started yet and is returned; cancelling ctx stops the pool.
func (g *Generator) GenerateAll(ctx context.Context, params []Params, workers int) ([]*Mesh, error) {
	if len(params) == 0 {
		return []*Mesh{}, ctx.Err()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	pool := pond.NewPool(workers, pond.WithContext(ctx))
	defer pool.StopAndWait()

	var failed atomic.Bool
	meshes := make([]*Mesh, len(params))
	group := pool.NewGroup()
	for i := range params {
		group.SubmitErr(func() error {
			// a sibling already failed; its error is the one reported
			if failed.Load() {
				return nil
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := g.Generate(params[i])
			if err != nil {
				failed.Store(true)
				return fmt.Errorf("mesh %d: %w", i, err)
			}
			meshes[i] = m
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return meshes, nil
}
