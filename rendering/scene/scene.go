// Package scene keeps the meshes shown by an interactive viewer and rebuilds
// them on request.
package scene

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"

	"planetgen/core"
)

// Action is a scene change requested from a viewer's keyboard.
type Action int

const (
	ActionReroll Action = iota + 1
	ActionDeeper
	ActionShallower
)

// Scene is the viewer's current set of meshes and the params that built them.
type Scene struct {
	logger  *log.Logger
	gen     *core.Generator
	workers int
	rng     *rand.Rand

	params []core.Params
	meshes []*core.Mesh
}

// New generates params once. seed drives later rerolls. A nil logger
// discards output.
func New(ctx context.Context, params []core.Params, workers int, seed int64, logger *log.Logger) (*Scene, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Scene{
		logger:  logger,
		gen:     core.NewGenerator(logger),
		workers: workers,
		rng:     rand.New(rand.NewSource(seed)),
		params:  append([]core.Params(nil), params...),
	}
	if err := s.rebuild(ctx, s.params); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scene) Meshes() []*core.Mesh {
	return s.meshes
}

// Radii returns the base radius of every mesh.
func (s *Scene) Radii() []float32 {
	out := make([]float32, len(s.params))
	for i, p := range s.params {
		out[i] = p.Radius
	}
	return out
}

func (s *Scene) Params() []core.Params {
	return append([]core.Params(nil), s.params...)
}

// Reroll replaces every terrain mesh with a random terrain of the same depth.
// Other meshes are kept as they are.
func (s *Scene) Reroll(ctx context.Context) error {
	next := s.Params()
	rerolled := 0
	for i, p := range next {
		if p.Kind != core.KindTerrain && p.Kind != "" {
			continue
		}
		seed := s.rng.Int63()
		r := core.RandomTerrain(seed)
		r.Depth = p.Depth
		next[i] = r
		rerolled++
		s.logger.Printf("Rerolled mesh %d with seed %d", i, seed)
	}
	if rerolled == 0 {
		return nil
	}
	return s.rebuild(ctx, next)
}

// AdjustDepth changes the depth of every mesh by delta. It fails without
// touching the scene if any depth would leave [0, core.MaxDepth].
func (s *Scene) AdjustDepth(ctx context.Context, delta int) error {
	next := s.Params()
	for i := range next {
		d := next[i].Depth + delta
		if d < 0 || d > core.MaxDepth {
			return fmt.Errorf("mesh %d: depth %d: %w", i, d, core.ErrInvalidDepth)
		}
		next[i].Depth = d
	}
	return s.rebuild(ctx, next)
}

// Apply performs a queued viewer action.
func (s *Scene) Apply(ctx context.Context, a Action) error {
	switch a {
	case ActionReroll:
		return s.Reroll(ctx)
	case ActionDeeper:
		return s.AdjustDepth(ctx, 1)
	case ActionShallower:
		return s.AdjustDepth(ctx, -1)
	}
	return fmt.Errorf("unknown action %d", a)
}

// rebuild generates params and swaps them in only on success.
func (s *Scene) rebuild(ctx context.Context, params []core.Params) error {
	meshes, err := s.gen.GenerateAll(ctx, params, s.workers)
	if err != nil {
		return err
	}
	s.params = params
	s.meshes = meshes
	return nil
}
