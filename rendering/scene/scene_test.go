package scene

import (
	"context"
	"errors"
	"testing"

	"planetgen/core"
)

func smallParams() []core.Params {
	terrain := core.DefaultTerrain()
	terrain.Depth = 1
	shell := core.DefaultAtmosphere(1.2)
	shell.Depth = 1
	return []core.Params{terrain, shell}
}

func TestNewGeneratesEveryMesh(t *testing.T) {
	s, err := New(context.Background(), smallParams(), 2, 1, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Meshes()) != 2 {
		t.Fatalf("got %d meshes", len(s.Meshes()))
	}
	if got := s.Radii(); got[0] != 1 || got[1] != 1.2 {
		t.Errorf("radii %v", got)
	}
}

func TestRerollChangesOnlyTerrain(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, smallParams(), 2, 7, nil)
	if err != nil {
		t.Fatal(err)
	}
	shell := s.Meshes()[1]

	if err := s.Reroll(ctx); err != nil {
		t.Fatal(err)
	}
	p := s.Params()
	if p[0].Depth != 1 {
		t.Errorf("reroll changed depth to %d", p[0].Depth)
	}
	if p[0].Radius != core.RandomTerrain(0).Radius {
		t.Errorf("terrain was not replaced by a random preset: %+v", p[0])
	}
	if s.Meshes()[1] == shell {
		t.Error("shell mesh was not regenerated with the scene")
	}
	if p[1].Kind != core.KindAtmosphere || p[1].Depth != 1 {
		t.Errorf("shell params changed: %+v", p[1])
	}
}

func TestAdjustDepth(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, smallParams(), 2, 1, nil)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.AdjustDepth(ctx, 1); err != nil {
		t.Fatal(err)
	}
	for i, m := range s.Meshes() {
		if m.Stats.Triangles != core.TriangleCount(2) {
			t.Errorf("mesh %d has %d triangles", i, m.Stats.Triangles)
		}
	}

	before := s.Meshes()
	if err := s.AdjustDepth(ctx, -3); !errors.Is(err, core.ErrInvalidDepth) {
		t.Fatalf("got %v", err)
	}
	if s.Meshes()[0] != before[0] || s.Params()[0].Depth != 2 {
		t.Error("failed adjustment modified the scene")
	}
}

func TestApply(t *testing.T) {
	ctx := context.Background()
	s, err := New(ctx, smallParams(), 1, 3, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Apply(ctx, ActionShallower); err != nil {
		t.Fatal(err)
	}
	if got := s.Params()[0].Depth; got != 0 {
		t.Errorf("depth %d after shallower", got)
	}
	if err := s.Apply(ctx, Action(99)); err == nil {
		t.Error("unknown action accepted")
	}
}
