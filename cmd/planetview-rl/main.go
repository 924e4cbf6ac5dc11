package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"planetgen/config"
	"planetgen/rendering/rlview"
	"planetgen/rendering/scene"
)

func main() {
	var (
		settingsPath = flag.String("config", "settings.yaml", "Settings file (.json, .yaml or .yml)")
		width        = flag.Int("width", 1280, "Window width")
		height       = flag.Int("height", 720, "Window height")
		seed         = flag.Int64("seed", time.Now().UnixNano(), "Seed for terrain rerolls")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	settings, err := config.Load(*settingsPath, logger)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	params, err := settings.Params()
	if err != nil {
		log.Fatalf("Failed to resolve meshes: %v", err)
	}

	ctx := context.Background()
	sc, err := scene.New(ctx, params, settings.Workers, *seed, logger)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	viewer := rlview.New(*width, *height, "planetgen", logger)
	defer viewer.Close()
	viewer.SetMeshes(sc.Meshes(), sc.Radii())

	for !viewer.ShouldClose() {
		if actions := viewer.HandleInput(); len(actions) > 0 {
			for _, a := range actions {
				if err := sc.Apply(ctx, a); err != nil {
					logger.Printf("Regenerate: %v", err)
				}
			}
			viewer.SetMeshes(sc.Meshes(), sc.Radii())
		}
		viewer.Draw()
	}
}
