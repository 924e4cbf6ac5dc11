package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"
	"time"

	"planetgen/config"
	"planetgen/rendering/opengl"
	"planetgen/rendering/scene"
)

func main() {
	runtime.LockOSThread()

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

	renderer, err := opengl.NewMeshRenderer(*width, *height, "planetgen", logger)
	if err != nil {
		log.Fatalf("Failed to create renderer: %v", err)
	}
	defer renderer.Terminate()
	renderer.SetMeshes(sc.Meshes(), sc.Radii())

	fmt.Println("Controls: drag rotate, scroll zoom, click pick, R reroll, +/- depth, W wireframe, L lighting, Space spin, Esc quit")

	lastTime := time.Now()
	for !renderer.ShouldClose() {
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		if actions := renderer.Actions(); len(actions) > 0 {
			for _, a := range actions {
				if err := sc.Apply(ctx, a); err != nil {
					logger.Printf("Regenerate: %v", err)
				}
			}
			renderer.SetMeshes(sc.Meshes(), sc.Radii())
		}

		renderer.Update(dt)
		renderer.Render()
		renderer.PollEvents()
	}
}
