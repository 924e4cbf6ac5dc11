package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"planetgen/config"
	"planetgen/core"
	"planetgen/preview"
	"planetgen/server"
)

func main() {
	var (
		settingsPath = flag.String("config", "settings.yaml", "Settings file (.json, .yaml or .yml)")
		preset       = flag.String("preset", "", "Generate a single preset instead of the configured scene (terrain, atmosphere, colorshell, random)")
		seed         = flag.Int64("seed", 60902, "Seed for the random preset")
		depth        = flag.Int("depth", -1, "Override subdivision depth for every mesh")
		out          = flag.String("out", "planet", "Preview image path (.webp or .png, no extension uses the configured format); empty to skip")
		jsonOut      = flag.String("json", "", "Write mesh frames as JSON to this path")
		dumpConfig   = flag.String("dump-config", "", "Write the effective settings to this path and exit")
		pickLat      = flag.Float64("pick-lat", 0, "Latitude in degrees of a surface probe")
		pickLon      = flag.Float64("pick-lon", 0, "Longitude in degrees of a surface probe")
		probe        = flag.Bool("probe", false, "Report the triangle under -pick-lat/-pick-lon on the first mesh")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	settings, err := config.Load(*settingsPath, logger)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *preset != "" {
		settings.Meshes = []config.MeshSettings{{Name: *preset, Preset: *preset, Seed: *seed}}
	}
	if *depth >= 0 {
		for i := range settings.Meshes {
			settings.Meshes[i].Depth = depth
		}
	}
	if err := settings.Validate(); err != nil {
		log.Fatalf("Invalid settings: %v", err)
	}

	if *dumpConfig != "" {
		if err := settings.Save(*dumpConfig); err != nil {
			log.Fatalf("Failed to write settings: %v", err)
		}
		logger.Printf("Wrote %s", *dumpConfig)
		return
	}

	params, err := settings.Params()
	if err != nil {
		log.Fatalf("Failed to resolve meshes: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	meshes, err := core.NewGenerator(logger).GenerateAll(ctx, params, settings.Workers)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}
	logger.Printf("Generated %d meshes in %v", len(meshes), time.Since(start).Round(time.Millisecond))

	if *probe {
		report(meshes[0], params[0].Radius, *pickLat, *pickLon)
	}

	if *jsonOut != "" {
		frames := make([]server.MeshData, len(meshes))
		for i, m := range meshes {
			frames[i] = server.NewMeshData(i, settings.Meshes[i].Name, params[i].Noise.Seed, m)
		}
		data, err := json.Marshal(frames)
		if err != nil {
			log.Fatalf("Failed to encode meshes: %v", err)
		}
		if err := os.WriteFile(*jsonOut, data, 0o644); err != nil {
			log.Fatalf("Failed to write %s: %v", *jsonOut, err)
		}
		logger.Printf("Wrote %s (%d bytes)", *jsonOut, len(data))
	}

	if *out != "" {
		path := *out
		if filepath.Ext(path) == "" {
			path += "." + strings.ToLower(settings.Preview.Format)
		}
		img, err := preview.Render(meshes, preview.OptionsFromSettings(settings.Preview))
		if err != nil {
			log.Fatalf("Preview failed: %v", err)
		}
		if err := preview.WriteFile(path, img); err != nil {
			log.Fatalf("Failed to write preview: %v", err)
		}
		logger.Printf("Wrote %s", path)
	}
}

// report casts a ray from outside the mesh toward the center through the
// given surface point and prints what it hits.
func report(m *core.Mesh, radius float32, lat, lon float64) {
	hit, ok := core.PickGeographic(m, core.Geographic{
		Lat: core.DegreesToRadians(lat),
		Lon: core.DegreesToRadians(lon),
	})
	if !ok {
		fmt.Printf("Probe %.2f°, %.2f°: no hit\n", lat, lon)
		return
	}
	g := hit.Geographic(radius)
	v := m.Vertices[3*hit.Triangle]
	fmt.Printf("Probe %.2f°, %.2f°: triangle %d, altitude %.4f, color (%.3f, %.3f, %.3f, %.3f)\n",
		core.RadiansToDegrees(g.Lat), core.RadiansToDegrees(g.Lon), hit.Triangle, g.Alt,
		v.Color[0], v.Color[1], v.Color[2], v.Color[3])
}
