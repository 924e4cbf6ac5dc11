package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"

	"planetgen/config"
	"planetgen/server"
)

func main() {
	var (
		settingsPath = flag.String("config", "settings.yaml", "Settings file (.json, .yaml or .yml)")
		port         = flag.Int("port", 0, "Override the listen port")
	)
	flag.Parse()

	logger := log.New(os.Stderr, "", log.LstdFlags)

	settings, err := config.Load(*settingsPath, logger)
	if err != nil {
		log.Fatalf("Failed to load settings: %v", err)
	}
	if *port > 0 {
		settings.Server.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	srv, err := server.New(ctx, settings, logger)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	if err := srv.ListenAndServe(ctx, fmt.Sprintf(":%d", settings.Server.Port)); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	logger.Println("Shutting down...")
}
