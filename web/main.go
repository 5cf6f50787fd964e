package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-weekend-raytracer/pkg/config"
	"github.com/df07/go-weekend-raytracer/web/server"
)

func main() {
	envFile := flag.String("env", ".env", "Environment file with RAYTRACER_* settings")
	port := flag.Int("port", 0, "Port to serve on (overrides RAYTRACER_PORT)")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Printf("Error loading configuration: %v", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		os.Exit(1)
	}

	webServer := server.NewServer(cfg)

	log.Printf("Weekend Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", cfg.Port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
